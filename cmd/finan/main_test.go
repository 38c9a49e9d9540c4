package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/devserver"
	"github.com/Veraticus/finanmaster/internal/model"
	tuitesting "github.com/Veraticus/finanmaster/internal/tui/testing"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "segredo123"

// env is one isolated finan installation: a dev backend, an assistant stub
// and a config file pointing at both.
type env struct {
	t          *testing.T
	configPath string
	queries    []string
	mu         sync.Mutex
}

func (e *env) asked() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queries...)
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := devserver.Open(context.Background(), filepath.Join(dir, "dev.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	backend := httptest.NewServer(devserver.New(db, devserver.WithLogger(logger)).Handler())
	t.Cleanup(backend.Close)

	e := &env{t: t, configPath: filepath.Join(dir, "config.yaml")}

	mux := http.NewServeMux()
	mux.HandleFunc("/ai/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		e.mu.Lock()
		e.queries = append(e.queries, req.Query)
		e.mu.Unlock()
		_, _ = io.WriteString(w, `{"response":"Seu saldo está positivo.","actions":[
			{"type":"navigate_to_section","data":{"section":"goals"}},
			{"type":"open_modal","data":{"modal":"transaction","prefill":{"category":"Lazer"}}}]}`)
	})
	mux.HandleFunc("/reports/generate", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"report_type":"financial","insights":["Gastos estáveis"],
			"recommendations":["Poupe 10%"],"data":{"summary":{"total_receitas":3000,"total_despesas":1200,"saldo":1800,"num_transactions":2},
			"transactions":[{"id":1,"description":"Salário","value":3000,"category":"Salário","type":"Receita","date":"2024-03-05"}]}}`)
	})
	assistant := httptest.NewServer(mux)
	t.Cleanup(assistant.Close)

	cfg := fmt.Sprintf(`api:
  base_url: %s
assistant:
  base_url: %s
session:
  file: %s
tui:
  log_file: %s
dashboard:
  chunk_size: 2
`, backend.URL, assistant.URL, filepath.Join(dir, "session.json"), filepath.Join(dir, "tui.log"))
	require.NoError(t, os.WriteFile(e.configPath, []byte(cfg), 0o600))
	return e
}

// run executes finan with args, feeding input to prompts.
func (e *env) run(input string, args ...string) (string, error) {
	e.t.Helper()
	viper.Reset()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return tuitesting.StripANSI(out.String()), err
}

func (e *env) mustRun(input string, args ...string) string {
	e.t.Helper()
	out, err := e.run(input, args...)
	require.NoError(e.t, err, out)
	return out
}

func (e *env) register() {
	e.t.Helper()
	e.mustRun(password+"\n"+password+"\n",
		"register", "--username", "ana", "--email", "ana@example.com", "--hint", "o de sempre")
}

func TestCommandsRequireLogin(t *testing.T) {
	e := newEnv(t)

	for _, args := range [][]string{
		{"transactions", "list"},
		{"goals"},
		{"budget"},
		{"summary", "--no-chart"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := e.run("", args...)
			require.ErrorIs(t, err, common.ErrAuthRequired)
			assert.Contains(t, errorLine(err), "finan login")
		})
	}
}

func TestTransactionLifecycle(t *testing.T) {
	e := newEnv(t)
	e.register()

	out := e.mustRun("", "transactions", "add",
		"--description", "Mercado", "--value", "150,90", "--category", "Alimentação",
		"--type", "Despesa", "--date", "2024-03-10")
	assert.Contains(t, out, "sucesso")

	out = e.mustRun("", "transactions", "list")
	assert.True(t, tuitesting.ContainsInOrder(out, "Mercado", "Alimentação", "R$ 150,90"))

	e.mustRun("", "transactions", "edit", "1", "--value", "99,90")
	out = e.mustRun("", "transactions", "list", "--search", "merc")
	assert.Contains(t, out, "R$ 99,90")
	assert.NotContains(t, out, "R$ 150,90")

	out = e.mustRun("", "transactions", "list", "--type", "Receita")
	assert.Contains(t, out, "Nenhuma transação")

	out = e.mustRun("n\n", "transactions", "delete", "1")
	assert.Contains(t, out, "cancelada")
	assert.Contains(t, e.mustRun("", "transactions", "list"), "Mercado")

	e.mustRun("s\n", "transactions", "delete", "1")
	assert.Contains(t, e.mustRun("", "transactions", "list"), "Nenhuma transação")
}

func TestTransactionListRendersEveryChunk(t *testing.T) {
	e := newEnv(t)
	e.register()

	for day := 1; day <= 5; day++ {
		e.mustRun("", "transactions", "add",
			"--description", fmt.Sprintf("Compra %d", day), "--value", "10", "--category", "Mercado",
			"--type", "Despesa", "--date", fmt.Sprintf("2024-03-%02d", day))
	}

	out := e.mustRun("", "transactions", "list")
	assert.True(t, tuitesting.ContainsInOrder(out,
		"Descrição", "Compra 5", "Compra 4", "Compra 3", "Compra 2", "Compra 1", "5 transações"))
	assert.Equal(t, 5, strings.Count(out, "Compra "))

	out = e.mustRun("", "transactions", "list", "--limit", "3")
	assert.Equal(t, 3, strings.Count(out, "Compra "))
	assert.Contains(t, out, "3 transações")
}

func TestTransactionAddPrompts(t *testing.T) {
	e := newEnv(t)
	e.register()

	// Enter keeps the defaults for type and date.
	e.mustRun("Cinema\n45\nLazer\n\n\n", "transactions", "add")

	out := e.mustRun("", "transactions", "list", "--category", "Lazer")
	assert.True(t, tuitesting.ContainsInOrder(out, "Cinema", "Lazer", "Despesa", "R$ 45,00"))
}

func TestTransactionAddValidation(t *testing.T) {
	e := newEnv(t)
	e.register()

	_, err := e.run("", "transactions", "add",
		"--description", "Mercado", "--value", "abc", "--category", "Alimentação",
		"--type", "Despesa", "--date", "10/03/2024")

	var validation *common.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "value")
	assert.Contains(t, validation.Fields, "date")
	assert.Contains(t, e.mustRun("", "transactions", "list"), "Nenhuma transação")
}

func TestGoalsAndBudget(t *testing.T) {
	e := newEnv(t)
	e.register()

	e.mustRun("", "goals", "add", "--title", "Viagem", "--target", "5000", "--deadline", "2030-12-01")
	out := e.mustRun("", "goals")
	assert.True(t, tuitesting.ContainsInOrder(out, "Viagem", "R$ 0,00", "R$ 5.000,00", "0%"))

	out = e.mustRun("", "goals", "progress", "1", "5000")
	assert.Contains(t, out, "concluída")

	e.mustRun("", "budget", "set", "Lazer", "300")
	e.mustRun("", "budget", "set", "Lazer", "400")
	out = e.mustRun("", "budget", "list")
	assert.Equal(t, 1, strings.Count(out, "Lazer"))
	assert.Contains(t, out, "R$ 400,00")

	_, err := e.run("", "budget", "set", "Lazer", "0")
	var validation *common.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSessionCommands(t *testing.T) {
	e := newEnv(t)
	e.register()

	out := e.mustRun("", "password-hint", "ana@example.com")
	assert.Contains(t, out, "o de sempre")

	e.mustRun("", "logout")
	_, err := e.run("", "goals")
	require.ErrorIs(t, err, common.ErrAuthRequired)

	_, err = e.run("errada\n", "login", "--email", "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas.", errorLine(err))

	out = e.mustRun(password+"\n", "login", "--email", "ana@example.com")
	assert.Contains(t, out, "Login realizado")
	e.mustRun("", "goals")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("um\ndois\n", "register", "--username", "ana", "--email", "ana@example.com", "--hint", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não coincidem")
}

func TestSummary(t *testing.T) {
	e := newEnv(t)
	e.register()

	out := e.mustRun("", "summary", "--no-chart")
	assert.True(t, tuitesting.ContainsInOrder(out, "Saldo", "Receitas", "Despesas", "Economia"))
	assert.Contains(t, out, "R$ 0,00")
}

func TestAsk(t *testing.T) {
	e := newEnv(t)
	e.register()

	out := e.mustRun("", "ask", "qual", "meu", "saldo?")
	assert.Contains(t, out, "Seu saldo está positivo.")
	assert.Contains(t, out, "finan goals")
	assert.Contains(t, out, `finan transactions add --category "Lazer"`)
	assert.Equal(t, []string{"qual meu saldo?"}, e.asked())

	e.mustRun("primeira\nsegunda\nsair\nterceira\n", "ask")
	assert.Equal(t, []string{"qual meu saldo?", "primeira", "segunda"}, e.asked())
}

func TestReport(t *testing.T) {
	e := newEnv(t)
	e.register()

	out := e.mustRun("", "report", "--format", "table")
	assert.True(t, tuitesting.ContainsInOrder(out, "Receitas", "R$ 3.000,00", "Salário", "Gastos estáveis", "Poupe 10%"))

	out = e.mustRun("", "report", "--format", "summary")
	assert.Contains(t, out, "R$ 1.800,00")
	assert.NotContains(t, out, "2024-03-05")

	for _, args := range [][]string{
		{"report", "--type", "weekly"},
		{"report", "--period", "forever"},
		{"report", "--format", "pdf"},
		{"report", "--export", "excel"},
	} {
		_, err := e.run("", args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestImportOFX(t *testing.T) {
	e := newEnv(t)
	e.register()

	path := filepath.Join(t.TempDir(), "extrato.ofx")
	require.NoError(t, os.WriteFile(path, []byte(sampleOFX), 0o600))

	out := e.mustRun("", "import-ofx", "--accounts", path)
	assert.Contains(t, out, "12345")

	out = e.mustRun("", "import-ofx", "--dry-run", path)
	assert.Contains(t, out, "2 novas, 0 duplicadas")
	assert.Contains(t, e.mustRun("", "transactions", "list"), "Nenhuma transação")

	e.mustRun("", "import-ofx", path)
	out = e.mustRun("", "transactions", "list")
	assert.Contains(t, out, "PADARIA")

	out = e.mustRun("", "import-ofx", path)
	assert.Contains(t, out, "0 novas, 2 duplicadas")

	_, err := e.run("", "import-ofx", filepath.Join(t.TempDir(), "*.ofx"))
	assert.Error(t, err)
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "auth", err: fmt.Errorf("load: %w", common.ErrAuthRequired), want: "Sessão expirada. Execute 'finan login' para entrar novamente."},
		{name: "server message", err: &common.ServerError{Status: 400, Message: "Valor inválido."}, want: "Valor inválido."},
		{name: "network", err: &common.NetworkError{Err: errors.New("refused")}, want: "Não foi possível conectar ao servidor."},
		{name: "plain", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorLine(tt.err))
		})
	}
}

func TestHints(t *testing.T) {
	var out bytes.Buffer
	h := &hints{out: &out}

	h.OpenModal(model.OpenModal{Modal: model.ModalBudget, Prefill: map[string]string{"category": "Lazer", "budget_amount": "300"}})
	h.NavigateToSection(model.NavigateToSection{Section: model.SectionReports})
	h.NavigateToSection(model.NavigateToSection{OpenModal: true})
	h.SuggestGoals()

	got := tuitesting.StripANSI(out.String())
	assert.True(t, tuitesting.ContainsInOrder(got,
		`finan budget set --budget_amount "300" --category "Lazer"`,
		"finan report",
		"Adicione com 'finan transactions add'",
		"finan goals add"))
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("", "version")
	assert.Equal(t, "finan dev\n", out)
}

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>001
<ACCTID>12345
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240315120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240305120000[0:GMT]
<TRNAMT>-25.50
<FITID>A1
<NAME>PADARIA CENTRAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240306120000[0:GMT]
<TRNAMT>3000.00
<FITID>A2
<NAME>SALARIO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2974.50
<DTASOF>20240315120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`
