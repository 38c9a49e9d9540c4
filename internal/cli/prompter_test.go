package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{name: "answer", input: "Mercado\n", want: "Mercado"},
		{name: "default on empty", input: "\n", def: "Outros", want: "Outros"},
		{name: "trims", input: "  Lazer  \n", want: "Lazer"},
		{name: "last line without newline", input: "fim", want: "fim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Ask(context.Background(), "Categoria", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Categoria")
		})
	}
}

func TestPrompter_Require(t *testing.T) {
	p := NewPrompter(strings.NewReader("\n"), &bytes.Buffer{})
	_, err := p.Require(context.Background(), "E-mail")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "s\n", want: true},
		{input: "SIM\n", want: true},
		{input: "y\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "talvez\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Excluir?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_PasswordWithoutTerminal(t *testing.T) {
	p := NewPrompter(strings.NewReader("segredo\n"), &bytes.Buffer{})
	got, err := p.Password(context.Background(), "Senha")
	require.NoError(t, err)
	assert.Equal(t, "segredo", got)
}

func TestPrompter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPrompter(strings.NewReader("x\n"), &bytes.Buffer{})
	_, err := p.Ask(ctx, "Qualquer", "")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestNewProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgress(&out, 3, "Importando")
	for i := 0; i < 3; i++ {
		require.NoError(t, bar.Add(1))
	}
	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Importando")
}

func TestFormatSigned(t *testing.T) {
	assert.Contains(t, FormatSigned(decimal.NewFromInt(-10)), "-R$ 10,00")
	assert.Contains(t, FormatSigned(decimal.NewFromInt(1500)), "R$ 1.500,00")
}

func TestMessageFormats(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "success", got: FormatSuccess("Salvo"), want: "✓ Salvo"},
		{name: "error", got: FormatError("Falhou"), want: "✗ Falhou"},
		{name: "warning", got: FormatWarning("Atenção"), want: "Atenção"},
		{name: "info", got: FormatInfo("Dica"), want: "Dica"},
		{name: "title", got: FormatTitle("Transações"), want: "💰 Transações"},
		{name: "prompt", got: FormatPrompt("Valor"), want: "Valor →"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.want)
		})
	}
}

func TestRenderBox(t *testing.T) {
	box := RenderBox("Resumo", "Saldo R$ 10,00")
	lines := strings.Split(box, "\n")

	require.Greater(t, len(lines), 4)
	assert.Contains(t, lines[0], "╭")
	assert.Less(t, strings.Index(box, "Resumo"), strings.Index(box, "Saldo R$ 10,00"))
}
