// Package ofx turns OFX/QFX bank statements into transactions for the
// backend.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when the statement gives no hint.
const DefaultCategory = "Importado"

// Entry is one statement line, ready to post.
type Entry struct {
	FitID     string
	AccountID string
	Payload   model.TransactionPayload
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line with no closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// categories maps OFX transaction types to backend categories.
var categories = map[string]string{
	"INT":       "Rendimentos",
	"DIV":       "Rendimentos",
	"FEE":       "Tarifas bancárias",
	"SRVCHG":    "Tarifas bancárias",
	"ATM":       "Saque",
	"DIRECTDEP": "Depósitos",
}

// Parser parses OFX/QFX files.
type Parser struct {
	logger          *slog.Logger
	defaultCategory string
}

// NewParser creates a parser. Lines without a category hint get
// defaultCategory, or DefaultCategory when empty.
func NewParser(defaultCategory string, logger *slog.Logger) *Parser {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{defaultCategory: defaultCategory, logger: logger}
}

// preprocess fixes common formatting issues in OFX files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses a statement into entries, bank accounts first.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	p.logger.InfoContext(ctx, "Parsed OFX file",
		"total_transactions", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		entries = append(entries, p.convert(tx, accountID))
	}
	return entries
}

// convert maps an OFX line onto a payload. OFX signs debits negative; the
// backend carries the sign in the type.
func (p *Parser) convert(tx ofxgo.Transaction, accountID string) Entry {
	amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)
	typ := model.TypeIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
		amount = amount.Neg()
	}

	category, ok := categories[tx.TrnType.String()]
	if !ok {
		category = p.defaultCategory
	}

	return Entry{
		FitID:     string(tx.FiTID),
		AccountID: accountID,
		Payload: model.TransactionPayload{
			Description: merchantName(tx),
			Value:       amount,
			Category:    category,
			Type:        typ,
			Date:        model.DateOf(tx.DtPosted.Time),
		},
	}
}

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"COMPRA CARTAO ",
	"COMPRA DEBITO ",
	"PIX ENVIADO ",
	"PIX RECEBIDO ",
}

// merchantName picks the cleanest description the line offers.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && (name == "" || isGeneric(name)) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE", "PIX", "TED", "DOC":
		return true
	}
	return false
}

// Accounts lists the distinct account ids in a statement.
func Accounts(reader io.Reader) ([]string, error) {
	resp, err := parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			accounts = append(accounts, string(id))
		}
	}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}
	return accounts, nil
}
