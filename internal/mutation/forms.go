// Package mutation drives the create, edit and delete flows: raw form input
// is parsed into typed payloads, submitted through the backend writer and
// followed by a refetch of everything the change affects.
package mutation

import (
	"strings"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
)

// Validation messages.
const (
	msgRequired    = "obrigatório"
	msgInvalidNum  = "valor inválido"
	msgNotPositive = "deve ser maior que zero"
	msgNegative    = "não pode ser negativo"
	msgInvalidDate = "use o formato AAAA-MM-DD"
	msgInvalidType = "use Receita ou Despesa"
)

func required(v *common.ValidationError, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, msgRequired)
	}
	return value
}

func amount(v *common.ValidationError, field, raw string, allowZero bool) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, msgRequired)
		return decimal.Zero
	}
	d, err := model.ParseAmount(raw)
	switch {
	case err != nil:
		v.Add(field, msgInvalidNum)
	case d.IsNegative():
		v.Add(field, msgNegative)
	case !allowZero && d.IsZero():
		v.Add(field, msgNotPositive)
	}
	return d
}

func date(v *common.ValidationError, field, raw string) model.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, msgRequired)
		return model.Date{}
	}
	parsed, err := model.ParseDate(raw)
	if err != nil {
		v.Add(field, msgInvalidDate)
	}
	return parsed
}

// TransactionForm is the raw input of the transaction modal.
type TransactionForm struct {
	Description string
	Value       string
	Category    string
	Type        string
	Date        string
}

// Parse validates the form into a payload.
func (f TransactionForm) Parse() (model.TransactionPayload, error) {
	v := common.NewValidationError()
	p := model.TransactionPayload{
		Description: required(v, "description", f.Description),
		Category:    required(v, "category", f.Category),
		Value:       amount(v, "value", f.Value, false),
		Date:        date(v, "date", f.Date),
	}
	if strings.TrimSpace(f.Type) == "" {
		v.Add("type", msgRequired)
	} else if t, err := model.ParseTransactionType(f.Type); err != nil {
		v.Add("type", msgInvalidType)
	} else {
		p.Type = t
	}
	if err := v.OrNil(); err != nil {
		return model.TransactionPayload{}, err
	}
	return p, nil
}

// TransactionFormFrom prefills the form from an existing transaction.
func TransactionFormFrom(tx model.Transaction) TransactionForm {
	return TransactionForm{
		Description: tx.Description,
		Value:       tx.Value.StringFixed(2),
		Category:    tx.Category,
		Type:        string(tx.Type),
		Date:        tx.Date.String(),
	}
}

// GoalForm is the raw input of the goal modal.
type GoalForm struct {
	Title    string
	Target   string
	Current  string
	Deadline string
	Icon     string
}

// Parse validates the form into a payload. An empty current amount means
// nothing saved yet and an empty icon gets the default.
func (f GoalForm) Parse() (model.GoalPayload, error) {
	v := common.NewValidationError()
	p := model.GoalPayload{
		Title:    required(v, "title", f.Title),
		Target:   amount(v, "target", f.Target, false),
		Deadline: date(v, "deadline", f.Deadline),
		Icon:     strings.TrimSpace(f.Icon),
	}
	if strings.TrimSpace(f.Current) != "" {
		p.Current = amount(v, "current", f.Current, true)
	}
	if p.Icon == "" {
		p.Icon = model.DefaultGoalIcon
	}
	if err := v.OrNil(); err != nil {
		return model.GoalPayload{}, err
	}
	return p, nil
}

// GoalProgressForm is the raw input of the goal progress modal.
type GoalProgressForm struct {
	Current string
}

// Parse validates the form into a payload.
func (f GoalProgressForm) Parse() (model.GoalProgressPayload, error) {
	v := common.NewValidationError()
	p := model.GoalProgressPayload{Current: amount(v, "current", f.Current, true)}
	if err := v.OrNil(); err != nil {
		return model.GoalProgressPayload{}, err
	}
	return p, nil
}

// BudgetForm is the raw input of the budget modal.
type BudgetForm struct {
	Category string
	Amount   string
}

// Parse validates the form into a payload.
func (f BudgetForm) Parse() (model.BudgetPayload, error) {
	v := common.NewValidationError()
	p := model.BudgetPayload{
		Category:     required(v, "category", f.Category),
		BudgetAmount: amount(v, "budget_amount", f.Amount, false),
	}
	if err := v.OrNil(); err != nil {
		return model.BudgetPayload{}, err
	}
	return p, nil
}
