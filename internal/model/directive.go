package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Section is a logical dashboard area that can be navigated to.
type Section string

// Sections, in navigation order.
const (
	SectionDashboard    Section = "dashboard"
	SectionTransactions Section = "transactions"
	SectionBudget       Section = "budget"
	SectionGoals        Section = "goals"
	SectionReports      Section = "reports"
	SectionAssistant    Section = "assistant"
)

// Sections lists every section in navigation order.
var Sections = []Section{
	SectionDashboard,
	SectionTransactions,
	SectionBudget,
	SectionGoals,
	SectionReports,
	SectionAssistant,
}

// ParseSection resolves a section name.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Modal names a form that a directive can open.
type Modal string

// Modals.
const (
	ModalTransaction Modal = "transaction"
	ModalGoal        Modal = "goal"
	ModalBudget      Modal = "budget"
)

// Directive is an instruction from the assistant to perform one UI action.
// The set of implementations is closed; see the Directive* types below.
type Directive interface {
	directiveKind() string
}

// ShowBalance asks the client to display the current balance figures.
type ShowBalance struct {
	Saldo    decimal.Decimal `json:"saldo"`
	Receitas decimal.Decimal `json:"receitas"`
	Despesas decimal.Decimal `json:"despesas"`
}

// ShowCategoryAnalysis highlights the spending of one category.
type ShowCategoryAnalysis struct {
	Categoria string          `json:"categoria"`
	Valor     decimal.Decimal `json:"valor"`
}

// SuggestGoals asks the client to suggest creating goals.
type SuggestGoals struct{}

// PromptAddData asks the client to prompt for the user's first transactions.
type PromptAddData struct{}

// NavigateToSection switches to a section, optionally opening the
// add-transaction form. An empty Section means only the form opens.
type NavigateToSection struct {
	Section   Section `json:"section"`
	OpenModal bool    `json:"openModal"`
}

// OpenModal opens a form with optional prefilled fields.
type OpenModal struct {
	Prefill map[string]string `json:"prefill"`
	Modal   Modal             `json:"modal"`
}

func (ShowBalance) directiveKind() string          { return "show_balance" }
func (ShowCategoryAnalysis) directiveKind() string { return "show_category_analysis" }
func (SuggestGoals) directiveKind() string         { return "suggest_goals" }
func (PromptAddData) directiveKind() string        { return "prompt_add_data" }
func (NavigateToSection) directiveKind() string    { return "navigate_to_section" }
func (OpenModal) directiveKind() string            { return "open_modal" }

// DirectiveKind returns the wire type of d.
func DirectiveKind(d Directive) string {
	return d.directiveKind()
}

type rawDirective struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Directives decodes an assistant action list. Unknown types and malformed
// payloads are dropped so that new server-side kinds never break the client.
type Directives []Directive

// UnmarshalJSON implements json.Unmarshaler.
func (ds *Directives) UnmarshalJSON(b []byte) error {
	var raws []rawDirective
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}

	out := make(Directives, 0, len(raws))
	for _, raw := range raws {
		if d, ok := decodeDirective(raw); ok {
			out = append(out, d)
		}
	}
	*ds = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ds Directives) MarshalJSON() ([]byte, error) {
	raws := make([]map[string]any, 0, len(ds))
	for _, d := range ds {
		raws = append(raws, map[string]any{"type": d.directiveKind(), "data": d})
	}
	return json.Marshal(raws)
}

func decodeDirective(raw rawDirective) (Directive, bool) {
	data := raw.Data
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}

	switch raw.Type {
	case "show_balance":
		var d ShowBalance
		err := json.Unmarshal(data, &d)
		return d, err == nil
	case "show_category_analysis":
		var d ShowCategoryAnalysis
		err := json.Unmarshal(data, &d)
		return d, err == nil
	case "suggest_goals":
		return SuggestGoals{}, true
	case "prompt_add_data":
		return PromptAddData{}, true
	case "navigate_to_section":
		var d NavigateToSection
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, false
		}
		if _, err := ParseSection(string(d.Section)); err != nil {
			// An unknown section only cancels the move; the form still opens.
			if !d.OpenModal {
				return nil, false
			}
			d.Section = ""
		}
		return d, true
	case "open_modal":
		var d OpenModal
		err := json.Unmarshal(data, &d)
		return d, err == nil
	}
	return nil, false
}
