package assistant

import (
	"fmt"

	"github.com/Veraticus/finanmaster/internal/model"
)

// Handler reacts to the directives of an answer. Every directive kind has
// exactly one method.
type Handler interface {
	ShowBalance(d model.ShowBalance)
	ShowCategoryAnalysis(d model.ShowCategoryAnalysis)
	SuggestGoals()
	PromptAddData()
	NavigateToSection(d model.NavigateToSection)
	OpenModal(d model.OpenModal)
}

// Dispatch delivers directives to h in order.
func Dispatch(h Handler, directives model.Directives) {
	for _, d := range directives {
		switch d := d.(type) {
		case model.ShowBalance:
			h.ShowBalance(d)
		case model.ShowCategoryAnalysis:
			h.ShowCategoryAnalysis(d)
		case model.SuggestGoals:
			h.SuggestGoals()
		case model.PromptAddData:
			h.PromptAddData()
		case model.NavigateToSection:
			h.NavigateToSection(d)
		case model.OpenModal:
			h.OpenModal(d)
		default:
			// Directives only come from decodeDirective; a new kind must be added here.
			panic(fmt.Sprintf("assistant: unhandled directive %T", d))
		}
	}
}
