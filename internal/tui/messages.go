package tui

import (
	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
)

// Session messages.
type identityMsg struct {
	err      error
	identity *model.Identity
}

// Data loading messages.
type loadedMsg struct {
	err         error
	collections []store.Collection
}

type refreshTickMsg struct{}

type monthlyLoadedMsg struct {
	err    error
	report model.MonthlyReport
}

// Mutation messages.
type mutationDoneMsg struct {
	err    error
	result *model.MutationResult
	kind   mutation.Kind
}

type deleteDoneMsg struct {
	err    error
	result *model.MutationResult
}

// Assistant messages.
type answerMsg struct {
	err    error
	answer assistant.Answer
}

type insightsMsg struct {
	err      error
	insights assistant.Insights
}

type reportMsg struct {
	err    error
	report *model.Report
}

// flashClearMsg drops the status line message of generation gen.
type flashClearMsg struct {
	gen int
}
