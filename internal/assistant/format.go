package assistant

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Unavailable replaces an empty reply.
const Unavailable = "Resposta não disponível"

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)

	boldStyle   = lipgloss.NewStyle().Bold(true)
	italicStyle = lipgloss.NewStyle().Italic(true)
)

// topics pick the emoji prefix of a reply; the first match wins.
var topics = []struct {
	emoji    string
	keywords []string
}{
	{"💰", []string{"saldo", "dinheiro"}},
	{"💸", []string{"gasto", "despesa"}},
	{"🎯", []string{"meta", "objetivo"}},
	{"📊", []string{"relatório", "análise"}},
	{"💡", []string{"economia", "poupança"}},
}

// FormatResponse renders the assistant's light markdown for the terminal.
func FormatResponse(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unavailable
	}

	formatted := boldPattern.ReplaceAllStringFunc(text, func(m string) string {
		return boldStyle.Render(boldPattern.FindStringSubmatch(m)[1])
	})
	formatted = italicPattern.ReplaceAllStringFunc(formatted, func(m string) string {
		return italicStyle.Render(italicPattern.FindStringSubmatch(m)[1])
	})

	lines := strings.Split(formatted, "\n")
	for i, line := range lines {
		if item, ok := strings.CutPrefix(strings.TrimLeft(line, " "), "• "); ok {
			lines[i] = "  • " + item
		}
	}
	formatted = strings.Join(lines, "\n")

	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(text, kw) {
				return t.emoji + " " + formatted
			}
		}
	}
	return formatted
}
