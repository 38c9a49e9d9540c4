package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the assistant about your finances",
		Long: `Ask the assistant a question. Without arguments a chat starts; type
"sair" or an empty line to leave.

Examples:
  finan ask qual meu saldo?
  finan ask`,
		RunE: runAsk,
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	_, bridge, err := newAssistant()
	if err != nil {
		return err
	}
	chat := assistant.NewSession(bridge)
	userID := s.identity.UserID

	if len(args) > 0 {
		return ask(ctx, out, chat, strings.Join(args, " "), userID)
	}

	fmt.Fprintln(out, cli.FormatTitle(cli.RobotIcon+" Assistente financeiro"))
	fmt.Fprintln(out, cli.SubtleStyle.Render("Sugestões: "+strings.Join(components.QuickQuestions, " · ")))
	p := prompter(cmd)
	for {
		query, err := p.Ask(ctx, "Você", "")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if query == "" || strings.EqualFold(query, "sair") {
			return nil
		}
		if err := ask(ctx, out, chat, query, userID); err != nil {
			return err
		}
	}
}

func ask(ctx context.Context, out io.Writer, chat *assistant.Session, query string, userID *int) error {
	answer, err := chat.Send(ctx, query, userID)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.RenderBox(cli.RobotIcon+" Assistente", assistant.FormatResponse(answer.Response)))
	assistant.Dispatch(&hints{out: out}, answer.Directives)
	return nil
}

// hints turns directives into suggestions of commands to run.
type hints struct {
	out io.Writer
}

var _ assistant.Handler = (*hints)(nil)

func (h *hints) line(text string) {
	fmt.Fprintln(h.out, cli.FormatInfo(text))
}

func (h *hints) ShowBalance(d model.ShowBalance) {
	h.line(fmt.Sprintf("Saldo %s · Receitas %s · Despesas %s",
		model.FormatBRL(d.Saldo), model.FormatBRL(d.Receitas), model.FormatBRL(d.Despesas)))
}

func (h *hints) ShowCategoryAnalysis(d model.ShowCategoryAnalysis) {
	h.line(fmt.Sprintf("%s: %s. Veja com 'finan transactions list --category %q'",
		d.Categoria, model.FormatBRL(d.Valor), d.Categoria))
}

func (h *hints) SuggestGoals() {
	h.line("Crie uma meta com 'finan goals add'")
}

func (h *hints) PromptAddData() {
	h.line("Cadastre sua primeira transação com 'finan transactions add'")
}

var sectionCommands = map[model.Section]string{
	model.SectionDashboard:    "finan summary",
	model.SectionTransactions: "finan transactions list",
	model.SectionBudget:       "finan budget",
	model.SectionGoals:        "finan goals",
	model.SectionReports:      "finan report",
	model.SectionAssistant:    "finan ask",
}

func (h *hints) NavigateToSection(d model.NavigateToSection) {
	if cmd, ok := sectionCommands[d.Section]; ok {
		h.line(fmt.Sprintf("Veja com '%s'", cmd))
	}
	if d.OpenModal {
		h.line(fmt.Sprintf("Adicione com '%s'", modalCommands[model.ModalTransaction]))
	}
}

var modalCommands = map[model.Modal]string{
	model.ModalTransaction: "finan transactions add",
	model.ModalGoal:        "finan goals add",
	model.ModalBudget:      "finan budget set",
}

func (h *hints) OpenModal(d model.OpenModal) {
	cmd, ok := modalCommands[d.Modal]
	if !ok {
		return
	}
	keys := make([]string, 0, len(d.Prefill))
	for k := range d.Prefill {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd += fmt.Sprintf(" --%s %q", k, d.Prefill[k])
	}
	h.line(fmt.Sprintf("Use '%s'", cmd))
}
