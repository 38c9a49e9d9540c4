package main

import (
	"fmt"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List and manage savings goals",
		RunE:  runGoalsList,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a goal",
		Long: `Create a savings goal.

Example:
  finan goals add --title Viagem --target 5000 --deadline 2025-12-01`,
		RunE: runGoalsAdd,
	}
	add.Flags().String("title", "", "Goal title")
	add.Flags().String("target", "", "Target amount")
	add.Flags().String("current", "", "Amount already saved")
	add.Flags().String("deadline", "", "Deadline (YYYY-MM-DD)")
	add.Flags().String("icon", model.DefaultGoalIcon, "Icon name")

	progress := &cobra.Command{
		Use:   "progress ID AMOUNT",
		Short: "Set the amount saved for a goal",
		Args:  cobra.ExactArgs(2),
		RunE:  runGoalsProgress,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE:  runGoalsList,
	})
	cmd.AddCommand(add)
	cmd.AddCommand(progress)

	return cmd
}

func runGoalsList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	s, err := openSession(cmd.Context(), store.Goals)
	if err != nil {
		return err
	}

	goals := s.store().Goals()
	if len(goals) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("Nenhuma meta cadastrada. Use 'finan goals add' para criar uma."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(cli.GoalIcon+" Metas"))
	fmt.Fprintln(out, goalsTable(goals))
	return nil
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	form := mutation.GoalForm{
		Title:    changed(cmd, "title", ""),
		Target:   changed(cmd, "target", ""),
		Current:  changed(cmd, "current", ""),
		Deadline: changed(cmd, "deadline", ""),
		Icon:     changed(cmd, "icon", ""),
	}

	p := prompter(cmd)
	for _, f := range []struct {
		value *string
		flag  string
		label string
	}{
		{&form.Title, "title", "Título"},
		{&form.Target, "target", "Valor alvo"},
		{&form.Deadline, "deadline", "Prazo"},
	} {
		if cmd.Flags().Changed(f.flag) {
			continue
		}
		answer, err := p.Ask(ctx, f.label, "")
		if err != nil {
			return err
		}
		*f.value = answer
	}

	s.controller.OpenCreate(mutation.KindGoal)
	s.controller.SetGoalForm(form)
	return s.submit(ctx, cmd.OutOrStdout(), mutation.KindGoal)
}

func runGoalsProgress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(ctx, store.Goals)
	if err != nil {
		return err
	}
	if err := s.controller.OpenGoalProgress(id); err != nil {
		return err
	}
	s.controller.SetGoalProgressForm(mutation.GoalProgressForm{Current: args[1]})
	if err := s.submit(ctx, cmd.OutOrStdout(), mutation.KindGoalProgress); err != nil {
		return err
	}

	if g, ok := s.store().Goal(id); ok && g.Completed() {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Meta %q concluída! 🎉", g.Title)))
	}
	return nil
}
