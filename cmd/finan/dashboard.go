package main

import (
	"log/slog"

	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/Veraticus/finanmaster/internal/tui"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the full-screen dashboard with the summary, transactions, budget,
goals, reports and the assistant chat.

The summary refreshes every dashboard.refresh_interval. Logs go to
tui.log_file so they do not corrupt the screen.`,
		RunE: runDashboard,
	}

	cmd.Flags().Bool("record", false, "Record every frame to a temporary directory")
	cmd.Flags().Bool("no-alt-screen", false, "Render in the normal terminal buffer")
	cmd.Flags().String("chart", string(chart.KindLine), "Initial dashboard chart (line, bar)")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	record, _ := cmd.Flags().GetBool("record")
	noAlt, _ := cmd.Flags().GetBool("no-alt-screen")
	chartFlag, _ := cmd.Flags().GetString("chart")

	kind, err := chart.ParseKind(chartFlag)
	if err != nil {
		return err
	}

	theme, ok := themes.GetTheme(settings.TUI.Theme)
	if !ok {
		slog.Warn("unknown theme, using default", "theme", settings.TUI.Theme)
	}

	logger, closeLog, err := fileLogger(settings.TUI.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient()
	if err != nil {
		return err
	}
	assistantClient, bridge, err := newAssistant()
	if err != nil {
		return err
	}

	err = tui.Run(cmd.Context(), tui.Deps{
		Gateway:   client,
		Monthly:   client,
		Assistant: assistantClient,
		Bridge:    bridge,
	}, tui.RunOptions{Record: record, NoAltScreen: noAlt},
		tui.WithTheme(theme),
		tui.WithLogger(logger),
		tui.WithRefreshInterval(settings.Dashboard.RefreshInterval),
		tui.WithChunking(settings.Dashboard.ChunkSize, settings.Dashboard.ChunkDelay),
		tui.WithChartKind(kind),
	)
	if err != nil {
		return err
	}

	// The session cookie may have been refreshed by the backend.
	if err := client.SaveSession(settings.Session.File); err != nil {
		slog.Warn("failed to save session", "error", err)
	}
	return nil
}

// fileLogger opens path for the dashboard's logs.
func fileLogger(path string) (*slog.Logger, func(), error) {
	f, err := config.OpenAppend(path)
	if err != nil {
		return nil, nil, err
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	logger, err := common.NewLogger(f, level, viper.GetString("logging.format"))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}
