package main

import (
	"log/slog"

	"github.com/Veraticus/finanmaster/internal/devserver"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development backend",
		Long: `Run a local backend implementing the finance API on SQLite.

Point api.base_url at it to use the dashboard without a remote server.
The database is created and migrated on first start.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default server.addr)")
	cmd.Flags().String("database", "", "SQLite file (default server.database)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	addr := changed(cmd, "addr", settings.Server.Addr)
	path := changed(cmd, "database", settings.Server.Database)

	db, err := devserver.Open(ctx, path, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	slog.Info("dev backend database ready", "path", path)
	return devserver.New(db, devserver.WithLogger(slog.Default())).ListenAndServe(ctx, addr)
}
