package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	version  = "dev"
	settings *config.Settings
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finan",
		Short: "💰 Personal finance dashboard for the terminal",
		Long: `finan: a terminal client for your personal finance backend.

Track transactions, budgets and goals, ask the assistant about your
spending, and generate reports without leaving the shell.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/finan/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(transactionsCmd())
	cmd.AddCommand(goalsCmd())
	cmd.AddCommand(budgetCmd())
	cmd.AddCommand(askCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(sheetsCmd())
	cmd.AddCommand(importOFXCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(passwordHintCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine is the single line printed for a failed command.
func errorLine(err error) string {
	var validation *common.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	return common.Message(err)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// .env first so FINAN_ variables defined there reach viper
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		// Search for config in standard locations
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("FINAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	if err := v.BindPFlag("logging.level", cmd.Flags().Lookup("log-level")); err != nil {
		return fmt.Errorf("failed to bind log-level: %w", err)
	}
	if err := v.BindPFlag("logging.format", cmd.Flags().Lookup("log-format")); err != nil {
		return fmt.Errorf("failed to bind log-format: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := common.SetupLogger(cmd.ErrOrStderr(), v.GetString("logging.level"), v.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	s, err := config.Load(v)
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finan %s\n", version)
		},
	}
}
