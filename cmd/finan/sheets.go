package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/Veraticus/finanmaster/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets export setup",
	}

	auth := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets for 'finan report --export sheets'.

This command will:
1. Open your browser to authenticate with Google
2. Save the refresh token to sheets.token_file

You'll need to run this once.`,
		RunE: runSheetsAuth,
	}
	auth.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	auth.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	auth.Flags().String("listen", "localhost:8085", "Address for the OAuth2 callback")

	cmd.AddCommand(auth)
	return cmd
}

func runSheetsAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	clientID := changed(cmd, "client-id", viper.GetString("sheets.client_id"))
	clientSecret := changed(cmd, "client-secret", viper.GetString("sheets.client_secret"))
	listen, _ := cmd.Flags().GetString("listen")

	// Check for environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret")
	}

	tokenFile := config.ExpandPath(viper.GetString("sheets.token_file"))
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.Authorize(ctx, clientID, clientSecret, listen, func(url string) {
		fmt.Fprintln(out, cli.FormatInfo("Abra no navegador para autorizar:"))
		fmt.Fprintln(out, url)
		openBrowser(url)
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := sheets.SaveToken(tokenFile, token); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess("Google Sheets configurado. Use 'finan report --export sheets'."))
	return nil
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
