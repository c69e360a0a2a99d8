package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/config"
	"github.com/Veraticus/moti-registry/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with external services like Google Sheets.`,
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google consent URL to open in your browser
2. Save the refresh token for future use
3. Update your config file with the token

You'll need to run this once before using the sheets backend, unless a
service account is configured instead.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback-addr", sheets.DefaultCallbackAddr, "Address the OAuth2 redirect is received on")
	cmd.Flags().Bool("force", false, "Re-authenticate even when a token is saved")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sheetsCfg := config.SheetsConfigFromViper()

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		sheetsCfg.ClientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		sheetsCfg.ClientSecret = flagSecret
	}

	if sheetsCfg.ClientID == "" || sheetsCfg.ClientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	tokenFile := sheetsCfg.TokenFile
	if tokenFile == "" {
		tokenFile = config.DefaultTokenFile()
	}
	callbackAddr, _ := cmd.Flags().GetString("callback-addr")
	force, _ := cmd.Flags().GetBool("force")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     sheetsCfg.ClientID,
		ClientSecret: sheetsCfg.ClientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callbackAddr,
	}, force)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Update config file with refresh token
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintln(out, cli.FormatWarning("Could not save refresh token to config file"))
		fmt.Fprintln(out, "Please add this to your config.yaml manually:")
		fmt.Fprintf(out, "sheets:\n  refresh_token: %q\n", token.RefreshToken)
	} else {
		fmt.Fprintln(out, cli.FormatSuccess("Authentication successful!"))
	}

	fmt.Fprintln(out, cli.FormatInfo("Google Sheets is ready. Run 'registry init' to create the register."))
	return nil
}
