package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "registry",
		Short: "📥 Correspondence registry for the SME Directorate",
		Long: `registry logs incoming letters, memos and circulars, tracks them until they
are completed and reports how quickly the directorate turns them around.

The register lives in a Google Sheet by default; a local SQLite database or
an Excel workbook can stand in for it.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/registry/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("backend", "", "store backend (sheets, sqlite, xlsx)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("backend"))

	config.SetDefaults(viper.GetViper())

	// Add commands
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(copyCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Debug("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(cfgFile string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		// Search for config in standard locations
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("REGISTRY")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "registry %s\n", version)
		},
	}
}
