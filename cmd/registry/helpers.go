package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/config"
	"github.com/Veraticus/moti-registry/internal/excel"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/sheets"
	"github.com/Veraticus/moti-registry/internal/storage"
)

// envKeyReplacer maps nested keys such as store.backend onto REGISTRY_STORE_BACKEND.
var envKeyReplacer = strings.NewReplacer(".", "_")

// openStore opens the Tabular Store for backend, or the configured one when
// backend is empty. The returned func releases it.
func openStore(ctx context.Context, backend string) (registry.Store, func(), error) {
	cfg, err := config.LoadStoreConfig(backend)
	if err != nil {
		return nil, nil, common.NewUserError("The store backend is not configured correctly", err)
	}

	switch cfg.Backend {
	case config.BackendSheets:
		sheetsCfg, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, nil, common.NewUserError(
				"Google Sheets is not configured. Run 'registry auth sheets' or set sheets.service_account_path",
				fmt.Errorf("%w: %w", common.ErrMissingConfig, err))
		}
		store, err := sheets.NewStore(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return nil, nil, common.NewUserError("Could not connect to Google Sheets",
				fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
		}
		return store, func() {}, nil

	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, common.NewUserError("Could not open the local database",
				fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
		}
		if _, err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	default: // config.BackendXLSX
		return excel.NewWorkbook(cfg.XLSXPath, cfg.XLSXSheet, slog.Default()), func() {}, nil
	}
}

// openRegistry opens the configured store and wraps it in a Registry.
func openRegistry(ctx context.Context, opts ...registry.Option) (*registry.Registry, func(), error) {
	regCfg, err := config.LoadRegistryConfig()
	if err != nil {
		return nil, nil, err
	}
	ids, err := regCfg.IDGenerator()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := openStore(ctx, "")
	if err != nil {
		return nil, nil, err
	}

	opts = append([]registry.Option{
		registry.WithIDGenerator(ids),
		registry.WithLogger(slog.Default()),
	}, opts...)

	return registry.New(store, opts...), closeStore, nil
}

// isInteractive reports whether the command reads from a terminal, in which
// case the interactive forms are used.
func isInteractive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// saveConfig writes the current settings back to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.ConfigDir(), "config.yaml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
