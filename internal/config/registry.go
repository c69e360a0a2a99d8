package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/excel"
	"github.com/Veraticus/moti-registry/internal/registry"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendXLSX   = "xlsx"
)

// Backends lists every supported store backend.
var Backends = []string{BackendSheets, BackendSQLite, BackendXLSX}

// StoreConfig selects and locates the Tabular Store.
type StoreConfig struct {
	Backend    string
	SQLitePath string
	XLSXPath   string
	XLSXSheet  string
}

// RegistryConfig controls reference id generation.
type RegistryConfig struct {
	Prefix     string
	IDStrategy string
	Offset     int
}

// SetDefaults registers the default value of every registry setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("store.backend", BackendSheets)
	v.SetDefault("store.sqlite_path", filepath.Join(DataDir(), "registry.db"))
	v.SetDefault("store.xlsx_path", "registry.xlsx")
	v.SetDefault("store.xlsx_sheet", excel.DefaultSheet)
	v.SetDefault("registry.prefix", registry.DefaultPrefix)
	v.SetDefault("registry.offset", registry.DefaultOffset)
	v.SetDefault("registry.id_strategy", "sequential")
	v.SetDefault("serve.addr", ":8080")
}

// LoadStoreConfig reads the store settings, with backend overriding
// store.backend when non-empty.
func LoadStoreConfig(backend string) (StoreConfig, error) {
	if backend == "" {
		backend = viper.GetString("store.backend")
	}
	cfg := StoreConfig{
		Backend:    strings.ToLower(strings.TrimSpace(backend)),
		SQLitePath: ExpandPath(viper.GetString("store.sqlite_path")),
		XLSXPath:   ExpandPath(viper.GetString("store.xlsx_path")),
		XLSXSheet:  viper.GetString("store.xlsx_sheet"),
	}

	switch cfg.Backend {
	case BackendSheets:
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return cfg, fmt.Errorf("%w: store.sqlite_path", common.ErrMissingConfig)
		}
	case BackendXLSX:
		if cfg.XLSXPath == "" {
			return cfg, fmt.Errorf("%w: store.xlsx_path", common.ErrMissingConfig)
		}
	default:
		return cfg, fmt.Errorf("%w: unknown store backend %q (want one of %s)",
			common.ErrInvalidConfig, backend, strings.Join(Backends, ", "))
	}
	return cfg, nil
}

// LoadRegistryConfig reads the reference id settings.
func LoadRegistryConfig() (RegistryConfig, error) {
	cfg := RegistryConfig{
		Prefix:     viper.GetString("registry.prefix"),
		Offset:     viper.GetInt("registry.offset"),
		IDStrategy: viper.GetString("registry.id_strategy"),
	}
	if cfg.Prefix == "" {
		cfg.Prefix = registry.DefaultPrefix
	}
	if !viper.IsSet("registry.offset") {
		cfg.Offset = registry.DefaultOffset
	}
	if cfg.Offset < 0 {
		return cfg, fmt.Errorf("%w: registry.offset cannot be negative", common.ErrInvalidConfig)
	}
	return cfg, nil
}

// IDGenerator builds the configured reference id generator.
func (c RegistryConfig) IDGenerator() (registry.IDGenerator, error) {
	ids, err := registry.NewIDGenerator(c.IDStrategy, c.Prefix, c.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return ids, nil
}
