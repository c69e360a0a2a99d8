package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/sheets"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
		"GOOGLE_SHEETS_WORKSHEET",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REGISTRY_TEST_DIR", "/srv/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "registry.db"), ExpandPath("~/registry.db"))
	assert.Equal(t, "/srv/data/registry.xlsx", ExpandPath("$REGISTRY_TEST_DIR/registry.xlsx"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}

func TestDefaultTokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "registry", "sheets-token.json"), DefaultTokenFile())
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("viper settings win over environment", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		clearSheetsEnv(t)
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "from-env")

		viper.Set("sheets.service_account_path", "/keys/sa.json")
		viper.Set("sheets.spreadsheet_id", "from-viper")
		viper.Set("sheets.worksheet", "Register")
		viper.Set("sheets.retry_attempts", 3)
		viper.Set("sheets.retry_delay", "2s")

		config, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", config.ServiceAccountPath)
		assert.Equal(t, "from-viper", config.SpreadsheetID)
		assert.Equal(t, "Register", config.Worksheet)
		assert.Equal(t, 3, config.RetryAttempts)
		assert.Equal(t, 2*time.Second, config.RetryDelay)
	})

	t.Run("environment fills gaps", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		clearSheetsEnv(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
		t.Setenv("GOOGLE_SHEETS_WORKSHEET", "Inbox")

		config, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "client", config.ClientID)
		assert.Equal(t, "refresh", config.RefreshToken)
		assert.Equal(t, "Inbox", config.Worksheet)
		assert.Equal(t, sheets.DefaultSpreadsheetName, config.SpreadsheetName)
		assert.Equal(t, 1, config.RetryAttempts, "store failures are not retried by default")
	})

	t.Run("oauth client falls back to saved token", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		clearSheetsEnv(t)
		home := t.TempDir()
		t.Setenv("HOME", home)

		viper.Set("sheets.client_id", "client")
		viper.Set("sheets.client_secret", "secret")

		config, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "registry", "sheets-token.json"), config.TokenFile)
	})

	t.Run("no credentials", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		clearSheetsEnv(t)

		_, err := LoadSheetsConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no authentication method configured")
	})
}

func TestLoadStoreConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults(viper.GetViper())

	cfg, err := LoadStoreConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendSheets, cfg.Backend)
	assert.Equal(t, "registry.xlsx", cfg.XLSXPath)

	cfg, err = LoadStoreConfig(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.NotEmpty(t, cfg.SQLitePath)

	viper.Set("store.xlsx_path", "")
	_, err = LoadStoreConfig(BackendXLSX)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = LoadStoreConfig("postgres")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadRegistryConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		cfg, err := LoadRegistryConfig()
		require.NoError(t, err)
		assert.Equal(t, registry.DefaultPrefix, cfg.Prefix)
		assert.Equal(t, registry.DefaultOffset, cfg.Offset)

		ids, err := cfg.IDGenerator()
		require.NoError(t, err)
		assert.IsType(t, registry.SequentialIDs{}, ids)
	})

	t.Run("custom", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		viper.Set("registry.prefix", "MOTI-ADM")
		viper.Set("registry.offset", 0)
		viper.Set("registry.id_strategy", "random")

		cfg, err := LoadRegistryConfig()
		require.NoError(t, err)
		assert.Equal(t, "MOTI-ADM", cfg.Prefix)
		assert.Equal(t, 0, cfg.Offset)

		ids, err := cfg.IDGenerator()
		require.NoError(t, err)
		assert.IsType(t, registry.RandomIDs{}, ids)
	})

	t.Run("invalid", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		viper.Set("registry.offset", -5)

		_, err := LoadRegistryConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)

		viper.Set("registry.offset", 1)
		viper.Set("registry.id_strategy", "uuid")
		cfg, err := LoadRegistryConfig()
		require.NoError(t, err)
		_, err = cfg.IDGenerator()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
