package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or REGISTRY_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := SheetsConfigFromViper()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SheetsConfigFromViper resolves the Sheets settings without validating them,
// for commands such as `auth sheets` that run before credentials are complete.
func SheetsConfigFromViper() sheets.Config {
	config := sheets.DefaultConfig()

	// Load from Viper first
	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.token_file"); v != "" {
		config.TokenFile = ExpandPath(v)
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.worksheet"); v != "" {
		config.Worksheet = v
	}
	if v := viper.GetString("sheets.time_zone"); v != "" {
		config.TimeZone = v
	}
	if viper.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if viper.IsSet("sheets.retry_delay") {
		config.RetryDelay = viper.GetDuration("sheets.retry_delay")
	}
	if viper.IsSet("sheets.batch_size") {
		config.BatchSize = viper.GetInt("sheets.batch_size")
	}
	if viper.IsSet("sheets.formatting") {
		config.EnableFormatting = viper.GetBool("sheets.formatting")
	}

	// Override with direct environment variables if not set
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == sheets.DefaultSpreadsheetName {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			config.SpreadsheetName = v
		}
	}
	if config.Worksheet == sheets.DefaultWorksheet {
		if v := os.Getenv("GOOGLE_SHEETS_WORKSHEET"); v != "" {
			config.Worksheet = v
		}
	}

	// OAuth clients without an inline refresh token use the saved one
	if config.ServiceAccountPath == "" && config.RefreshToken == "" && config.TokenFile == "" &&
		config.ClientID != "" && config.ClientSecret != "" {
		config.TokenFile = DefaultTokenFile()
	}

	return config
}
