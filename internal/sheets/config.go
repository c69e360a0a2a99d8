// Package sheets stores the correspondence register in a Google Sheets worksheet.
package sheets

import (
	"fmt"
	"os"
	"time"
)

// Defaults for a new register spreadsheet.
const (
	DefaultSpreadsheetName = "SME Directorate Tracker"
	DefaultWorksheet       = "Data"
)

// Config holds the configuration for the Google Sheets store.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	Worksheet          string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults. A single attempt
// means store failures surface immediately.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  DefaultSpreadsheetName,
		Worksheet:        DefaultWorksheet,
		TimeZone:         "Africa/Accra",
		BatchSize:        1000,
		RetryAttempts:    1,
		RetryDelay:       time.Second,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	// OAuth2 credentials
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	c.TokenFile = os.Getenv("GOOGLE_SHEETS_TOKEN_FILE")

	// Service account path (alternative to OAuth2)
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")

	// Spreadsheet settings
	c.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	c.SpreadsheetName = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")
	c.Worksheet = os.Getenv("GOOGLE_SHEETS_WORKSHEET")

	if c.ServiceAccountPath == "" && !c.hasOAuth() {
		return fmt.Errorf("missing Google Sheets authentication: provide either service account path or OAuth2 credentials")
	}

	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}
	if c.Worksheet == "" {
		c.Worksheet = DefaultWorksheet
	}

	return nil
}

// hasOAuth reports whether OAuth2 client credentials and a refresh token
// (inline or in a token file) are configured.
func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.hasOAuth()
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured")
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}

	if c.Worksheet == "" {
		return fmt.Errorf("worksheet name cannot be empty")
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
