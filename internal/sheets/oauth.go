package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the OAuth2 redirect is received.
const DefaultCallbackAddr = "localhost:8080"

// OAuth2Config holds OAuth2 configuration.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string // Where to save the token
	CallbackAddr string
}

func (c OAuth2Config) oauthConfig() *oauth2.Config {
	addr := c.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + addr + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// AuthenticateOAuth2Interactive performs the OAuth2 flow interactively.
// The consent URL is logged; the redirect is caught by a short-lived local server.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := config.oauthConfig()

	addr := config.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	server := &http.Server{
		Handler:           callbackHandler(codeChan, errorChan),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errorChan <- fmt.Errorf("callback server failed: %w", serveErr)
		}
	}()
	defer func() {
		if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
			slog.Warn("Error shutting down callback server", "error", shutdownErr)
		}
	}()

	// Offline access so we get a refresh token
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("🔐 Google Sheets Authentication Required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	slog.Info("Waiting for authentication...")

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authentication timeout - no response received within 5 minutes")
	}

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := SaveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			slog.Info("Token saved successfully", "file", config.TokenFile)
		}
	}

	return token, nil
}

// callbackHandler receives the OAuth2 redirect and forwards the code.
func callbackHandler(codeChan chan<- string, errorChan chan<- error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			select {
			case errorChan <- fmt.Errorf("no authorization code received"):
			default:
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprint(w, `<html><body>
				<h1>Authentication Failed</h1>
				<p>No authorization code received. Please try again.</p>
			</body></html>`)
			return
		}

		select {
		case codeChan <- code:
		default:
		}
		_, _ = fmt.Fprint(w, `<html><body>
			<h1>Authentication Successful!</h1>
			<p>You can close this window and return to the terminal.</p>
		</body></html>`)
	})
	return mux
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// SaveToken writes a token to path, creating the directory if needed.
func SaveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// GetOrCreateToken returns the saved token when one exists, otherwise runs
// the interactive flow. Pass force to always re-authenticate.
func GetOrCreateToken(ctx context.Context, config OAuth2Config, force bool) (*oauth2.Token, error) {
	if config.TokenFile != "" && !force {
		token, err := LoadToken(config.TokenFile)
		if err == nil && token.RefreshToken != "" {
			slog.Info("Loaded existing token from file", "file", config.TokenFile)
			return token, nil
		}
		slog.Info("No existing token found, starting OAuth2 flow")
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
