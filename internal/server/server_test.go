package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(DefaultConfig(), router, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/healthz")
	assert.Error(t, err, "listener should be closed after shutdown")
}

func TestServer_RunBadAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "256.0.0.1:bad"

	err := New(cfg, http.NotFoundHandler(), nil).Run(context.Background())
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	srv := New(Config{}, http.NotFoundHandler(), nil)
	assert.Equal(t, DefaultAddr, srv.httpServer.Addr)
	assert.Equal(t, DefaultShutdownTimeout, srv.cfg.ShutdownTimeout)
}
