package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/sheets"
)

var today = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func testTable() model.Table {
	completed := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	return model.Table{
		{
			RefID:          "MOTI-SME-1001",
			DateReceived:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Type:           model.TypeExternal,
			Classification: model.ClassificationSMEDevelopment,
			Sender:         "Acme Traders",
			Subject:        "Loan request",
			AssignedTo:     "J. Kamara",
			Status:         model.StatusCompleted,
			DateCompleted:  &completed,
			TATDays:        10,
		},
		{
			RefID:          "MOTI-SME-1002",
			DateReceived:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Type:           model.TypeInternal,
			Classification: model.ClassificationAdministration,
			Sender:         "HR",
			Subject:        "Leave roster",
			AssignedTo:     "A. Mensah",
			Status:         model.StatusPending,
		},
	}
}

type testServer struct {
	router  http.Handler
	store   *sheets.MockStore
	metrics *Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store := sheets.NewMockStore(testTable())
	metrics := NewMetrics()
	clock := func() time.Time { return today }

	reg := registry.New(store,
		registry.WithClock(clock),
		registry.WithLogger(logger),
		registry.WithObserver(metrics),
	)
	handler := NewHandler(reg, logger)
	handler.now = clock

	return &testServer{
		router:  NewRouter(handler, metrics),
		store:   store,
		metrics: metrics,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[dashboardResponse](t, rec)
	assert.Equal(t, summaryResponse{Total: 2, Pending: 1, Completed: 1, AverageTAT: 10}, resp.Summary)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "2024-01-11", *resp.Records[0].DateCompleted)
	assert.Nil(t, resp.Records[1].DateCompleted)
}

func TestSubmit(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/correspondence", `{
		"type": "circular",
		"classification": "administration",
		"sender": "Cabinet Office",
		"subject": "Holiday schedule",
		"assigned_to": "A. Mensah"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[submitResponse](t, rec)
	assert.Equal(t, "MOTI-SME-1003", resp.RefID)
	assert.Equal(t, "2024-03-01", resp.Record.DateReceived, "date defaults to today")
	assert.Equal(t, "Circular", resp.Record.Type)
	assert.Equal(t, "Pending", resp.Record.Status)
	assert.Nil(t, resp.Record.DateCompleted)

	assert.Equal(t, 1, srv.store.WriteCount())
	assert.Len(t, srv.store.Snapshot(), 3)
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown type", body: `{"type":"telegram","classification":"Administration"}`},
		{name: "unknown classification", body: `{"type":"External","classification":"Finance"}`},
		{name: "bad date", body: `{"date_received":"someday","type":"External","classification":"Administration"}`},
		{name: "slash date", body: `{"date_received":"03/04/2024","type":"External","classification":"Administration"}`},
		{name: "unknown field", body: `{"type":"External","classification":"Administration","priority":1}`},
		{name: "not json", body: `type=External`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPost, "/api/v1/correspondence", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, CodeValidationError, decode[errorBody](t, rec).Error.Code)
			assert.Zero(t, srv.store.WriteCount())
		})
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/correspondence/search?q=acme", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "MOTI-SME-1001", resp.Records[0].RefID)

	rec = srv.do(t, http.MethodGet, "/api/v1/correspondence/search?q=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[searchResponse](t, rec)
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Records, "no matches is an empty list, not null")
}

func TestSearch_BlankQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{
		"/api/v1/correspondence/search",
		"/api/v1/correspondence/search?q=%20%20",
	} {
		rec := srv.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Zero(t, srv.store.ReadCount)
}

func TestUpdateStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPatch, "/api/v1/correspondence/MOTI-SME-1002/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[recordResponse](t, rec)
	assert.Equal(t, "Completed", resp.Status)
	require.NotNil(t, resp.DateCompleted)
	assert.Equal(t, "2024-03-01", *resp.DateCompleted)
	assert.Equal(t, 56, resp.TATDays)

	stored := srv.store.Snapshot()
	assert.Equal(t, model.StatusCompleted, stored[1].Status)
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode string
		want     int
	}{
		{
			name:     "unknown ref id",
			target:   "/api/v1/correspondence/MOTI-SME-9999/status",
			body:     `{"status":"Completed"}`,
			want:     http.StatusNotFound,
			wantCode: CodeNotFound,
		},
		{
			name:     "unknown status",
			target:   "/api/v1/correspondence/MOTI-SME-1002/status",
			body:     `{"status":"Archived"}`,
			want:     http.StatusBadRequest,
			wantCode: CodeValidationError,
		},
		{
			name:     "pending is not a target status",
			target:   "/api/v1/correspondence/MOTI-SME-1001/status",
			body:     `{"status":"Pending"}`,
			want:     http.StatusBadRequest,
			wantCode: CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPatch, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.wantCode, decode[errorBody](t, rec).Error.Code)
			assert.Zero(t, srv.store.WriteCount())
		})
	}
}

func TestStoreUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.store.SetReadError(errors.New("googleapi: Error 503"))

	rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decode[errorBody](t, rec)
	assert.Equal(t, CodeStoreUnavailable, resp.Error.Code)
	assert.Equal(t, "Could not read the correspondence register", resp.Error.Message)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/letters", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/v1/dashboard", "").Code)
	srv.do(t, http.MethodPatch, "/api/v1/correspondence/MOTI-SME-9999/status", `{"status":"Completed"}`)

	assert.InDelta(t, 2, testutil.ToFloat64(srv.metrics.recordsTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.recordsPending), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(srv.metrics.turnaroundAvg), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		srv.metrics.requestsTotal.WithLabelValues(http.MethodPatch, "/api/v1/correspondence/{refID}/status", "404")), 0)

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "registry_records_total 2")
	assert.Contains(t, body, `registry_http_requests_total{method="GET",path="/api/v1/dashboard",status="200"} 1`)
}
