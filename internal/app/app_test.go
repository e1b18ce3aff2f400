package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-roulette/internal/config"
	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
)

func TestNew_WarmsBoardsOnStart(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/expressApi/teams":
			_, _ = w.Write([]byte(`[{"logo":"l","name":"Bayern","league":"German","rating":5}]`))
		default:
			_, _ = w.Write([]byte(`[{"logo":"l","name":"Brazil","rating":5}]`))
		}
	}))
	defer upstream.Close()

	cfg := config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "match-roulette-api",
		ServiceVersion:     "test",
		HTTPAddr:           "127.0.0.1:0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		CatalogBaseURL:     upstream.URL,
		CatalogTimeout:     time.Second,
		CatalogWarmup:      true,
		SpinSeed:           9,
		FilterStoreBackend: kvstore.BackendMemory,
	}

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	a.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected both boards fetched, got %d requests", hits.Load())
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected healthz status: %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:           ":0",
		CatalogBaseURL:     "http://127.0.0.1:1",
		CatalogTimeout:     time.Second,
		CatalogRefreshCron: "not a schedule",
		FilterStoreBackend: kvstore.BackendMemory,
	}
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected schedule error")
	}
}
