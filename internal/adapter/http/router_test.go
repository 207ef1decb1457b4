package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/adapter/http/handler"
	apimiddleware "github.com/iho/trustbook/internal/adapter/http/middleware"
	"github.com/iho/trustbook/internal/adapter/repository/memory"
	redisrepo "github.com/iho/trustbook/internal/adapter/repository/redis"
	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/infrastructure/auth"
	"github.com/iho/trustbook/internal/infrastructure/metrics"
	"github.com/iho/trustbook/internal/usecase"
)

type counterIDs struct{ n atomic.Int64 }

func (c *counterIDs) Generate() string {
	return fmt.Sprintf("id-%04d", c.n.Add(1))
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	accounts := memory.NewAccountRepository(store)
	entries := memory.NewEntryRepository(store)
	ids := &counterIDs{}

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New(prometheus.NewRegistry())
	ledgerCfg := usecase.LedgerConfig{
		Metrics: m,
		Now:     func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) },
	}

	cfg := RouterConfig{
		AccountHandler: handler.NewAccountHandler(usecase.NewAccountUseCase(txm, accounts, entries, ids)),
		EntryHandler:   handler.NewEntryHandler(usecase.NewLedgerUseCase(txm, accounts, entries, ids, ledgerCfg)),
		StatementHandler: handler.NewStatementHandler(usecase.NewStatementUseCase(txm, accounts, entries, usecase.StatementConfig{
			Cache:    redisrepo.NewStatementCache(client),
			CacheTTL: time.Minute,
			Metrics:  m,
		})),
		DashboardHandler:      handler.NewDashboardHandler(usecase.NewDashboardUseCase(txm, accounts, entries)),
		ReconciliationHandler: handler.NewReconciliationHandler(usecase.NewReconciliationUseCase(txm, accounts, entries, ledgerCfg)),
		HealthHandler:         handler.NewHealthHandler(map[string]handler.Pinger{}),
		Logger:                zerolog.Nop(),
		Metrics:               m,
		MetricsHandler:        m.Handler(),
		IdempotencyStore:      redisrepo.NewIdempotencyStore(client),
		IdempotencyTTL:        time.Hour,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, router http.Handler, method, path, caller, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(apimiddleware.UserIDHeader, caller)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RejectsAnonymousCallers(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := do(t, router, http.MethodGet, "/api/v1/accounts/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/shared",
		"PATCH /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/statement/{year}/{month}",
		"POST /api/v1/accounts/{id}/rebuild",
		"POST /api/v1/entries/",
		"DELETE /api/v1/entries/{id}",
		"GET /api/v1/dashboard",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_LedgerFlow(t *testing.T) {
	router := NewRouter(newRouterConfig(t))
	const owner, party = "user-1", "user-2"

	rec := do(t, router, http.MethodPost, "/api/v1/accounts/", owner, `{"name":"Alice","linked_user_id":"user-2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := decode[dto.AccountResponse](t, rec)

	post := func(date, dir, amount string) dto.EntryResponse {
		body := fmt.Sprintf(`{"account_id":%q,"business_date":%q,"direction":%q,"amount":%q,"narration":"n"}`,
			account.ID, date, dir, amount)
		rec := do(t, router, http.MethodPost, "/api/v1/entries/", owner, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[dto.EntryResponse](t, rec)
	}

	post("2024-01-01", "CREDIT", "100")
	second := post("2024-01-05", "DEBIT", "30")
	post("2024-02-10", "CREDIT", "5")

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID+"/statement/2024/1", party, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stmt := decode[dto.StatementResponse](t, rec)
	assert.Equal(t, domain.RoleParty, stmt.Role)
	assert.Equal(t, "70", stmt.ClosingBalance.String())
	assert.Equal(t, 2, stmt.EntryCount)

	rec = do(t, router, http.MethodPost, "/api/v1/entries/", party,
		fmt.Sprintf(`{"account_id":%q,"direction":"CREDIT","amount":"1","narration":"n"}`, account.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/entries/"+second.ID, owner, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	deleted := decode[dto.DeleteEntryResponse](t, rec)
	assert.Equal(t, "105", deleted.Account.Balance.String())
	assert.EqualValues(t, 2, deleted.Account.EntryCount)

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID+"/statement?from=2024-01-01&to=2024-12-31", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stmt = decode[dto.StatementResponse](t, rec)
	assert.Equal(t, "105", stmt.ClosingBalance.String())

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID+"/verify", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[dto.ReconciliationResponse](t, rec).IsReconciled)

	rec = do(t, router, http.MethodGet, "/api/v1/dashboard", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[dto.DashboardResponse](t, rec)
	assert.Equal(t, 1, dash.AccountCount)
	assert.Equal(t, "105", dash.Balance.String())

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID, "user-3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/accounts/"+account.ID, owner, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestNewRouter_IdempotentReplay(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	body := `{"name":"Bob"}`
	first := do(t, router, http.MethodPost, "/api/v1/accounts/", "user-1", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := do(t, router, http.MethodPost, "/api/v1/accounts/", "user-1", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.Equal(t, decode[dto.AccountResponse](t, first).ID, decode[dto.AccountResponse](t, second).ID)

	rec := do(t, router, http.MethodGet, "/api/v1/accounts/", "user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[dto.ListAccountsResponse](t, rec).Total)
}

func TestNewRouter_BearerTokens(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.TokenVerifier = jwtManager
	}))

	rec := do(t, router, http.MethodGet, "/api/v1/accounts/", "user-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "header identity must be ignored when tokens are required")

	token, err := jwtManager.Generate("user-1", "user@example.com")
	require.NoError(t, err)

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/", "", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	do(t, router, http.MethodGet, "/api/v1/accounts/", "user-1", "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/accounts/")
}
