package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/db"
	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
	"github.com/Skotchmaster/book_catalog/internal/ratelimit"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/tokens"
	"github.com/Skotchmaster/book_catalog/internal/validation"
)

type testServer struct {
	e    *echo.Echo
	deps *Deps
}

func newTestServer(t *testing.T, loginPerMin int) *testServer {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector(reg)
	pub := events.Nop{}

	authSvc := &service.AuthService{Repo: r, Tokens: tokens.NewIssuer([]byte("test-jwt-secret"), 0), Events: pub, Metrics: m}

	deps := &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: pub, Metrics: m}},
		ReviewHandler:  &ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: pub, Metrics: m}},
		AdminHandler:   &AdminHTTP{Svc: &service.AdminService{DB: gdb}},
		Resolver:       authSvc,
		MetricsHandler: metrics.Handler(reg),
	}
	if loginPerMin > 0 {
		deps.LoginLimiter = ratelimit.PerMinute(loginPerMin).Middleware()
	}

	e := echo.New()
	e.Validator = validation.New()
	Register(e, deps)
	return &testServer{e: e, deps: deps}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/auth/register", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["access_token"]
}

func (s *testServer) createBook(t *testing.T, token, title, author string) uint {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/books", map[string]string{"title": title, "author": author, "genre": "Роман"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		BookID uint `json:"book_id"`
	}](t, rec).BookID
}

func (s *testServer) addReview(t *testing.T, token string, bookID uint, score int) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/reviews", map[string]any{"book_id": bookID, "text": "отзыв", "rating": score}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func bookPath(id uint, suffix string) string {
	return fmt.Sprintf("/books/%d%s", id, suffix)
}
