package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/transport"
)

func TestAdmin_RootHealthMetrics(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[transport.MessageResponse](t, rec).Message, "Welcome")

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", nil, "").Code)

	s.registerAndLogin(t, "pupkinvasya", "kupiPirozhok")
	rec = s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `catalog_logins_total{result="success"} 1`)
}

func TestAdmin_SetupDatabaseWipesEverything(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, 0)
	token := s.registerAndLogin(t, "pupkinvasya", "kupiPirozhok")
	s.createBook(t, token, "Идиот", "Фёдор Достоевский")

	rec := s.do(t, http.MethodPost, "/setup-database", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[transport.BooksPage](t, s.do(t, http.MethodGet, "/books", nil, ""))
	assert.Empty(t, page.Data)
	assert.EqualValues(t, 0, page.Meta.Total)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/auth/me", nil, token).Code)
}
