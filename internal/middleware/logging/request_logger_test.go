package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/logging"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestRequestLogger_InjectsLoggerAndLogsSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/books", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, buf.String(), `"msg":"inside_handler"`)

	last := lastRecord(t, &buf)
	assert.Equal(t, "request completed", last["msg"])
	assert.Equal(t, "INFO", last["level"])
	assert.EqualValues(t, 200, last["status"])
	assert.Equal(t, "/books", last["path"])
	assert.Equal(t, "rid-1", last["request_id"])
}

func TestRequestLogger_HandlesErrorsOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantLevel string
	}{
		{name: "client error", err: echo.NewHTTPError(http.StatusNotFound, "book not found"), wantCode: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", err: echo.NewHTTPError(http.StatusInternalServerError, "internal error"), wantCode: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
			e.GET("/books/:id", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/7", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			last := lastRecord(t, &buf)
			assert.Equal(t, tt.wantLevel, last["level"])
			assert.EqualValues(t, tt.wantCode, last["status"])
			assert.Equal(t, "/books/:id", last["path"])
		})
	}
}
