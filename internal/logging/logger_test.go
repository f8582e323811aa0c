package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_TextAndJSON(t *testing.T) {
	var text bytes.Buffer
	New(&text, "info", false).Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, text.String(), "msg=hello")
	assert.Contains(t, text.String(), "k=v")

	var js bytes.Buffer
	New(&js, "info", true).Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, js.String(), `"msg":"hello"`)
	assert.Contains(t, js.String(), `"k":"v"`)
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", false)
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "msg=wrn")
	assert.Contains(t, out, "msg=err")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", false).With("component", "auth")
	log.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), "component=auth")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", false)

	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/categories", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.True(t, strings.Contains(out, "uri=\"/api/categories?page=2\"") || strings.Contains(out, "uri=/api/categories?page=2"))
	assert.Contains(t, out, "status=200")
}
