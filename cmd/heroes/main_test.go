package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheustorresii/tour-of-heroes/internal/heroservice"
)

func TestMetricsServerBoundsHeaderReads(t *testing.T) {
	reg := prometheus.NewRegistry()
	heroservice.NewMetrics(reg)

	srv := newMetricsServer("127.0.0.1:0", reg)
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.Positive(t, srv.ReadHeaderTimeout)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
