package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Contadores(t *testing.T) {
	m := New()
	m.IncInstallmentsPaid()
	m.IncInstallmentsPaid()
	m.IncSalesCreated()
	m.ObserveHTTP(http.MethodPost, "/api/sales", 201, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InstallmentsPaid))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NFeLaunched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/sales", "201")))
}

func TestMetrics_NilSeguro(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncNFeLaunched()
		m.IncPaymentsCanceled()
		m.IncIdempotentReplays()
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncNFeLaunched()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gestao_nfe_launched_total 1")
}
