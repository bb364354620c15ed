// Package metrics registra las métricas Prometheus de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gestao"

// Metrics agrupa los contadores HTTP y de negocio. Un *Metrics nil es válido: no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	InstallmentsPaid  prometheus.Counter
	PaymentsCanceled  prometheus.Counter
	NFeLaunched       prometheus.Counter
	SalesCreated      prometheus.Counter
	IdempotentReplays prometheus.Counter
}

// New crea un registro propio con las métricas del proceso y de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		InstallmentsPaid: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installments_paid_total",
			Help:      "Cuotas pagadas",
		}),
		PaymentsCanceled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installment_payments_canceled_total",
			Help:      "Pagos de cuotas cancelados",
		}),
		NFeLaunched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nfe_launched_total",
			Help:      "NFe lanzadas al stock",
		}),
		SalesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Ventas registradas",
		}),
		IdempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Peticiones rechazadas por Idempotency-Key repetida",
		}),
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP registra una petición terminada.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequests.WithLabelValues(method, route, code).Inc()
	m.HTTPDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// IncInstallmentsPaid suma una cuota pagada.
func (m *Metrics) IncInstallmentsPaid() {
	if m != nil {
		inc(m.InstallmentsPaid)
	}
}

// IncPaymentsCanceled suma un pago cancelado.
func (m *Metrics) IncPaymentsCanceled() {
	if m != nil {
		inc(m.PaymentsCanceled)
	}
}

// IncNFeLaunched suma una NFe lanzada.
func (m *Metrics) IncNFeLaunched() {
	if m != nil {
		inc(m.NFeLaunched)
	}
}

// IncSalesCreated suma una venta.
func (m *Metrics) IncSalesCreated() {
	if m != nil {
		inc(m.SalesCreated)
	}
}

// IncIdempotentReplays suma una petición repetida.
func (m *Metrics) IncIdempotentReplays() {
	if m != nil {
		inc(m.IdempotentReplays)
	}
}
