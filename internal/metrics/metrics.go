package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
)

// Inventory counters. Registered on package load, so they are safe to touch
// from tests that never build an HTTP app.
var (
	ProductsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estoque_products_added_total",
			Help: "Products added, by source (form or import)",
		},
		[]string{"source"},
	)

	ProductsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estoque_products_removed_total",
			Help: "Products removed explicitly or by branch cascade",
		},
	)

	ImportRowsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estoque_import_rows_rejected_total",
			Help: "Spreadsheet rows dropped by import validation",
		},
	)

	BranchMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estoque_branch_mutations_total",
			Help: "Branch creations and deletions",
		},
		[]string{"action"},
	)
)

const (
	SourceForm   = "form"
	SourceImport = "import"
)

var registerOnce sync.Once

type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDurationHistogram)
	})
	return &HTTPMetrics{ServiceName: serviceName}
}

// Middleware records request count and latency per route.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(m.ServiceName, c.Method(), path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, c.Method(), path, statusStr).
			Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
