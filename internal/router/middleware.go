package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/controllers/v1"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// OwnerHeader is the request header carrying the ID of the owner.
const OwnerHeader = "X-Owner-ID"

func URLMiddleware(url *url.URL) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(models.DBContextURL), url.String())
		c.Next()
	}
}

// OwnerMiddleware resolves the owner of the request from the X-Owner-ID
// header. Requests without the header belong to defaultOwner.
func OwnerMiddleware(defaultOwner uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := defaultOwner

		if header := c.GetHeader(OwnerHeader); header != "" {
			id, err := uuid.Parse(header)
			if err != nil || id == uuid.Nil {
				httputil.AbortWithError(c, http.StatusBadRequest, httputil.ErrOwnerInvalid)
				return
			}
			owner = id
		}

		if owner == uuid.Nil {
			httputil.AbortWithError(c, http.StatusBadRequest, httputil.ErrOwnerMissing)
			return
		}

		c.Set(string(models.DBContextOwner), owner)
		c.Next()
	}
}

// metrics returns all Prometheus collectors of the API.
func metrics() []prometheus.Collector {
	return append([]prometheus.Collector{requestCount, requestDuration}, v1.Collectors...)
}

// registerPrometheusMetrics registers all Prometheus metrics
// with the default registry.
func registerPrometheusMetrics() error {
	collectors := metrics()
	for i, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			// Roll back this call's registrations only
			for _, registered := range collectors[:i] {
				prometheus.Unregister(registered)
			}
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// unregisterPrometheusMetrics unregisters all Prometheus metrics.
//
// This is needed to cleanly exit.
func unregisterPrometheusMetrics() bool {
	ok := true
	for _, c := range metrics() {
		ok = prometheus.Unregister(c) && ok
	}

	return ok
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// MetricsMiddleware updates Prometheus metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Second)

		// Replace all URL parameters with their name to reduce cardinality
		// https://prometheus.io/docs/practices/naming/#labels
		url := c.Request.URL.Path
		for _, p := range c.Params {
			url = strings.Replace(url, p.Value, fmt.Sprintf(":%s", p.Key), 1)
		}

		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
