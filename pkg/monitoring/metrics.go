package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	WeatherPollTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_poll_total",
			Help: "Total number of weather polling cycles",
		},
	)

	WeatherPollFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_poll_failures_total",
			Help: "Number of weather polling cycles that failed to fetch",
		},
	)

	WeatherAlertsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_alerts_published_total",
			Help: "Number of weather alerts delivered to subscribers",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(WeatherPollTotal)
	prometheus.MustRegister(WeatherPollFailures)
	prometheus.MustRegister(WeatherAlertsPublished)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
