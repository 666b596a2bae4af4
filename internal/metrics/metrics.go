package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики:
// - http_requests_total: запросы по маршруту, методу и статусу
// - http_request_duration_seconds: время ответа по маршруту и методу
// - blog_post_views_recorded_total: успешно засчитанные просмотры
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by path, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	PostViewsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blog_post_views_recorded_total", Help: "Post views recorded."},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, PostViewsRecorded)
}

// Handler учитывает число запросов и время ответа по маршруту
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
