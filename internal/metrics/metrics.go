// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層およびHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordBookingSuccess()
	RecordBookingSoldOut()
	RecordSessionCreated()
	RecordHTTPStatus(statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordSessionsCleaned(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	bookingSuccess  prometheus.Counter
	bookingSoldOut  prometheus.Counter
	sessionsCreated prometheus.Counter
	sessionsCleaned prometheus.Counter
	httpStatus      *prometheus.CounterVec
	httpLatency     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookingSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fukubukuro_bookings_total",
			Help: "予約成功の合計数",
		}),
		bookingSoldOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fukubukuro_bookings_sold_out_total",
			Help: "売り切れにより拒否された予約の合計数",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fukubukuro_sessions_created_total",
			Help: "発行されたセッションの合計数",
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fukubukuro_sessions_cleaned_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fukubukuro_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fukubukuro_http_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.bookingSuccess,
		c.bookingSoldOut,
		c.sessionsCreated,
		c.sessionsCleaned,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

// RecordBookingSuccess は予約成功を記録する。
func (c *Collector) RecordBookingSuccess() {
	c.bookingSuccess.Inc()
}

// RecordBookingSoldOut は売り切れによる予約拒否を記録する。
func (c *Collector) RecordBookingSoldOut() {
	c.bookingSoldOut.Inc()
}

// RecordSessionCreated はセッション発行を記録する。
func (c *Collector) RecordSessionCreated() {
	c.sessionsCreated.Inc()
}

// RecordSessionsCleaned はクリーンアップで削除されたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はHTTPリクエストのレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
