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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordPreviewSuccess()
	RecordPreviewFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordDroppedRows(source string, count int)
	RecordFeedMergeSize(size int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	previewSuccess prometheus.Counter
	previewFail    *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	droppedRows    *prometheus.CounterVec
	feedMergeSize  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		previewSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "commune_preview_fetch_success_total",
			Help: "リンクプレビュー取得成功の合計数",
		}),
		previewFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commune_preview_fetch_fail_total",
			Help: "リンクプレビュー取得失敗の合計数（理由別）",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commune_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "commune_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		droppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commune_feed_dropped_rows_total",
			Help: "正規化で除外された投稿行の合計数（ソース別）",
		}, []string{"source"}),
		feedMergeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "commune_feed_merge_size",
			Help:    "マージ後フィードの投稿数",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500},
		}),
	}

	reg.MustRegister(
		c.previewSuccess,
		c.previewFail,
		c.httpStatus,
		c.requestLatency,
		c.droppedRows,
		c.feedMergeSize,
	)

	return c
}

// RecordPreviewSuccess はプレビュー取得成功を記録する。
func (c *Collector) RecordPreviewSuccess() {
	c.previewSuccess.Inc()
}

// RecordPreviewFailure はプレビュー取得失敗を理由別に記録する。
func (c *Collector) RecordPreviewFailure(reason string) {
	c.previewFail.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordDroppedRows は正規化で除外された行数をソース別に記録する。
func (c *Collector) RecordDroppedRows(source string, count int) {
	if count <= 0 {
		return
	}
	c.droppedRows.WithLabelValues(source).Add(float64(count))
}

// RecordFeedMergeSize はマージ後フィードの投稿数を記録する。
func (c *Collector) RecordFeedMergeSize(size int) {
	c.feedMergeSize.Observe(float64(size))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
