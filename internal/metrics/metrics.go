// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 登録結果のラベル値
const (
	SignupResultSuccess   = "success"
	SignupResultInvalid   = "invalid"
	SignupResultDuplicate = "duplicate"
	SignupResultError     = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー、サービス層、コンテンツ読み込みから利用する。
type MetricsCollector interface {
	RecordSignup(result string)
	RecordContentLoadFailure(category string)
	RecordContentRender(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signup          *prometheus.CounterVec
	contentLoadFail *prometheus.CounterVec
	contentRender   prometheus.Histogram
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondlook_signup_total",
			Help: "結果別のメール登録リクエスト数",
		}, []string{"result"}),
		contentLoadFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondlook_content_load_fail_total",
			Help: "カテゴリ別のコンテンツ読み込み失敗数",
		}, []string{"category"}),
		contentRender: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "secondlook_content_render_seconds",
			Help:    "Markdownのレンダリング時間（秒）",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondlook_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signup,
		c.contentLoadFail,
		c.contentRender,
		c.httpStatus,
	)

	return c
}

// RecordSignup はメール登録の結果を記録する。
func (c *Collector) RecordSignup(result string) {
	c.signup.WithLabelValues(result).Inc()
}

// RecordContentLoadFailure はコンテンツ読み込み失敗を記録する。
func (c *Collector) RecordContentLoadFailure(category string) {
	c.contentLoadFail.WithLabelValues(category).Inc()
}

// RecordContentRender はレンダリング時間を記録する。
func (c *Collector) RecordContentRender(duration time.Duration) {
	c.contentRender.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
