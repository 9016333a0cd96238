package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily は名前に一致するメトリクスファミリーを返す。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// labelValue はメトリクスから指定ラベルの値を返す。
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordSignup_CountsByResult は結果ラベルごとにカウントされることを検証する。
func TestRecordSignup_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup(SignupResultSuccess)
	c.RecordSignup(SignupResultSuccess)
	c.RecordSignup(SignupResultDuplicate)

	mf := findMetricFamily(t, reg, "secondlook_signup_total")

	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[labelValue(m, "result")] = m.GetCounter().GetValue()
	}

	if got[SignupResultSuccess] != 2 {
		t.Errorf("success = %v, want 2", got[SignupResultSuccess])
	}
	if got[SignupResultDuplicate] != 1 {
		t.Errorf("duplicate = %v, want 1", got[SignupResultDuplicate])
	}
	if _, ok := got[SignupResultInvalid]; ok {
		t.Error("invalid should not be recorded")
	}
}

// TestRecordContentLoadFailure_CountsByCategory はカテゴリラベル付きで失敗が記録されることを検証する。
func TestRecordContentLoadFailure_CountsByCategory(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordContentLoadFailure("article")
	c.RecordContentLoadFailure("faq")
	c.RecordContentLoadFailure("faq")

	mf := findMetricFamily(t, reg, "secondlook_content_load_fail_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}
	for _, m := range mf.GetMetric() {
		want := 1.0
		if labelValue(m, "category") == "faq" {
			want = 2
		}
		if v := m.GetCounter().GetValue(); v != want {
			t.Errorf("category=%s value = %v, want %v", labelValue(m, "category"), v, want)
		}
	}
}

// TestRecordContentRender_ObservesHistogram はレンダリング時間がヒストグラムに記録されることを検証する。
func TestRecordContentRender_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordContentRender(2 * time.Millisecond)
	c.RecordContentRender(30 * time.Millisecond)

	mf := findMetricFamily(t, reg, "secondlook_content_render_seconds")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", h.GetSampleCount())
	}
	if h.GetSampleSum() < 0.031 {
		t.Errorf("sample sum = %v, want >= 0.032", h.GetSampleSum())
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はステータスコードのラベル付きで記録されることを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(429)

	mf := findMetricFamily(t, reg, "secondlook_http_status_total")
	for _, m := range mf.GetMetric() {
		switch labelValue(m, "status_code") {
		case "200":
			if v := m.GetCounter().GetValue(); v != 2 {
				t.Errorf("200 = %v, want 2", v)
			}
		case "429":
			if v := m.GetCounter().GetValue(); v != 1 {
				t.Errorf("429 = %v, want 1", v)
			}
		default:
			t.Errorf("unexpected status label %q", labelValue(m, "status_code"))
		}
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat はHandlerがテキスト形式で出力することを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup(SignupResultSuccess)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), `secondlook_signup_total{result="success"} 1`) {
		t.Errorf("unexpected body: %s", body)
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はインターフェース実装を検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}

// TestMultipleCollectors_IndependentRegistries は別レジストリ同士が干渉しないことを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	_ = NewCollector(reg2)

	c1.RecordSignup(SignupResultError)

	families, err := reg2.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "secondlook_signup_total" && len(mf.GetMetric()) > 0 {
			t.Error("reg2 should not observe signups recorded on reg1")
		}
	}
}
