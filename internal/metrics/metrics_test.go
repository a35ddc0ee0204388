package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue gathers reg and returns the value of the named counter whose
// labels match want (nil matches an unlabelled counter).
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for _, lp := range m.GetLabel() {
				if v, ok := want[lp.GetName()]; ok && v != lp.GetValue() {
					matched = false
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, want)
	return 0
}

func TestRecordBackendStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendStatus(200)
	c.RecordBackendStatus(200)
	c.RecordBackendStatus(404)

	if got := counterValue(t, reg, "storefront_backend_responses_total", map[string]string{"status_code": "200"}); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := counterValue(t, reg, "storefront_backend_responses_total", map[string]string{"status_code": "404"}); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
}

func TestRecordLogin_LabelsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin("success")
	c.RecordLogin("authentication")

	if got := counterValue(t, reg, "storefront_logins_total", map[string]string{"outcome": "authentication"}); got != 1 {
		t.Errorf("authentication count = %v, want 1", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordBackendFailure()
	c.RecordBackendLatency(150 * time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "storefront_backend_transport_failures_total 1") {
		t.Errorf("expected failure counter in output, got:\n%s", body)
	}
	if !strings.Contains(string(body), "storefront_backend_latency_seconds_count 1") {
		t.Errorf("expected latency histogram in output")
	}
}
