package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestDownloadsTotal_Labels(t *testing.T) {
	before := counterValue(t, DownloadsTotal, "youtube", "mp3", "success")
	DownloadsTotal.WithLabelValues("youtube", "mp3", "success").Inc()
	after := counterValue(t, DownloadsTotal, "youtube", "mp3", "success")

	if after != before+1 {
		t.Errorf("Expected counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestNewHTTPServer_ServesMetrics(t *testing.T) {
	srv := NewHTTPServer("localhost", 0)
	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected default port 9090, got %q", srv.Addr)
	}

	// Touch a label set so the family shows up in the scrape output.
	DownloadsTotal.WithLabelValues("youtube", "mp4", "success").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "media_downloads_total") {
		t.Error("Expected /metrics output to include media_downloads_total")
	}
}
