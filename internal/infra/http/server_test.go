package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Spok95/tireshop-bot/internal/infra/metrics"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(New(":0", nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Fatalf("status %d body %q", resp.StatusCode, body)
	}

	resp2, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("metrics disabled, got %d", resp2.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.RefreshOK.Inc()
	ts := httptest.NewServer(New(":0", reg.Handler()).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "tireshop_catalog_refresh_ok_total 1") {
		t.Fatalf("metrics body:\n%s", body)
	}
}
