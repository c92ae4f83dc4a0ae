package metrics

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer builds the standalone server exposing Prometheus metrics at
// /metrics. Scrapes are bounded in number and duration so a misbehaving
// scraper cannot stack collection work next to running downloads.
func NewHTTPServer(address string, port int) *http.Server {
	if port == 0 {
		port = 9090
	}

	handler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		MaxRequestsInFlight: 3,
		Timeout:             10 * time.Second,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	return &http.Server{
		Addr:              net.JoinHostPort(address, strconv.Itoa(port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
