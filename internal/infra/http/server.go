package http

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	srv *http.Server
}

// New health всегда, /metrics, если передан обработчик метрик.
func New(addr string, metrics http.Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(mux, "tireshop-bot"),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Handler для тестов.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
