package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/processor-go/internal/application/common"
	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
)

// Server exposes the global registry for Prometheus scraping
type Server struct {
	server *http.Server
}

// NewServer creates a metrics server from config. InitRegistry must have been called.
func NewServer(cfg config.MetricsConfig) (*Server, error) {
	if Registry == nil {
		return nil, fmt.Errorf("metrics registry is not initialized")
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start serves in the background until ctx is done
func (s *Server) Start(ctx context.Context) {
	logger := common.LoggerFromContext(ctx)
	go func() {
		logger.Log("INFO", "[Metrics] Serving on "+s.server.Addr, nil)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("ERROR", "[Metrics] Server stopped: "+err.Error(), nil)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
}
