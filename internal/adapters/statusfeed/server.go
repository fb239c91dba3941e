package statusfeed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The feed is read-only, so any origin may watch
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServerOptions configures the HTTP side of the feed
type ServerOptions struct {
	Address string

	// Registry, when set, is exposed at MetricsPath
	Registry    *prometheus.Registry
	MetricsPath string
}

// Server exposes the hub over websocket at /ws, plus /healthz and optional metrics
type Server struct {
	hub    *Hub
	opts   ServerOptions
	server *http.Server
}

// NewServer wires the routes for a hub
func NewServer(hub *Hub, opts ServerOptions) *Server {
	s := &Server{hub: hub, opts: opts}
	s.server = &http.Server{
		Addr:              opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route multiplexer
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok viewers=%d\n", s.hub.Viewers())
	})
	if s.opts.Registry != nil {
		path := s.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.logger.Log("ERROR", "[Feed] Failed to upgrade websocket connection: "+err.Error(), nil)
		return
	}

	client := newClient(s.hub, conn)
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Start listens in the background and shuts down when ctx is done.
// It returns once the listener is bound so callers can rely on the address.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Address, err)
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.hub.logger.Log("ERROR", "[Feed] Server stopped: "+err.Error(), nil)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.hub.logger.Log("INFO", "[Feed] Listening on "+listener.Addr().String(), nil)
	return nil
}
