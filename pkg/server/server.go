package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/scriba/pkg/logging"
	"github.com/harunnryd/scriba/pkg/metrics"
	"github.com/harunnryd/scriba/pkg/session"
	"github.com/harunnryd/scriba/pkg/transcribe"
)

// Server exposes the transcription engine over HTTP and WebSocket:
// file upload, health, and the streaming session endpoint.
type Server struct {
	cfg       Config
	modelName string
	tun       session.Tunables
	obs       metrics.Observer
	log       *slog.Logger
	upgrader  websocket.Upgrader

	adapter  atomic.Pointer[transcribe.Adapter]
	srv      *http.Server
	draining atomic.Bool
}

func New(cfg Config, modelName string, tun session.Tunables, obs metrics.Observer) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:       cfg,
		modelName: modelName,
		tun:       tun,
		obs:       obs,
		log:       logging.NewComponentLogger(slog.Default(), "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

// SetAdapter marks the model ready. Called once after warm-up; until
// then uploads get 503 and /health reports loading.
func (s *Server) SetAdapter(a *transcribe.Adapter) {
	s.adapter.Store(a)
}

func (s *Server) Ready() bool {
	return s.adapter.Load() != nil
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.UploadPath, s.handleTranscribe)
	mux.HandleFunc(s.cfg.HealthPath, s.handleHealth)
	mux.HandleFunc(s.cfg.StreamPath, s.handleStream)
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           s.Handler(),
	}
	go func() {
		<-ctx.Done()
		_ = s.srv.Close()
	}()
	go func() {
		s.log.Info("server_listen", "addr", s.cfg.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server_error", "error", err.Error())
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	s.draining.Store(true)
	if s.srv != nil {
		return s.srv.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.Ready() {
		status = "loading"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"model":     s.modelName,
		"streaming": true,
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowAnyOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin header.
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func (s *Server) drainTimeout() time.Duration {
	return time.Duration(s.cfg.DrainTimeoutMS) * time.Millisecond
}

func (s *Server) writeTimeout() time.Duration {
	return time.Duration(s.cfg.WriteTimeoutMS) * time.Millisecond
}
