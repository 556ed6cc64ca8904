package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/harunnryd/scriba/pkg/audio"
	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/resilience"
	"github.com/harunnryd/scriba/pkg/session"
)

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	adapter := s.adapter.Load()
	if adapter == nil {
		http.Error(w, string(errorsx.ReasonModelNotReady), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sessionID := uuid.NewString()
	emitter := newWSEmitter(conn, s.writeTimeout())
	sess := session.New(sessionID, adapter, emitter, s.tun,
		session.WithObserver(s.obs),
		session.WithBreaker(resilience.NewCircuitBreaker(0, 0)),
	)
	sup := session.NewSupervisor(sess, conn.Close)

	// Teardown runs on every exit path. Its context is independent of
	// the request context: a disconnect must not starve the final pass.
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout())
		defer cancel()
		sup.Teardown(ctx)
	}()

	s.log.Info("stream_open", "session_id", sessionID, "remote", r.RemoteAddr)
	sess.Start(r.Context())

	conn.SetReadLimit(s.cfg.MaxUploadBytes)
	start := time.Now()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			// Disconnect is a normal drain trigger, not an error.
			s.log.Info("stream_disconnect",
				"session_id", sessionID,
				"uptime_ms", time.Since(start).Milliseconds())
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			samples, derr := audio.DecodeS16LE(data)
			if derr != nil {
				s.log.Warn("audio_decode_error", "session_id", sessionID, "error", derr.Error())
				continue
			}
			sess.Append(samples)
		case websocket.TextMessage:
			var ctl controlMessage
			if jerr := json.Unmarshal(data, &ctl); jerr != nil {
				// Unparseable control frames are ignored; the stream continues.
				continue
			}
			if ctl.Type == controlDone {
				s.log.Info("stream_done", "session_id", sessionID,
					"buffered_samples", sess.BufferedSamples())
				return
			}
		}
	}
}
