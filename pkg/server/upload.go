package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/metrics"
)

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	adapter := s.adapter.Load()
	if adapter == nil {
		http.Error(w, string(errorsx.ReasonModelNotReady), http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Preserve the upload's extension so the engine can sniff the format.
	suffix := filepath.Ext(header.Filename)
	if suffix == "" {
		suffix = ".wav"
	}
	tmp, err := os.CreateTemp("", "scriba-upload-*"+suffix)
	if err != nil {
		http.Error(w, "temp file", http.StatusInternalServerError)
		return
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		http.Error(w, "read upload", http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		http.Error(w, "temp file", http.StatusInternalServerError)
		return
	}

	text, err := adapter.File(r.Context(), path)
	if err != nil {
		s.log.Error("upload_transcribe_error",
			"filename", header.Filename,
			"reason", string(errorsx.Reason(err)),
			"error", err.Error())
		http.Error(w, string(errorsx.ReasonTranscribe), http.StatusInternalServerError)
		return
	}

	metrics.Record(s.obs, metrics.EventUploadLatency,
		float64(time.Since(start).Milliseconds()),
		map[string]string{"filename": header.Filename})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text)
}
