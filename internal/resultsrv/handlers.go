package resultsrv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/trendsql/internal/batch"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	path := filepath.Join(s.dir, batch.ManifestFileName)
	m, err := batch.ReadManifest(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no run has been recorded yet")
			return
		}
		s.logger.Error("failed to read manifest", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Server-local path is not part of the response.
	m.Path = batch.ManifestFileName
	writeJSON(w, http.StatusOK, m)
}

// validResultName accepts plain CSV file names inside the output directory.
func validResultName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`) &&
		strings.EqualFold(filepath.Ext(name), ".csv")
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if !validResultName(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid result file %q", name))
		return
	}

	f, err := os.Open(filepath.Join(s.dir, name)) //nolint:gosec // name is a validated base name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("result %q not found", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("result %q not found", name))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, release := s.hub.subscribe()
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprintf(w, "event: manifest\ndata: %s\n\n", batch.ManifestFileName)
			flusher.Flush()
		}
	}
}
