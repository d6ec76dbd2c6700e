package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/fileutil"
	"github.com/alnah/go-ebookgen/internal/logger"
)

const maxBodyBytes = 16 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleGenerate accepts the topic as JSON {"topic": "..."} or as a form value.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	topic, err := readTopic(w, r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	runID, err := s.gen.Start(s.baseCtx, topic)
	switch {
	case errors.Is(err, ebookgen.ErrEmptyTopic):
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	case errors.Is(err, ebookgen.ErrBusy):
		s.writeError(w, r, http.StatusConflict, err)
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	logger.FromContext(logger.WithRunID(r.Context(), runID), s.log).Info("generation requested", "topic", topic)
	writeJSON(w, http.StatusAccepted, map[string]string{"runId": runID})
}

func readTopic(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("invalid JSON body: %w", err)
		}
		return body.Topic, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid form body: %w", err)
	}
	return r.FormValue("topic"), nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Snapshot())
}

// handleEbook serves the rendered document for preview.
func (s *Server) handleEbook(w http.ResponseWriter, r *http.Request) {
	doc, err := s.gen.Document(r.Context())
	if errors.Is(err, ebookgen.ErrNoEbook) {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc.HTML))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	err := s.gen.StartExport(s.baseCtx)
	switch {
	case errors.Is(err, ebookgen.ErrBusy), errors.Is(err, ebookgen.ErrNoEbook):
		s.writeError(w, r, http.StatusConflict, err)
		return
	case errors.Is(err, ebookgen.ErrNoExporter):
		s.writeError(w, r, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"state": string(ebookgen.StateExporting)})
}

// handleDownload serves the file written by the last successful export.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path := s.gen.Snapshot().ExportPath
	if path == "" || !fileutil.FileExists(path) {
		s.writeError(w, r, http.StatusNotFound, errors.New("no exported file"))
		return
	}
	name := strings.ReplaceAll(filepath.Base(path), `"`, "")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	http.ServeFile(w, r, path)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"canceled": s.gen.Cancel()})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
