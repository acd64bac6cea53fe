package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/tomduck/pandoc-tablenos/internal/filter"
	"github.com/tomduck/pandoc-tablenos/internal/markdown"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

// handleTransform filters a JSON-encoded document. The target writer comes
// from the "to" query parameter; "pandoc-version" optionally identifies the
// producing pandoc for documents missing the API version field.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	input, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	opts := filter.Options{
		Format:        r.URL.Query().Get("to"),
		PandocVersion: r.URL.Query().Get("pandoc-version"),
	}
	if opts.Format == "" {
		opts.Format = "html"
	}

	var warnings bytes.Buffer
	rep := report.New(s.cfg.WarningLevel, &warnings)

	out, err := filter.Run(input, opts, rep)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.logWarnings(r, rep, &warnings)

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

// handleMarkdown accepts raw Markdown, converts it, and filters it in one
// step.
func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	src, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := markdown.Convert(src)
	if err != nil {
		jsonError(w, "parse markdown: "+err.Error(), http.StatusBadRequest)
		return
	}
	encoded, err := doc.Encode()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	opts := filter.Options{Format: r.URL.Query().Get("to")}
	if opts.Format == "" {
		opts.Format = "html"
	}

	var warnings bytes.Buffer
	rep := report.New(s.cfg.WarningLevel, &warnings)

	out, err := filter.Run(encoded, opts, rep)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.logWarnings(r, rep, &warnings)

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

func (s *Server) logWarnings(r *http.Request, rep *report.Reporter, buf *bytes.Buffer) {
	count := rep.Count()
	rep.Flush()
	if buf.Len() > 0 {
		s.log.Warn("transform warnings",
			"path", r.URL.Path,
			"count", count,
			"detail", buf.String(),
		)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
