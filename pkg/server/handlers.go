package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
	pkgio "github.com/matzehuels/polaris/pkg/io"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

type createdResponse struct {
	ID string `json:"id"`
}

type radarSummary struct {
	ID        string    `json:"id"`
	Elements  int       `json:"elements"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]radarSummary, len(recs))
	for i, rec := range recs {
		out[i] = radarSummary{ID: rec.ID, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
		if rec.Document != nil {
			out[i].Elements = len(rec.Document.Elements)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Create(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored radar", "id", rec.ID, "elements", len(doc.Elements))
	w.Header().Set("Location", "/radars/"+rec.ID)
	writeJSON(w, http.StatusCreated, createdResponse{ID: rec.ID})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Put(r.Context(), chi.URLParam(r, "id"), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted radar", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.renderStored(w, r, pipeline.FormatJSON, "application/json")
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.renderStored(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) handleInlineLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, pipeline.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, "application/json", res.Artifacts[pipeline.FormatJSON])
}

// renderStored renders a stored radar through a runner whose cache keys
// are scoped to the radar id.
func (s *Server) renderStored(w http.ResponseWriter, r *http.Request, format, contentType string) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runner := &pipeline.Runner{
		Cache:  s.runner.Cache,
		Keyer:  cache.NewScopedKeyer(s.runner.Keyer, "radar:"+id+":"),
		Logger: s.runner.Logger,
	}
	res, err := runner.Execute(r.Context(), rec.Document, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeArtifact(w, contentType, res.Artifacts[format])
}

func writeArtifact(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readDocument decodes the request body as YAML when the content type says
// so, and as JSON otherwise.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*document.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()

	format := pkgio.FormatJSON
	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = pkgio.FormatYAML
	}
	doc, err := pkgio.Read(body, format)
	if err != nil {
		return nil, err
	}
	if len(doc.Elements) == 0 && len(doc.RadarData.Dimensions) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "document has no elements and no dimensions")
	}
	return doc, nil
}

// options applies query overrides to the server defaults.
func (s *Server) options(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.defaults.Merge(pipeline.Options{})
	opts.Formats = []string{format}
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"scale", &opts.Scale},
		{"inner_radius", &opts.InnerRadius},
		{"outer_radius", &opts.OuterRadius},
		{"gap_factor", &opts.GapFactor},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not a number", f.name, v)
		}
		*f.dst = x
	}

	if v := q.Get("label_offset"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query label_offset: %q is not a number", v)
		}
		opts.LabelOffset = layout.Offset(x)
	}

	if v := q.Get("hole_units"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query hole_units: %q is not an integer", v)
		}
		opts.HoleUnits = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"ring_labels", &opts.RingLabels},
		{"hide_connectors", &opts.HideConnectors},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		x, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not a boolean", b.name, v)
		}
		*b.dst = x
	}

	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	return opts, nil
}
