package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/sketchviz/pkg/classify"
	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/observability"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
)

const (
	contentTypeSVG  = "image/svg+xml"
	contentTypeHTML = "text/html; charset=utf-8"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// handleRender compiles a DOT body and returns the sketched diagram.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, err := dot.ParseSource("request", body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), src, s.options(q))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, q, res)
}

// handleRoughify sketches an SVG body.
func (s *Server) handleRoughify(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeEmptyInput, "empty SVG body"))
		return
	}

	res, err := s.runner.Roughify(r.Context(), "request", body, s.options(q))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, q, res)
}

// classifyRequest is the body of POST /v1/classify.
type classifyRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// handleClassify compares two SVG documents. Invalid inputs yield 400 with
// the result body so callers still see the per-input errors.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req classifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}

	start := time.Now()
	res := classify.CompareSVG([]byte(req.A), []byte(req.B))
	observability.Classify().OnClassify(r.Context(), res.Outcome(), time.Since(start))

	status := http.StatusOK
	if !res.Valid {
		status = http.StatusBadRequest
	}
	s.writeJSON(w, r, status, res)
}

// =============================================================================
// Request Helpers
// =============================================================================

// query holds the options a request may set.
type query struct {
	roughness *float64
	bowing    *float64
	seed      *uint64
	plain     bool
	inline    bool
}

func parseQuery(r *http.Request) (query, error) {
	v := r.URL.Query()
	var q query

	for _, f := range []struct {
		key string
		dst **float64
	}{{"roughness", &q.roughness}, {"bowing", &q.bowing}} {
		s := v.Get(f.key)
		if s == "" {
			continue
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || n < 0 {
			return query{}, errors.New(errors.ErrCodeInvalidParams, "%s: want a non-negative number, got %q", f.key, s)
		}
		*f.dst = &n
	}
	if s := v.Get("seed"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return query{}, errors.New(errors.ErrCodeInvalidParams, "seed: want an unsigned integer, got %q", s)
		}
		q.seed = &n
	}

	var err error
	if q.plain, err = queryBool(v.Get("plain")); err != nil {
		return query{}, err
	}
	if q.inline, err = queryBool(v.Get("inline")); err != nil {
		return query{}, err
	}
	return q, nil
}

func queryBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidParams, "want true or false, got %q", s)
	}
	return b, nil
}

// options derives pipeline options from the configuration and q.
func (s *Server) options(q query) pipeline.Options {
	opts := pipeline.FromConfig(s.cfg, q.inline)
	opts = opts.WithOverrides(dot.Overrides{Roughness: q.roughness, Bowing: q.bowing, Seed: q.seed})
	opts.Plain = q.plain
	opts.Logger = s.logger
	return opts
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) > MaxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", MaxBodyBytes)
	}
	return body, nil
}

// =============================================================================
// Response Helpers
// =============================================================================

func (s *Server) writeResult(w http.ResponseWriter, q query, res *pipeline.Result) {
	if q.inline {
		w.Header().Set("Content-Type", contentTypeHTML)
		io.WriteString(w, pipeline.Inline(res.Document, s.cfg.Output.Inline.CSSClasses.SVG))
		return
	}
	w.Header().Set("Content-Type", contentTypeSVG)
	w.Write(res.SVG())
}

// errorBody is the JSON body of a failed request.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, r, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeCompilerFailure:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeCompilerTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeJSON encodes v before writing any of the response, so a value that
// fails to encode becomes a single 500 body instead of a truncated one.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Error("encode response", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		status = http.StatusInternalServerError
		buf.Reset()
		json.NewEncoder(&buf).Encode(errorBody{
			Error:     "failed to encode response",
			Code:      string(errors.ErrCodeInternal),
			RequestID: RequestID(r.Context()),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
