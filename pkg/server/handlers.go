package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/layerview/pkg/buildinfo"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/observability"
	"github.com/matzehuels/layerview/pkg/pipeline"
)

// Response headers.
const (
	CacheHeader     = "X-Cache"
	LayoutKeyHeader = "X-Layout-Key"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatYAML: "application/yaml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

// LayoutRequest is the body of POST /v1/layouts.
type LayoutRequest struct {
	Items   []graph.Item     `json:"items"`
	Options pipeline.Options `json:"options"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	req := LayoutRequest{Options: s.cfg.Defaults}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "request body too large")
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	opts := req.Options
	opts.Formats = []string{format}

	ctx := r.Context()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	key, err := s.runner.LayoutKey(req.Items, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, hit, err := s.runner.LayoutWithCacheInfo(ctx, req.Items, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(ctx, res.Export(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set(LayoutKeyHeader, key)
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateCacheKey(key); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.runner.InvalidateKey(r.Context(), key); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps err to a status and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	if status >= 500 {
		s.logger.Error("request failed", "route", routePattern(r), "error", err, "request_id", RequestID(r.Context()))
	}

	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	switch {
	case code != "":
	case stderrors.Is(err, context.DeadlineExceeded):
		code, msg = errors.ErrCodeTimeout, "layout did not finish in time"
	default:
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	writeError(w, status, code, msg)
}

func statusFor(err error) int {
	switch {
	case errors.IsInputError(err):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		// The client went away; the status is never seen.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
