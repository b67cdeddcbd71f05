package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/observability"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// maxRequestBytes bounds request bodies. A million edges at ~100 bytes
// per record stays well under this.
const maxRequestBytes = 256 << 20

// BundleRequest is the payload for POST /v1/bundle.
type BundleRequest struct {
	Edges   []graph.EdgeRecord `json:"edges"`
	Options pipeline.Options   `json:"options"`
}

// BundleResponse is the reply for POST /v1/bundle.
type BundleResponse struct {
	Points    []graph.PathPoint `json:"points"`
	EdgeHash  string            `json:"edge_hash"`
	EdgeCount int               `json:"edge_count"`
	Cached    bool              `json:"cached"`
}

// MatrixRequest is the payload for POST /v1/matrix.
type MatrixRequest struct {
	Edges     []graph.EdgeRecord `json:"edges"`
	Threshold float64            `json:"threshold"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	// Options are seeded with the defaults so that fields absent from the
	// request keep them; an explicit value, including false, overrides.
	req := BundleRequest{Options: pipeline.DefaultOptions()}
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if len(req.Edges) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "edges must not be empty"))
		return
	}

	result, err := s.runner.Execute(r.Context(), graph.EdgeSet{Edges: req.Edges}, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, BundleResponse{
		Points:    result.Result.Points,
		EdgeHash:  result.EdgeHash,
		EdgeCount: result.Stats.EdgeCount,
		Cached:    result.CacheInfo.BundleHit,
	})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if len(req.Edges) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "edges must not be empty"))
		return
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "threshold must be in [0,1], got %v", req.Threshold))
		return
	}

	summary, err := s.runner.Matrix(r.Context(), graph.EdgeSet{Edges: req.Edges}, req.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// decodeRequest parses the JSON body into dst, writing an error response
// on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding request body"))
		return false
	}
	return true
}

// writeError maps error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeDegenerateGeometry:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"err", err)

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = err.Error()
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
