package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rushteam/scholarfeed/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusOf 把领域错误映射为 HTTP 状态码。
func statusOf(err error) int {
	switch {
	case core.IsUnauthenticated(err):
		return http.StatusUnauthorized
	case core.IsUpstreamFailure(err):
		return http.StatusBadGateway
	case core.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case core.IsInvalidInput(err):
		return http.StatusBadRequest
	case core.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleFeed 处理 GET /api/v1/feed/{kind}。
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	kind := core.FeedKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusNotFound, "unknown feed "+string(kind))
		return
	}

	result, err := s.feeds.Get(r.Context(), kind, IdentityFromContext(r.Context()))
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("feed request failed", "feed", kind, "error", err)
			writeError(w, status, http.StatusText(status))
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleView 处理 POST /api/v1/items/{origin}/{id}/view。
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	origin, err := core.ParseOrigin(chi.URLParam(r, "origin"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := s.views.IncrView(r.Context(), origin, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"view_count": views})
}
