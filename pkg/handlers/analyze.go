package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/logging"
	"github.com/atlantix-inc/insight-engine/pkg/middleware"
	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/services"
)

// MaxQueryLength bounds the accepted natural-language query.
const MaxQueryLength = 2000

// AnalyzeRequest is the POST /api/analyze request body.
type AnalyzeRequest struct {
	Query             string `json:"query"`
	VisualizationType string `json:"visualization_type,omitempty"`
	// Filters is accepted for interface compatibility; no filter is
	// applied to the generated SQL.
	Filters    map[string]any          `json:"filters,omitempty"`
	Pagination models.PaginationParams `json:"pagination,omitempty"`
}

// AnalyzeHandler serves natural-language analysis requests.
type AnalyzeHandler struct {
	pipeline *services.Pipeline
	logger   *zap.Logger
}

// NewAnalyzeHandler creates the handler.
func NewAnalyzeHandler(pipeline *services.Pipeline, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline: pipeline,
		logger:   logger.Named("analyze"),
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *AnalyzeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/analyze", h.Analyze)
}

// Analyze handles POST /api/analyze. The response is always the full
// pipeline envelope; failed analyses report their error source in the
// performance block.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	if len(query) > MaxQueryLength {
		_ = ErrorResponse(w, http.StatusBadRequest, "query too long")
		return
	}

	h.logger.Info("Analysis request",
		zap.String("query", logging.TruncateString(query, 200)),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())))

	result := h.pipeline.Analyze(r.Context(), services.AnalyzeRequest{
		Query:         query,
		Visualization: req.VisualizationType,
		Pagination:    req.Pagination,
	})
	result.Performance.RequestID = middleware.RequestIDFromContext(r.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}
