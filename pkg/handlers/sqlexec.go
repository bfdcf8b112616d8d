package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/logging"
	"github.com/atlantix-inc/insight-engine/pkg/middleware"
	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/services"
	enginesql "github.com/atlantix-inc/insight-engine/pkg/sql"
)

// SQLRequest is the POST /api/sql request body.
type SQLRequest struct {
	SQLQuery   string                  `json:"sql_query"`
	Pagination models.PaginationParams `json:"pagination,omitempty"`
}

// SQLHandler executes caller-supplied SQL against the warehouse. The
// statement goes through the same safety pass as generated SQL: single
// statement only, SELECT prefix enforced, row cap appended.
type SQLHandler struct {
	executor services.QueryExecutor
	charts   *services.ChartBuilder
	logger   *zap.Logger
}

// NewSQLHandler creates the handler.
func NewSQLHandler(executor services.QueryExecutor, charts *services.ChartBuilder, logger *zap.Logger) *SQLHandler {
	return &SQLHandler{
		executor: executor,
		charts:   charts,
		logger:   logger.Named("sqlexec"),
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *SQLHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sql", h.Execute)
}

// Execute handles POST /api/sql.
func (h *SQLHandler) Execute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.SQLQuery) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "sql_query must not be empty")
		return
	}

	validation := enginesql.ValidateAndNormalize(req.SQLQuery)
	if validation.Error != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, validation.Error.Error())
		return
	}
	if check := enginesql.CheckHint(validation.NormalizedSQL); check != nil {
		h.logger.Warn("Caller SQL rejected by injection screen",
			zap.String("fingerprint", check.Fingerprint))
		_ = ErrorResponse(w, http.StatusBadRequest, "statement rejected by injection screen")
		return
	}

	final := enginesql.PostProcess(validation.NormalizedSQL)
	h.logger.Info("SQL request",
		zap.String("sql", logging.SanitizeQuery(final)),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())))

	data, err := h.executor.Query(r.Context(), final)
	if err != nil {
		result := &models.PipelineResult{
			Success: false,
			Error:   err.Error(),
			Performance: models.Performance{
				ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
				ErrorSource:      "database",
				RequestID:        middleware.RequestIDFromContext(r.Context()),
			},
		}
		_ = WriteJSON(w, http.StatusInternalServerError, result)
		return
	}

	rows, info := models.Paginate(data.Rows, req.Pagination)

	result := &models.PipelineResult{
		Success:       true,
		Data:          rows,
		Visualization: h.charts.Build(data, models.VisualizationTable, "Результат запроса"),
		SQLQuery:      final,
		Pagination:    &info,
		Performance: models.Performance{
			ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
			RequestID:        middleware.RequestIDFromContext(r.Context()),
		},
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode SQL response", zap.Error(err))
	}
}
