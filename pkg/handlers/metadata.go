package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/metadata"
	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/services"
)

// TemplateSummary is the template catalog entry exposed to clients. The
// SQL text itself stays server-side.
type TemplateSummary struct {
	Name              string                   `json:"name"`
	VisualizationType models.VisualizationType `json:"visualization_type"`
	Keywords          []string                 `json:"keywords"`
}

// MetadataResponse describes the canonical view and the template catalog.
type MetadataResponse struct {
	View        string            `json:"view"`
	Description string            `json:"description"`
	Columns     []metadata.Column `json:"columns"`
	Templates   []TemplateSummary `json:"templates"`
}

// MetadataHandler serves the data-source description.
type MetadataHandler struct {
	matcher *services.TemplateMatcher
	logger  *zap.Logger
}

// NewMetadataHandler creates the handler.
func NewMetadataHandler(matcher *services.TemplateMatcher, logger *zap.Logger) *MetadataHandler {
	return &MetadataHandler{matcher: matcher, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *MetadataHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/metadata", h.Metadata)
}

// Metadata handles GET /api/metadata.
func (h *MetadataHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	catalog := h.matcher.Catalog()
	templates := make([]TemplateSummary, len(catalog))
	for i, t := range catalog {
		templates[i] = TemplateSummary{
			Name:              t.Name,
			VisualizationType: t.VisualizationType,
			Keywords:          t.Keywords,
		}
	}

	response := MetadataResponse{
		View:        metadata.ViewName,
		Description: metadata.ViewDescription,
		Columns:     metadata.Columns,
		Templates:   templates,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode metadata response", zap.Error(err))
	}
}
