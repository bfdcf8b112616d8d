package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/services"
)

type stubExecutor struct {
	result *models.TabularResult
	err    error
}

func (s *stubExecutor) Query(ctx context.Context, stmt string) (*models.TabularResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &models.TabularResult{
		Columns: []models.Column{
			{Name: "month", Kind: models.ColumnTemporal},
			{Name: "user_count", Kind: models.ColumnNumeric},
		},
		Rows: []models.Row{
			{"month": "2025-03-01T00:00:00Z", "user_count": int64(10)},
		},
	}, nil
}

func newTestPipeline(exec services.QueryExecutor) *services.Pipeline {
	return services.NewPipeline(
		services.NewClassifier(services.NewPeriodExtractor(nil)),
		services.NewTemplateMatcher(),
		services.NewSQLGenerator(),
		services.NewChartBuilder(),
		services.NewResultCache(16, 0, nil),
		exec,
		nil,
		zap.NewNop(),
	)
}

func postAnalyze(t *testing.T, h *AnalyzeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func TestAnalyzeRejectsInvalidBody(t *testing.T) {
	h := NewAnalyzeHandler(newTestPipeline(&stubExecutor{}), zap.NewNop())

	rec := postAnalyze(t, h, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeRejectsEmptyQuery(t *testing.T) {
	h := NewAnalyzeHandler(newTestPipeline(&stubExecutor{}), zap.NewNop())

	rec := postAnalyze(t, h, `{"query": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeRejectsOversizedQuery(t *testing.T) {
	h := NewAnalyzeHandler(newTestPipeline(&stubExecutor{}), zap.NewNop())

	rec := postAnalyze(t, h, `{"query": "`+strings.Repeat("x", MaxQueryLength+1)+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeSuccessEnvelope(t *testing.T) {
	h := NewAnalyzeHandler(newTestPipeline(&stubExecutor{}), zap.NewNop())

	rec := postAnalyze(t, h, `{"query": "Распределение пользователей по типам"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %s", result.Error)
	}
	if result.SQLQuery == "" || result.Visualization == nil {
		t.Errorf("envelope incomplete: %+v", result)
	}
	if result.Pagination == nil {
		t.Error("pagination block missing")
	}
}

// Pagination arrives as a nested object and the visualization override as
// visualization_type; extra filters are tolerated.
func TestAnalyzeRequestEnvelope(t *testing.T) {
	rows := make([]models.Row, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, models.Row{"user_count": int64(i)})
	}
	exec := &stubExecutor{result: &models.TabularResult{
		Columns: []models.Column{{Name: "user_count", Kind: models.ColumnNumeric}},
		Rows:    rows,
	}}
	h := NewAnalyzeHandler(newTestPipeline(exec), zap.NewNop())

	rec := postAnalyze(t, h, `{
		"query": "Распределение пользователей по типам",
		"visualization_type": "table",
		"filters": {"user_type": "Подписчик"},
		"pagination": {"page": 2, "page_size": 2}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(result.Data) != 2 || result.Pagination.Page != 2 || result.Pagination.PageSize != 2 {
		t.Errorf("pagination not applied: len = %d, info = %+v", len(result.Data), result.Pagination)
	}
	if result.Visualization == nil || result.Visualization.Data[0].Type != "table" {
		t.Error("visualization_type override not applied")
	}
}

func TestAnalyzeDatabaseErrorReturns500(t *testing.T) {
	h := NewAnalyzeHandler(newTestPipeline(&stubExecutor{err: context.DeadlineExceeded}), zap.NewNop())

	rec := postAnalyze(t, h, `{"query": "Распределение пользователей по типам"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if result.Success {
		t.Error("Success = true for failed analysis")
	}
	if result.Performance.ErrorSource != "database" {
		t.Errorf("ErrorSource = %q, want database", result.Performance.ErrorSource)
	}
}
