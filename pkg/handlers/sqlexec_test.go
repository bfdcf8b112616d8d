package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/services"
)

func postSQL(t *testing.T, h *SQLHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Execute(rec, req)
	return rec
}

func newSQLHandler(exec services.QueryExecutor) *SQLHandler {
	return NewSQLHandler(exec, services.NewChartBuilder(), zap.NewNop())
}

func TestSQLExecuteSuccess(t *testing.T) {
	h := newSQLHandler(&stubExecutor{})

	rec := postSQL(t, h, `{"sql_query": "SELECT user_count FROM v"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %s", result.Error)
	}
	if !strings.Contains(result.SQLQuery, "LIMIT 1000") {
		t.Errorf("row cap not applied: %q", result.SQLQuery)
	}
	if result.Visualization == nil || result.Visualization.Data[0].Type != "table" {
		t.Error("expected table visualization")
	}
}

func TestSQLExecuteAppliesNestedPagination(t *testing.T) {
	rows := make([]models.Row, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, models.Row{"n": int64(i)})
	}
	h := newSQLHandler(&stubExecutor{result: &models.TabularResult{
		Columns: []models.Column{{Name: "n", Kind: models.ColumnNumeric}},
		Rows:    rows,
	}})

	rec := postSQL(t, h, `{"sql_query": "SELECT n FROM v", "pagination": {"page": 2, "page_size": 2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(result.Data) != 2 || result.Pagination.Page != 2 || result.Pagination.TotalPages != 3 {
		t.Errorf("pagination not applied: len = %d, info = %+v", len(result.Data), result.Pagination)
	}
}

func TestSQLExecuteRejectsEmptyStatement(t *testing.T) {
	h := newSQLHandler(&stubExecutor{})

	rec := postSQL(t, h, `{"sql_query": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSQLExecuteRejectsMultipleStatements(t *testing.T) {
	h := newSQLHandler(&stubExecutor{})

	rec := postSQL(t, h, `{"sql_query": "SELECT 1; DROP TABLE users"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSQLExecuteRejectsInjectedLiteral(t *testing.T) {
	h := newSQLHandler(&stubExecutor{})

	rec := postSQL(t, h, `{"sql_query": "SELECT * FROM v WHERE name = '1'' OR ''1''=''1'"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
