package services

import (
	"testing"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

func seriesResult() *models.TabularResult {
	return &models.TabularResult{
		Columns: []models.Column{
			{Name: "month", Kind: models.ColumnTemporal},
			{Name: "user_count", Kind: models.ColumnNumeric},
		},
		Rows: []models.Row{
			{"month": "2025-03-01T00:00:00Z", "user_count": int64(120)},
			{"month": "2025-04-01T00:00:00Z", "user_count": int64(95)},
			{"month": "2025-05-01T00:00:00Z", "user_count": int64(140)},
		},
	}
}

func categoryResult() *models.TabularResult {
	return &models.TabularResult{
		Columns: []models.Column{
			{Name: "user_type", Kind: models.ColumnCategorical},
			{Name: "user_count", Kind: models.ColumnNumeric},
		},
		Rows: []models.Row{
			{"user_type": "Заинтересованный", "user_count": int64(50)},
			{"user_type": "Подписчик", "user_count": int64(200)},
			{"user_type": "Активированный", "user_count": int64(120)},
		},
	}
}

func TestBuildLineChart(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(seriesResult(), models.VisualizationLine, "Активные пользователи")
	if len(spec.Data) != 1 {
		t.Fatalf("traces = %d, want 1", len(spec.Data))
	}
	trace := spec.Data[0]
	if trace.Type != "scatter" || trace.Mode != "lines+markers" {
		t.Errorf("trace = %s/%s, want scatter/lines+markers", trace.Type, trace.Mode)
	}
	if len(trace.X) != 3 || len(trace.Y) != 3 {
		t.Errorf("axis lengths = %d/%d, want 3/3", len(trace.X), len(trace.Y))
	}
	if spec.Layout.Title != "Активные пользователи" {
		t.Errorf("Title = %q", spec.Layout.Title)
	}
	if spec.Config.DisplayLogo {
		t.Error("DisplayLogo should be false")
	}
	if spec.Layout.XAxis.Title != "Month" || spec.Layout.YAxis.Title != "User Count" {
		t.Errorf("axis titles = %q/%q, want Month/User Count",
			spec.Layout.XAxis.Title, spec.Layout.YAxis.Title)
	}
}

func TestBuildBarChartSortsCategories(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(categoryResult(), models.VisualizationBar, "Типы")
	trace := spec.Data[0]
	if trace.Type != "bar" {
		t.Fatalf("Type = %s, want bar", trace.Type)
	}
	if trace.X[0] != "Подписчик" || trace.X[1] != "Активированный" || trace.X[2] != "Заинтересованный" {
		t.Errorf("bars not sorted by value: %v", trace.X)
	}
	if len(trace.Text) != 3 {
		t.Errorf("value labels missing for small result: %v", trace.Text)
	}
}

func TestBuildBarChartKeepsTemporalOrder(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(seriesResult(), models.VisualizationBar, "По месяцам")
	trace := spec.Data[0]
	if trace.X[0] != "2025-03-01T00:00:00Z" {
		t.Errorf("temporal bars reordered: %v", trace.X)
	}
}

func TestBuildPieChart(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(categoryResult(), models.VisualizationPie, "Распределение")
	trace := spec.Data[0]
	if trace.Type != "pie" {
		t.Fatalf("Type = %s, want pie", trace.Type)
	}
	if trace.TextInfo != "percent+label+value" {
		t.Errorf("TextInfo = %q", trace.TextInfo)
	}
	if len(trace.Labels) != 3 || len(trace.Values) != 3 {
		t.Errorf("labels/values = %d/%d, want 3/3", len(trace.Labels), len(trace.Values))
	}
}

// With only a names column the slices carry synthesized occurrence counts.
func TestBuildPieChartCountsSingleColumn(t *testing.T) {
	b := NewChartBuilder()

	result := &models.TabularResult{
		Columns: []models.Column{{Name: "user_type", Kind: models.ColumnCategorical}},
		Rows: []models.Row{
			{"user_type": "Подписчик"},
			{"user_type": "Подписчик"},
			{"user_type": "Активированный"},
		},
	}

	spec := b.Build(result, models.VisualizationPie, "Распределение")
	trace := spec.Data[0]
	if len(trace.Labels) != 2 {
		t.Fatalf("labels = %v, want 2 distinct", trace.Labels)
	}
	if trace.Labels[0] != "Подписчик" || trace.Labels[1] != "Активированный" {
		t.Errorf("labels = %v, want first-appearance order", trace.Labels)
	}
	if trace.Values[0] != 2 || trace.Values[1] != 1 {
		t.Errorf("values = %v, want occurrence counts [2 1]", trace.Values)
	}
}

func TestBuildTableChart(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(categoryResult(), models.VisualizationTable, "Таблица")
	trace := spec.Data[0]
	if trace.Type != "table" {
		t.Fatalf("Type = %s, want table", trace.Type)
	}
	if trace.Header == nil || len(trace.Header.Values) != 2 {
		t.Fatalf("header = %+v", trace.Header)
	}
	if trace.Cells == nil || len(trace.Cells.Values) != 2 {
		t.Fatalf("cells = %+v", trace.Cells)
	}
}

func TestBuildTableChartCapsRows(t *testing.T) {
	b := NewChartBuilder()

	result := &models.TabularResult{
		Columns: []models.Column{{Name: "n", Kind: models.ColumnNumeric}},
	}
	for i := 0; i < 50; i++ {
		result.Rows = append(result.Rows, models.Row{"n": int64(i)})
	}

	spec := b.Build(result, models.VisualizationTable, "")
	column, ok := spec.Data[0].Cells.Values[0].([]any)
	if !ok {
		t.Fatalf("cell column has unexpected type %T", spec.Data[0].Cells.Values[0])
	}
	if len(column) != maxTableRows {
		t.Errorf("table rows = %d, want %d", len(column), maxTableRows)
	}
}

// Unknown visualization types degrade to a table rather than failing.
func TestBuildUnsupportedTypeFallsBackToTable(t *testing.T) {
	b := NewChartBuilder()

	spec := b.Build(categoryResult(), models.VisualizationType("heatmap"), "")
	if spec.Data[0].Type != "table" {
		t.Errorf("Type = %s, want table", spec.Data[0].Type)
	}
}

// An empty result never fails; it renders the no-data placeholder.
func TestBuildEmptyResult(t *testing.T) {
	b := NewChartBuilder()

	for _, viz := range []models.VisualizationType{
		models.VisualizationLine, models.VisualizationBar,
		models.VisualizationPie, models.VisualizationTable,
	} {
		spec := b.Build(&models.TabularResult{}, viz, "Пусто")
		if len(spec.Data) != 0 {
			t.Errorf("%s: traces = %d, want 0", viz, len(spec.Data))
		}
		if len(spec.Layout.Annotations) != 1 ||
			spec.Layout.Annotations[0].Text != "Нет данных для отображения" {
			t.Errorf("%s: placeholder annotation missing", viz)
		}
	}
}
