package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

const (
	chartFontFamily = "Arial, sans-serif"
	chartFontSize   = 12
	primaryColor    = "#1976d2"
	maxBarLabels    = 10
	maxTableRows    = 20
)

// temporalNameTokens marks columns as time-like when OID inference was not
// enough, e.g. a DATE_TRUNC alias returned as text.
var temporalNameTokens = []string{"date", "time", "period", "month", "week", "day", "year"}

// ChartBuilder turns a tabular result into a declarative chart spec. It is
// total: unsupported visualization types degrade to a table and an empty
// result produces a placeholder chart, never an error.
type ChartBuilder struct{}

// NewChartBuilder creates a builder.
func NewChartBuilder() *ChartBuilder {
	return &ChartBuilder{}
}

// Build constructs the chart spec for the result. The title lands in the
// layout; data columns are assigned to axes by their semantic kind.
func (b *ChartBuilder) Build(result *models.TabularResult, viz models.VisualizationType, title string) *models.ChartSpec {
	if result.Empty() {
		return b.emptyChart(title)
	}

	switch viz {
	case models.VisualizationLine:
		return b.lineChart(result, title, "lines+markers")
	case models.VisualizationScatter:
		return b.lineChart(result, title, "markers")
	case models.VisualizationBar:
		return b.barChart(result, title)
	case models.VisualizationPie:
		return b.pieChart(result, title)
	default:
		return b.tableChart(result, title)
	}
}

func (b *ChartBuilder) lineChart(result *models.TabularResult, title, mode string) *models.ChartSpec {
	xCol, yCol := b.pickAxes(result)
	return &models.ChartSpec{
		Data: []models.Trace{{
			Type: "scatter",
			Mode: mode,
			X:    result.Values(xCol),
			Y:    result.Values(yCol),
			Line: &models.TraceLine{Color: primaryColor},
		}},
		Layout: b.axisLayout(title, xCol, yCol),
		Config: b.renderConfig(),
	}
}

func (b *ChartBuilder) barChart(result *models.TabularResult, title string) *models.ChartSpec {
	xCol, yCol := b.pickAxes(result)

	x := result.Values(xCol)
	y := result.Values(yCol)

	// Categorical bars read better sorted by value; temporal bars keep
	// chronological order.
	if !b.isTemporal(result, xCol) {
		x, y = sortDescByValue(x, y)
	}

	trace := models.Trace{
		Type:   "bar",
		X:      x,
		Y:      y,
		Marker: &models.Marker{Color: primaryColor},
	}
	if len(y) <= maxBarLabels {
		trace.Text = formatLabels(y)
		trace.TextPosition = "auto"
	}

	return &models.ChartSpec{
		Data:   []models.Trace{trace},
		Layout: b.axisLayout(title, xCol, yCol),
		Config: b.renderConfig(),
	}
}

func (b *ChartBuilder) pieChart(result *models.TabularResult, title string) *models.ChartSpec {
	labelCol, valueCol := b.pickAxes(result)

	labels := result.Values(labelCol)
	values := result.Values(valueCol)
	// Without a separate value column the slices carry occurrence counts
	// per distinct label.
	if valueCol == labelCol {
		labels, values = countByLabel(labels)
	}

	return &models.ChartSpec{
		Data: []models.Trace{{
			Type:       "pie",
			Labels:     labels,
			Values:     values,
			TextInfo:   "percent+label+value",
			InsideFont: &models.Font{Color: "#ffffff"},
		}},
		Layout: b.baseLayout(title),
		Config: b.renderConfig(),
	}
}

func (b *ChartBuilder) tableChart(result *models.TabularResult, title string) *models.ChartSpec {
	names := result.ColumnNames()

	header := make([]any, len(names))
	cells := make([]any, len(names))
	rows := result.Rows
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}
	for i, name := range names {
		header[i] = name
		column := make([]any, len(rows))
		for j, row := range rows {
			column[j] = row[name]
		}
		cells[i] = column
	}

	return &models.ChartSpec{
		Data: []models.Trace{{
			Type: "table",
			Header: &models.TableCells{
				Values:    header,
				FillColor: primaryColor,
				Align:     "left",
				Font:      &models.Font{Color: "#ffffff", Size: chartFontSize},
			},
			Cells: &models.TableCells{
				Values:    cells,
				FillColor: "lavender",
				Align:     "left",
			},
		}},
		Layout: b.baseLayout(title),
		Config: b.renderConfig(),
	}
}

// emptyChart is the placeholder rendered when a query returns no rows.
func (b *ChartBuilder) emptyChart(title string) *models.ChartSpec {
	hidden := false
	layout := b.baseLayout(title)
	layout.XAxis = &models.Axis{Visible: &hidden}
	layout.YAxis = &models.Axis{Visible: &hidden}
	layout.Annotations = []models.Annotation{{
		Text:      "Нет данных для отображения",
		ShowArrow: false,
		Font:      &models.Font{Size: 16, Color: "#888888"},
	}}

	return &models.ChartSpec{
		Data:   []models.Trace{},
		Layout: layout,
		Config: b.renderConfig(),
	}
}

// pickAxes chooses the label axis and the value axis. The label axis is the
// first temporal or categorical column, the value axis the first numeric
// column other than it. Falls back to positional order for untyped results.
func (b *ChartBuilder) pickAxes(result *models.TabularResult) (string, string) {
	names := result.ColumnNames()
	if len(names) == 0 {
		return "", ""
	}

	xCol := ""
	for _, c := range result.Columns {
		if c.Kind == models.ColumnTemporal || c.Kind == models.ColumnCategorical {
			xCol = c.Name
			break
		}
	}
	if xCol == "" {
		xCol = names[0]
	}

	yCol := ""
	for _, c := range result.Columns {
		if c.Kind == models.ColumnNumeric && c.Name != xCol {
			yCol = c.Name
			break
		}
	}
	if yCol == "" {
		if len(names) > 1 {
			for _, n := range names {
				if n != xCol {
					yCol = n
					break
				}
			}
		} else {
			yCol = names[0]
		}
	}

	return xCol, yCol
}

// isTemporal reports whether the column is time-like, either by inferred
// kind or by its name.
func (b *ChartBuilder) isTemporal(result *models.TabularResult, name string) bool {
	for _, c := range result.Columns {
		if c.Name == name && c.Kind == models.ColumnTemporal {
			return true
		}
	}
	lower := strings.ToLower(name)
	for _, token := range temporalNameTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func (b *ChartBuilder) axisLayout(title, xCol, yCol string) models.Layout {
	layout := b.baseLayout(title)
	layout.XAxis = &models.Axis{Title: axisTitle(xCol), GridColor: "#e0e0e0"}
	layout.YAxis = &models.Axis{Title: axisTitle(yCol), GridColor: "#e0e0e0"}
	return layout
}

// axisTitle renders a snake_case column name as a spaced Title Case axis
// label, e.g. "user_count" becomes "User Count".
func axisTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (b *ChartBuilder) baseLayout(title string) models.Layout {
	return models.Layout{
		Title:       title,
		Font:        &models.Font{Family: chartFontFamily, Size: chartFontSize},
		Margin:      &models.Margin{L: 60, R: 30, T: 60, B: 60},
		HoverMode:   "closest",
		PlotBGColor: "#ffffff",
	}
}

func (b *ChartBuilder) renderConfig() models.RenderConfig {
	return models.RenderConfig{
		DisplayLogo:            false,
		ModeBarButtonsToRemove: []string{"sendDataToCloud"},
		Responsive:             true,
	}
}

// sortDescByValue sorts paired label/value slices by descending numeric
// value. Non-numeric values sort last in stable order.
func sortDescByValue(x, y []any) ([]any, []any) {
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, oka := toFloat(y[idx[a]])
		vb, okb := toFloat(y[idx[b]])
		if oka && okb {
			return va > vb
		}
		return oka && !okb
	})

	sx := make([]any, len(x))
	sy := make([]any, len(y))
	for i, j := range idx {
		sx[i] = x[j]
		sy[i] = y[j]
	}
	return sx, sy
}

// countByLabel aggregates occurrences per distinct label, preserving
// first-appearance order.
func countByLabel(labels []any) ([]any, []any) {
	counts := make(map[any]int, len(labels))
	order := make([]any, 0, len(labels))
	for _, l := range labels {
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}
	values := make([]any, len(order))
	for i, l := range order {
		values[i] = counts[l]
	}
	return order, values
}

func formatLabels(values []any) []any {
	labels := make([]any, len(values))
	for i, v := range values {
		if f, ok := toFloat(v); ok && f == float64(int64(f)) {
			labels[i] = fmt.Sprintf("%d", int64(f))
		} else {
			labels[i] = fmt.Sprintf("%v", v)
		}
	}
	return labels
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
