package models

// ColumnKind is the inferred semantic type of a result column.
type ColumnKind string

const (
	ColumnNumeric     ColumnKind = "numeric"
	ColumnCategorical ColumnKind = "categorical"
	ColumnTemporal    ColumnKind = "temporal"
)

// Column describes one column of a tabular result.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Row maps column names to scalar values.
type Row map[string]any

// TabularResult is the ordered row set returned by executing a SQL
// statement. It is immutable once returned from the data store.
type TabularResult struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the result carries no rows.
func (t *TabularResult) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColumnNames returns column names in declaration order.
func (t *TabularResult) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Values returns the column's values across all rows, in row order.
func (t *TabularResult) Values(column string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[column]
	}
	return values
}

// Performance carries observability metadata attached to every pipeline
// result. It is never used to alter behavior.
type Performance struct {
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	QueryType        string  `json:"query_type,omitempty"`
	OptimizationPath string  `json:"optimization_path,omitempty"`
	RequestID        string  `json:"request_id,omitempty"`
	ErrorSource      string  `json:"error_source,omitempty"`
}

// PipelineResult is the unit returned to the caller and the unit stored in
// the result cache. Cached entries always hold the unpaginated row set.
type PipelineResult struct {
	Success       bool        `json:"success"`
	Data          []Row       `json:"data,omitempty"`
	Visualization *ChartSpec  `json:"visualization,omitempty"`
	SQLQuery      string      `json:"sql_query,omitempty"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
	Error         string      `json:"error,omitempty"`
	Performance   Performance `json:"performance"`
	Pagination    *PageInfo   `json:"pagination,omitempty"`
}
