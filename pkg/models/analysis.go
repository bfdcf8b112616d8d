// Package models defines the record types shared across the analysis pipeline.
package models

import (
	"fmt"
	"time"
)

// QueryType is the semantic category of a user question.
type QueryType string

const (
	QueryTypeCount        QueryType = "count"
	QueryTypeTime         QueryType = "time"
	QueryTypeDistribution QueryType = "distribution"
	QueryTypeComparison   QueryType = "comparison"
	QueryTypeGeneral      QueryType = "general"
)

// ObjectType is the domain noun a question is about.
type ObjectType string

const (
	ObjectTypeUsers         ObjectType = "users"
	ObjectTypeSessions      ObjectType = "sessions"
	ObjectTypeTechnologies  ObjectType = "technologies"
	ObjectTypeBusinessPlans ObjectType = "business_plans"
)

// VisualizationType selects the chart family for a result.
type VisualizationType string

const (
	VisualizationLine    VisualizationType = "line"
	VisualizationBar     VisualizationType = "bar"
	VisualizationPie     VisualizationType = "pie"
	VisualizationTable   VisualizationType = "table"
	VisualizationScatter VisualizationType = "scatter"
)

// ParseVisualizationType validates a caller-supplied visualization type.
// Unknown values return false; callers fall back to the classified type.
func ParseVisualizationType(s string) (VisualizationType, bool) {
	switch VisualizationType(s) {
	case VisualizationLine, VisualizationBar, VisualizationPie, VisualizationTable, VisualizationScatter:
		return VisualizationType(s), true
	}
	return "", false
}

// TimePeriod is an inclusive [Start, End] date range. Start is never after End.
type TimePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartDate returns the start bound as an ISO date literal for SQL.
func (p TimePeriod) StartDate() string {
	return p.Start.Format("2006-01-02")
}

// EndDate returns the end bound as an ISO date literal for SQL.
func (p TimePeriod) EndDate() string {
	return p.End.Format("2006-01-02")
}

// Description renders the period the way the UI displays it.
func (p TimePeriod) Description() string {
	return fmt.Sprintf("Данные за период %s - %s",
		p.Start.Format("02.01.2006"), p.End.Format("02.01.2006"))
}

// QueryClassification is the classifier's verdict for a single raw query.
// It is produced once per request and never mutated afterward.
type QueryClassification struct {
	QueryType         QueryType         `json:"query_type"`
	ObjectType        ObjectType        `json:"object_type"`
	VisualizationType VisualizationType `json:"visualization_type"`
	Period            TimePeriod        `json:"time_period"`
}

// TemplateQuery is a named, parameterized SQL template with the keyword set
// used for matching. The catalog is static and read-only after process start.
type TemplateQuery struct {
	Name              string
	SQLTemplate       string
	VisualizationType VisualizationType
	Keywords          []string
}

// MatchResult references the template that matched a query along with the
// keyword hit count. A nil *MatchResult means no template cleared the
// minimum-match threshold.
type MatchResult struct {
	Template *TemplateQuery
	Score    int
}

// SQLOrigin records which path produced a SQL statement.
type SQLOrigin string

const (
	SQLOriginTemplate    SQLOrigin = "template"
	SQLOriginSynthesized SQLOrigin = "synthesized"
	SQLOriginAssistant   SQLOrigin = "assistant"
	SQLOriginCaller      SQLOrigin = "caller"
)

// SQLStatement is a concrete, fully-parameterized SQL text ready for
// execution. After the safety pass it always begins with SELECT and carries
// a row LIMIT.
type SQLStatement struct {
	Text   string    `json:"text"`
	Origin SQLOrigin `json:"origin"`
}
