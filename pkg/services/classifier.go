package services

import (
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// keywordRule pairs a keyword set with the result it selects. Rules are
// evaluated in declaration order and the first rule whose keywords
// intersect the lowercased text wins, so tie-breaks among overlapping sets
// are explicit and testable.
type keywordRule[T any] struct {
	keywords []string
	result   T
}

// queryTypeRules classify the question intent. Keywords are stems so the
// match survives Russian case endings.
var queryTypeRules = []keywordRule[models.QueryType]{
	{[]string{"сколько", "количеств", "числ", "активн"}, models.QueryTypeCount},
	{[]string{"врем", "минут", "долго"}, models.QueryTypeTime},
	{[]string{"доля", "процент", "распределен"}, models.QueryTypeDistribution},
	{[]string{"сравни", "динамик"}, models.QueryTypeComparison},
}

// objectTypeRules pick the domain noun the question is about.
var objectTypeRules = []keywordRule[models.ObjectType]{
	{[]string{"пользовател"}, models.ObjectTypeUsers},
	{[]string{"сесси"}, models.ObjectTypeSessions},
	{[]string{"технолог"}, models.ObjectTypeTechnologies},
	{[]string{"бизнес", "план"}, models.ObjectTypeBusinessPlans},
}

// Classifier produces a QueryClassification from free text by a
// priority-ordered keyword scan. It is deterministic, total and
// side-effect-free; the time period is delegated to the PeriodExtractor.
type Classifier struct {
	periods *PeriodExtractor
}

// NewClassifier creates a classifier using the given period extractor.
func NewClassifier(periods *PeriodExtractor) *Classifier {
	return &Classifier{periods: periods}
}

// Classify determines query type, object type, visualization type and time
// period for a raw query.
func (c *Classifier) Classify(text string) models.QueryClassification {
	lower := strings.ToLower(text)

	queryType := firstMatch(lower, queryTypeRules, models.QueryTypeGeneral)
	objectType := firstMatch(lower, objectTypeRules, models.ObjectTypeUsers)

	return models.QueryClassification{
		QueryType:         queryType,
		ObjectType:        objectType,
		VisualizationType: visualizationFor(queryType, text),
		Period:            c.periods.Extract(text),
	}
}

// visualizationFor derives the chart type from the query type. Count
// queries use a line only when a period phrase asks for bucketing,
// otherwise a bar.
func visualizationFor(queryType models.QueryType, text string) models.VisualizationType {
	switch queryType {
	case models.QueryTypeDistribution:
		return models.VisualizationPie
	case models.QueryTypeComparison, models.QueryTypeTime:
		return models.VisualizationLine
	case models.QueryTypeCount:
		if HasPeriodPhrase(text) {
			return models.VisualizationLine
		}
		return models.VisualizationBar
	default:
		return models.VisualizationLine
	}
}

// firstMatch returns the result of the first rule with a keyword present in
// the text, or fallback when none match.
func firstMatch[T any](lower string, rules []keywordRule[T], fallback T) T {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return fallback
}
