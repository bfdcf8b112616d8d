package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/metadata"
	"github.com/atlantix-inc/insight-engine/pkg/models"
	enginesql "github.com/atlantix-inc/insight-engine/pkg/sql"
)

var (
	fromPattern    = regexp.MustCompile(`(?i)\bFROM\s+([a-zA-Z_][\w.]*)`)
	wherePattern   = regexp.MustCompile(`(?i)\bWHERE\b`)
	tailPattern    = regexp.MustCompile(`(?i)\b(GROUP\s+BY|ORDER\s+BY|LIMIT)\b`)
	groupByPattern = regexp.MustCompile(`(?i)\bGROUP\s+BY\s+([^;]+?)(?:\s+ORDER\s+BY\b|\s+LIMIT\b|\s*$)`)
	orderByPattern = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)
)

// countMetrics selects the aggregate expression for count queries per
// object type. Users are counted distinct, everything else sums the view's
// activity counters.
var countMetrics = map[models.ObjectType]struct {
	expr  string
	alias string
}{
	models.ObjectTypeUsers:         {"COUNT(DISTINCT user_id)", "user_count"},
	models.ObjectTypeSessions:      {"SUM(total_sessions)", "session_count"},
	models.ObjectTypeTechnologies:  {"SUM(technology_views)", "technology_view_count"},
	models.ObjectTypeBusinessPlans: {"SUM(business_plan_clicks)", "business_plan_click_count"},
}

// distributionMetrics selects the per-user_type aggregate for distribution
// queries.
var distributionMetrics = map[models.ObjectType]struct {
	expr  string
	alias string
}{
	models.ObjectTypeUsers:         {"COUNT(DISTINCT user_id)", "user_count"},
	models.ObjectTypeSessions:      {"SUM(total_sessions)", "session_count"},
	models.ObjectTypeTechnologies:  {"SUM(technology_views)", "technology_view_count"},
	models.ObjectTypeBusinessPlans: {"SUM(business_plan_clicks)", "business_plan_click_count"},
}

// objectNames maps object types to their Russian genitive form for titles.
var objectNames = map[models.ObjectType]string{
	models.ObjectTypeUsers:         "пользователей",
	models.ObjectTypeSessions:      "сессий",
	models.ObjectTypeTechnologies:  "технологий",
	models.ObjectTypeBusinessPlans: "бизнес-планов",
}

// SQLGenerator deterministically synthesizes SQL from a classification and
// merges structural hints into well-formed statements. It never fails: every
// classification maps to a statement, with a monthly user count as the
// final fallback.
type SQLGenerator struct{}

// NewSQLGenerator creates a generator.
func NewSQLGenerator() *SQLGenerator {
	return &SQLGenerator{}
}

// Generate builds a complete statement for the classification. The result
// always targets the canonical view and restricts rows to the classified
// period on the cohort column.
func (g *SQLGenerator) Generate(c models.QueryClassification) models.SQLStatement {
	var text string

	switch c.QueryType {
	case models.QueryTypeCount:
		m := countMetrics[c.ObjectType]
		if m.expr == "" {
			m = countMetrics[models.ObjectTypeUsers]
		}
		text = g.monthlySeries(m.expr, m.alias, c.Period)

	case models.QueryTypeDistribution:
		m := distributionMetrics[c.ObjectType]
		if m.expr == "" {
			m = distributionMetrics[models.ObjectTypeUsers]
		}
		text = fmt.Sprintf(`SELECT user_type,
       %s AS %s
FROM %s
WHERE %s
GROUP BY user_type
ORDER BY %s DESC`,
			m.expr, m.alias, metadata.ViewName, g.periodPredicate(c.Period), m.alias)

	case models.QueryTypeTime:
		text = g.monthlySeries("AVG(avg_session_minutes)", "avg_session_minutes", c.Period)

	case models.QueryTypeComparison:
		text = fmt.Sprintf(`SELECT user_type,
       AVG(total_sessions) AS avg_sessions,
       AVG(avg_session_minutes) AS avg_session_minutes
FROM %s
WHERE %s
GROUP BY user_type
ORDER BY avg_sessions DESC`,
			metadata.ViewName, g.periodPredicate(c.Period))

	default:
		m := countMetrics[models.ObjectTypeUsers]
		text = g.monthlySeries(m.expr, m.alias, c.Period)
	}

	return models.SQLStatement{Text: text, Origin: models.SQLOriginSynthesized}
}

// ApplyHint turns a structural SQL hint into a complete statement. The hint
// may lack a FROM clause, target the wrong relation or omit the period
// filter; all three are repaired. A GROUP BY without ORDER BY gets ordered
// by its own grouping expression so series come out sorted.
func (g *SQLGenerator) ApplyHint(hint string, period models.TimePeriod) models.SQLStatement {
	stmt := strings.TrimSpace(enginesql.StripBackticks(hint))

	if fromMatch := fromPattern.FindStringSubmatch(stmt); fromMatch == nil {
		stmt = g.insertBeforeTail(stmt, " FROM "+metadata.ViewName)
	} else if !strings.Contains(stmt, metadata.ViewName) {
		replaced := false
		stmt = fromPattern.ReplaceAllStringFunc(stmt, func(m string) string {
			if replaced {
				return m
			}
			replaced = true
			return "FROM " + metadata.ViewName
		})
	}

	predicate := g.periodPredicate(period)
	if loc := wherePattern.FindStringIndex(stmt); loc == nil {
		stmt = g.insertBeforeTail(stmt, " WHERE "+predicate)
	} else if !strings.Contains(stmt, metadata.CohortColumn) {
		stmt = stmt[:loc[1]] + " " + predicate + " AND" + stmt[loc[1]:]
	}

	if gb := groupByPattern.FindStringSubmatch(stmt); gb != nil && !orderByPattern.MatchString(stmt) {
		stmt += " ORDER BY " + strings.TrimSpace(gb[1])
	}

	return models.SQLStatement{Text: stmt, Origin: models.SQLOriginAssistant}
}

// Title renders the default Russian chart title for a classification.
func (g *SQLGenerator) Title(c models.QueryClassification) string {
	obj := objectNames[c.ObjectType]
	if obj == "" {
		obj = objectNames[models.ObjectTypeUsers]
	}

	switch c.QueryType {
	case models.QueryTypeCount:
		return "Количество " + obj
	case models.QueryTypeDistribution:
		return "Распределение " + obj + " по типам"
	case models.QueryTypeTime:
		return "Среднее время сессии"
	case models.QueryTypeComparison:
		return "Сравнение " + obj + " по типам"
	default:
		return "Активность " + obj + " по месяцам"
	}
}

// monthlySeries builds a month-bucketed aggregate over the canonical view.
func (g *SQLGenerator) monthlySeries(expr, alias string, period models.TimePeriod) string {
	return fmt.Sprintf(`SELECT DATE_TRUNC('month', %s) AS month,
       %s AS %s
FROM %s
WHERE %s
GROUP BY DATE_TRUNC('month', %s)
ORDER BY month`,
		metadata.CohortColumn, expr, alias, metadata.ViewName,
		g.periodPredicate(period), metadata.CohortColumn)
}

func (g *SQLGenerator) periodPredicate(period models.TimePeriod) string {
	return fmt.Sprintf("%s BETWEEN '%s' AND '%s'",
		metadata.CohortColumn, period.StartDate(), period.EndDate())
}

// insertBeforeTail inserts a clause before the first trailing keyword
// (GROUP BY, ORDER BY, LIMIT), or appends it when the statement has none.
func (g *SQLGenerator) insertBeforeTail(stmt, clause string) string {
	if loc := tailPattern.FindStringIndex(stmt); loc != nil {
		return strings.TrimRight(stmt[:loc[0]], " ") + clause + " " + stmt[loc[0]:]
	}
	return stmt + clause
}
