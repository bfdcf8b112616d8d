package services

import (
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/metadata"
	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// MatchThreshold is the minimum number of keyword hits a template needs to
// be considered a match for the fast path.
const MatchThreshold = 2

// templateCatalog is the ordered set of pre-built queries. The first
// template in catalog order that clears the threshold wins, so ordering is
// part of the contract.
var templateCatalog = []models.TemplateQuery{
	{
		Name: "Активные пользователи по месяцам",
		SQLTemplate: `SELECT DATE_TRUNC('month', ` + metadata.CohortColumn + `) AS month,
       COUNT(DISTINCT user_id) AS active_users
FROM ` + metadata.ViewName + `
WHERE ` + metadata.CohortColumn + ` BETWEEN '{start_date}' AND '{end_date}'
GROUP BY DATE_TRUNC('month', ` + metadata.CohortColumn + `)
ORDER BY month`,
		VisualizationType: models.VisualizationLine,
		Keywords:          []string{"активн", "пользовател", "месяц", "динамик", "количеств"},
	},
	{
		Name: "Распределение пользователей по типам",
		SQLTemplate: `SELECT user_type,
       COUNT(DISTINCT user_id) AS user_count
FROM ` + metadata.ViewName + `
WHERE ` + metadata.CohortColumn + ` BETWEEN '{start_date}' AND '{end_date}'
GROUP BY user_type
ORDER BY user_count DESC`,
		VisualizationType: models.VisualizationPie,
		Keywords:          []string{"распределен", "тип", "пользовател", "доля"},
	},
	{
		Name: "Среднее время сессии",
		SQLTemplate: `SELECT DATE_TRUNC('month', ` + metadata.CohortColumn + `) AS month,
       AVG(avg_session_minutes) AS avg_session_minutes
FROM ` + metadata.ViewName + `
WHERE ` + metadata.CohortColumn + ` BETWEEN '{start_date}' AND '{end_date}'
GROUP BY DATE_TRUNC('month', ` + metadata.CohortColumn + `)
ORDER BY month`,
		VisualizationType: models.VisualizationLine,
		Keywords:          []string{"врем", "сесси", "средн", "минут"},
	},
	{
		Name: "Вовлеченность по типам пользователей",
		SQLTemplate: `SELECT user_type,
       AVG(total_sessions) AS avg_sessions,
       AVG(avg_session_minutes) AS avg_session_minutes
FROM ` + metadata.ViewName + `
WHERE ` + metadata.CohortColumn + ` BETWEEN '{start_date}' AND '{end_date}'
GROUP BY user_type
ORDER BY avg_sessions DESC`,
		VisualizationType: models.VisualizationBar,
		Keywords:          []string{"вовлеченност", "сравн", "тип", "активност"},
	},
}

// TemplateMatcher scores the raw query against the template catalog.
type TemplateMatcher struct {
	catalog []models.TemplateQuery
}

// NewTemplateMatcher creates a matcher over the built-in catalog.
func NewTemplateMatcher() *TemplateMatcher {
	return &TemplateMatcher{catalog: templateCatalog}
}

// Catalog returns the templates in matching order.
func (m *TemplateMatcher) Catalog() []models.TemplateQuery {
	return m.catalog
}

// Match returns the first template in catalog order whose score reaches
// the threshold, or nil when none does. The score is the count of distinct
// keywords found as substrings in the lowercased query; a keyword
// contributes at most once. Scores are never compared across candidates:
// catalog order decides.
func (m *TemplateMatcher) Match(query string) *models.MatchResult {
	lower := strings.ToLower(query)

	for i := range m.catalog {
		score := 0
		for _, kw := range m.catalog[i].Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score >= MatchThreshold {
			return &models.MatchResult{Template: &m.catalog[i], Score: score}
		}
	}
	return nil
}

// RenderTemplate substitutes the period bounds into a template's SQL.
func RenderTemplate(tmpl *models.TemplateQuery, period models.TimePeriod) string {
	sql := strings.ReplaceAll(tmpl.SQLTemplate, "{start_date}", period.StartDate())
	return strings.ReplaceAll(sql, "{end_date}", period.EndDate())
}
