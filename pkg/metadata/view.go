// Package metadata describes the canonical analytics view. The catalog is
// read-only: it feeds the LLM system prompt and the metadata API, never the
// core decision logic.
package metadata

// ViewName is the single pre-aggregated data source all generated SQL must
// target.
const ViewName = "test_staging.user_metrics_dashboard_optimized"

// CohortColumn is the time bucket column used to group users by first-visit
// date. Every generated statement carries a date-range predicate on it.
const CohortColumn = "cohort_month"

// ViewDescription is the human-readable summary of the canonical view.
const ViewDescription = "Представление содержит детальную информацию о пользовательской активности на платформе Atlantix: первое посещение пользователей, их тип, метрики активности и вовлеченности."

// Column describes one column of the canonical view.
type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Description string `json:"description"`
}

// Columns is the column catalog of the canonical view.
var Columns = []Column{
	{Name: "user_id", Type: "text", Nullable: false,
		Description: "Уникальный идентификатор зарегистрированного пользователя"},
	{Name: "cohort_month", Type: "timestamp", Nullable: true,
		Description: "Месяц, когда пользователь впервые посетил платформу (для когортного анализа)"},
	{Name: "user_type", Type: "text", Nullable: true,
		Description: "Категория пользователя ('Подписчик', 'Активированный', 'Заинтересованный')"},
	{Name: "technology_views", Type: "bigint", Nullable: true,
		Description: "Количество просмотров страниц 'технологий'"},
	{Name: "technology_sessions", Type: "bigint", Nullable: true,
		Description: "Количество уникальных сессий с просмотрами страниц 'технологий'"},
	{Name: "business_plan_clicks", Type: "bigint", Nullable: true,
		Description: "Количество просмотров страницы 'бизнес-планов'"},
	{Name: "custom_business_plan_views", Type: "bigint", Nullable: true,
		Description: "Количество просмотров страницы 'Custom Business Plans'"},
	{Name: "discovery_views", Type: "bigint", Nullable: true,
		Description: "Количество просмотров страницы 'Discover'"},
	{Name: "collection_views", Type: "bigint", Nullable: true,
		Description: "Количество просмотров 'Коллекций'"},
	{Name: "search_queries", Type: "bigint", Nullable: true,
		Description: "Количество поисковых запросов"},
	{Name: "total_sessions", Type: "bigint", Nullable: true,
		Description: "Общее количество сессий пользователя"},
	{Name: "active_days", Type: "bigint", Nullable: true,
		Description: "Количество уникальных дней, в которые пользователь был активен"},
	{Name: "avg_session_minutes", Type: "numeric", Nullable: true,
		Description: "Средняя продолжительность сессии в минутах"},
	{Name: "total_platform_minutes", Type: "numeric", Nullable: true,
		Description: "Общее время на платформе в минутах"},
	{Name: "is_interested_user", Type: "integer", Nullable: true,
		Description: "Флаг 'заинтересованного' пользователя (1/null)"},
	{Name: "is_activated_user", Type: "integer", Nullable: true,
		Description: "Флаг 'активированного' пользователя (1/null)"},
	{Name: "is_subscriber", Type: "integer", Nullable: true,
		Description: "Флаг подписчика (1/null)"},
}
