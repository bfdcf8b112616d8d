// Package prompts assembles the prompts sent to the language-model
// collaborator on the slow path.
package prompts

import (
	"fmt"
	"strings"

	"github.com/atlantix-inc/insight-engine/pkg/metadata"
	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// StricterInstruction is appended to the system message on the single retry
// issued when the first response is missing required fields.
const StricterInstruction = "\n\nВАЖНО: предыдущий ответ не содержал обязательных полей. Ответь СТРОГО одним JSON-объектом с полями sql_query, title и description. Без пояснений, без markdown, только JSON."

// BuildSystemPrompt creates the system message for SQL generation: strict
// rules, the column catalog of the canonical view, and example statements.
func BuildSystemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString("Ты специалист по анализу данных, работающий с представлением ")
	prompt.WriteString(metadata.ViewName)
	prompt.WriteString(".\n\nВАЖНЫЕ ПРАВИЛА:\n")
	prompt.WriteString(fmt.Sprintf("1. ВСЕГДА используй ТОЛЬКО представление %s. Не используй другие таблицы.\n", metadata.ViewName))
	prompt.WriteString("2. Все ответы СТРОГО в формате JSON с полями sql_query, title и description.\n")
	prompt.WriteString("3. Все заголовки и описания на РУССКОМ языке.\n")
	prompt.WriteString(fmt.Sprintf("4. Используй DATE_TRUNC для работы с временными данными (например, DATE_TRUNC('month', %s)).\n", metadata.CohortColumn))
	prompt.WriteString("5. SQL-запросы должны быть оптимальными, без излишней сложности.\n")
	prompt.WriteString("6. Избегай подзапросов, если можно обойтись без них.\n")
	prompt.WriteString("7. Обязательно добавляй ORDER BY для запросов с группировкой.\n")

	prompt.WriteString(fmt.Sprintf("\nОписание столбцов представления %s:\n", metadata.ViewName))
	for _, col := range metadata.Columns {
		prompt.WriteString(fmt.Sprintf("- %s (%s): %s\n", col.Name, col.Type, col.Description))
	}

	prompt.WriteString("\nПримеры оптимальных SQL-запросов:\n")
	prompt.WriteString("1. Для анализа активных пользователей по месяцам:\n")
	prompt.WriteString(fmt.Sprintf(`   SELECT DATE_TRUNC('month', %[1]s) AS month, COUNT(DISTINCT user_id) AS user_count
   FROM %[2]s
   WHERE %[1]s BETWEEN '2025-01-01' AND '2025-03-31'
   GROUP BY month
   ORDER BY month
`, metadata.CohortColumn, metadata.ViewName))
	prompt.WriteString("2. Для распределения по типам пользователей:\n")
	prompt.WriteString(fmt.Sprintf(`   SELECT user_type, COUNT(DISTINCT user_id) AS user_count
   FROM %[2]s
   WHERE %[1]s BETWEEN '2025-01-01' AND '2025-03-31'
   GROUP BY user_type
   ORDER BY user_count DESC
`, metadata.CohortColumn, metadata.ViewName))

	return prompt.String()
}

// BuildAnalysisPrompt creates the user message for the slow path. The
// heuristic pre-analysis is included so the model refines rather than
// re-derives it.
func BuildAnalysisPrompt(query string, c models.QueryClassification) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Запрос пользователя: %q\n\n", query))
	prompt.WriteString("Предварительный анализ:\n")
	prompt.WriteString(fmt.Sprintf("- Тип запроса: %s\n", c.QueryType))
	prompt.WriteString(fmt.Sprintf("- Тип объекта: %s\n", c.ObjectType))
	prompt.WriteString(fmt.Sprintf("- Предпочтительная визуализация: %s\n", c.VisualizationType))
	prompt.WriteString(fmt.Sprintf("- Период: с %s по %s\n",
		c.Period.Start.Format("02.01.2006"), c.Period.End.Format("02.01.2006")))

	prompt.WriteString(fmt.Sprintf("\nТребуется SQL-запрос к представлению %s.\n", metadata.ViewName))
	prompt.WriteString(`
Ответ ТОЛЬКО в формате JSON:
{
    "sql_query": "SQL-запрос к представлению",
    "title": "Заголовок для визуализации",
    "description": "Краткое описание запроса"
}
`)

	return prompt.String()
}
