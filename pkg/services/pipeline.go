package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/atlantix-inc/insight-engine/pkg/llm"
	"github.com/atlantix-inc/insight-engine/pkg/logging"
	"github.com/atlantix-inc/insight-engine/pkg/metadata"
	"github.com/atlantix-inc/insight-engine/pkg/metrics"
	"github.com/atlantix-inc/insight-engine/pkg/models"
	"github.com/atlantix-inc/insight-engine/pkg/prompts"
	enginesql "github.com/atlantix-inc/insight-engine/pkg/sql"
)

// Resolution paths reported in Performance.OptimizationPath.
const (
	PathCache       = "cache"
	PathFast        = "fast_path"
	PathLLM         = "llm_path"
	PathSynthesized = "synthesized"
)

const assistantTemperature = 0.7

// analysisRequiredFields are the keys an assistant response must carry to
// count as complete.
var analysisRequiredFields = []string{"sql_query", "title", "description"}

// AnalyzeRequest is one natural-language analysis request.
type AnalyzeRequest struct {
	Query string
	// Visualization optionally overrides the classified chart type.
	// Unknown values are ignored.
	Visualization string
	Pagination    models.PaginationParams
}

// Pipeline orchestrates the full analysis flow: cache lookup,
// classification, template matching, the LLM-assisted slow path, the safety
// pass, execution, chart building and caching. Concurrent identical queries
// are collapsed into a single computation.
type Pipeline struct {
	classifier *Classifier
	matcher    *TemplateMatcher
	generator  *SQLGenerator
	charts     *ChartBuilder
	cache      *ResultCache
	executor   QueryExecutor
	assistant  *llm.Assistant
	group      singleflight.Group
	logger     *zap.Logger
}

// QueryExecutor is the data-store dependency of the pipeline.
type QueryExecutor interface {
	Query(ctx context.Context, stmt string) (*models.TabularResult, error)
}

// NewPipeline wires the pipeline. A nil assistant disables the LLM slow
// path; unmatched queries then go straight to the deterministic
// synthesizer.
func NewPipeline(
	classifier *Classifier,
	matcher *TemplateMatcher,
	generator *SQLGenerator,
	charts *ChartBuilder,
	cache *ResultCache,
	executor QueryExecutor,
	assistant *llm.Assistant,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		matcher:    matcher,
		generator:  generator,
		charts:     charts,
		cache:      cache,
		executor:   executor,
		assistant:  assistant,
		logger:     logger.Named("pipeline"),
	}
}

// Analyze runs one request through the pipeline. The cached unit is always
// the full unpaginated result; pagination and per-request performance
// metadata are applied on the way out. Analyze never returns a Go error:
// failures are reported as an unsuccessful PipelineResult.
func (p *Pipeline) Analyze(ctx context.Context, req AnalyzeRequest) *models.PipelineResult {
	start := time.Now()

	// The visualization override participates in the key so an overridden
	// chart never shadows the classified one.
	rawKey := req.Query
	if req.Visualization != "" {
		rawKey += "|" + req.Visualization
	}

	v, _, _ := p.group.Do(CacheKey(rawKey), func() (any, error) {
		if cached, ok := p.cache.Get(rawKey); ok {
			metrics.CacheHits.Inc()
			return withPath(cached, PathCache), nil
		}
		metrics.CacheMisses.Inc()
		return p.compute(ctx, req, rawKey), nil
	})
	base := v.(*models.PipelineResult)
	metrics.PipelineRuns.WithLabelValues(base.Performance.OptimizationPath).Inc()

	// Shallow copy so pagination and timing never mutate the cached unit.
	out := *base
	if base.Success {
		rows, info := models.Paginate(base.Data, req.Pagination)
		out.Data = rows
		out.Pagination = &info
	}
	out.Performance.ProcessingTimeMS = float64(time.Since(start).Microseconds()) / 1000
	return &out
}

// compute runs the uncached flow and stores a successful result under the
// given key before returning it.
func (p *Pipeline) compute(ctx context.Context, req AnalyzeRequest, cacheKey string) *models.PipelineResult {
	classification := p.classifier.Classify(req.Query)

	viz := classification.VisualizationType
	if req.Visualization != "" {
		if parsed, ok := models.ParseVisualizationType(req.Visualization); ok {
			viz = parsed
		}
	}

	var plan queryPlan
	if match := p.matcher.Match(req.Query); match != nil {
		plan = queryPlan{
			stmt: models.SQLStatement{
				Text:   RenderTemplate(match.Template, classification.Period),
				Origin: models.SQLOriginTemplate,
			},
			title:       match.Template.Name,
			description: classification.Period.Description(),
			explanation: periodExplanation(classification.Period),
			path:        PathFast,
		}
		if req.Visualization == "" {
			viz = match.Template.VisualizationType
		}

		p.logger.Debug("Template matched",
			zap.String("template", match.Template.Name),
			zap.Int("score", match.Score))
	} else {
		plan = p.slowPath(ctx, req.Query, classification)
	}

	final := enginesql.PostProcess(plan.stmt.Text)
	if final == "" {
		return p.failure(classification, plan.path, "error", "empty SQL statement after synthesis")
	}

	data, err := p.executor.Query(ctx, final)
	if err != nil {
		p.logger.Error("Execution failed",
			zap.String("sql", logging.SanitizeQuery(final)),
			zap.Error(err))
		return p.failure(classification, plan.path, "database", err.Error())
	}

	result := &models.PipelineResult{
		Success:       true,
		Data:          data.Rows,
		Visualization: p.charts.Build(data, viz, plan.title),
		SQLQuery:      final,
		Title:         plan.title,
		Description:   plan.description,
		Explanation:   plan.explanation,
		Performance: models.Performance{
			QueryType:        string(classification.QueryType),
			OptimizationPath: plan.path,
		},
	}

	p.cache.Put(cacheKey, result)

	return result
}

// queryPlan is the outcome of path selection: the statement to execute and
// the presentation fields to attach to the result.
type queryPlan struct {
	stmt        models.SQLStatement
	title       string
	description string
	explanation string
	path        string
}

// periodExplanation is the fast-path explanation: which view was read and
// for which period, in the display date format.
func periodExplanation(p models.TimePeriod) string {
	return fmt.Sprintf("Запрос анализирует данные из представления %s за период с %s по %s.",
		metadata.ViewName, p.Start.Format("02.01.2006"), p.End.Format("02.01.2006"))
}

var viewExplanation = "Анализ данных из представления " + metadata.ViewName + "."

// slowPath asks the assistant for SQL and presentation fields, screening
// the returned hint and filling deterministic defaults for anything still
// missing. Any assistant failure degrades to the synthesizer.
func (p *Pipeline) slowPath(ctx context.Context, query string, c models.QueryClassification) queryPlan {
	plan := queryPlan{
		title:       p.generator.Title(c),
		description: c.Period.Description(),
		explanation: viewExplanation,
		path:        PathSynthesized,
	}

	if p.assistant == nil {
		plan.stmt = p.generator.Generate(c)
		return plan
	}

	result, err := p.assistant.Complete(ctx, llm.Request{
		Prompt:              prompts.BuildAnalysisPrompt(query, c),
		SystemMessage:       prompts.BuildSystemPrompt(),
		Temperature:         assistantTemperature,
		RequiredFields:      analysisRequiredFields,
		StricterInstruction: prompts.StricterInstruction,
	})
	if err != nil {
		p.logger.Warn("Assistant unavailable, using synthesized SQL", zap.Error(err))
		metrics.LLMFallbacks.Inc()
		plan.stmt = p.generator.Generate(c)
		return plan
	}

	if title := result.StringField("title"); title != "" {
		plan.title = title
	}
	// The assistant's description doubles as the result explanation.
	if description := result.StringField("description"); description != "" {
		plan.description = description
		plan.explanation = description
	}

	hint := strings.TrimSpace(result.StringField("sql_query"))
	if hint == "" {
		metrics.LLMFallbacks.Inc()
		plan.stmt = p.generator.Generate(c)
		return plan
	}
	if check := enginesql.CheckHint(hint); check != nil {
		p.logger.Warn("SQL hint rejected by injection screen",
			zap.String("fingerprint", check.Fingerprint),
			zap.String("fragment", logging.TruncateString(check.Fragment, 80)))
		metrics.LLMFallbacks.Inc()
		plan.stmt = p.generator.Generate(c)
		return plan
	}

	plan.stmt = p.generator.ApplyHint(hint, c.Period)
	plan.path = PathLLM
	return plan
}

func (p *Pipeline) failure(c models.QueryClassification, path, source, message string) *models.PipelineResult {
	return &models.PipelineResult{
		Success: false,
		Error:   message,
		Performance: models.Performance{
			QueryType:        string(c.QueryType),
			OptimizationPath: path,
			ErrorSource:      source,
		},
	}
}

// withPath returns a shallow copy of the result with the resolution path
// replaced, keeping the cached unit untouched.
func withPath(r *models.PipelineResult, path string) *models.PipelineResult {
	out := *r
	out.Performance.OptimizationPath = path
	return &out
}
