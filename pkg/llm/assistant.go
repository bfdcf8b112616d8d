package llm

import (
	"context"

	"go.uber.org/zap"
)

// Request describes one assistant call.
type Request struct {
	Prompt        string
	SystemMessage string
	Temperature   float64

	// RequiredFields are the keys that must be present in the parsed
	// response for the call to count as complete.
	RequiredFields []string

	// StricterInstruction is appended to the system message on the retry.
	StricterInstruction string
}

// Result is the best-effort structured outcome of an assistant call.
type Result struct {
	// Fields holds the parsed JSON object, or {"content": raw} when the
	// response carried no JSON.
	Fields map[string]any
	// Raw is the last raw response text.
	Raw string
	// Missing lists required fields still absent after the retry. Callers
	// fill deterministic defaults for these.
	Missing []string
	// Retried reports whether the stricter retry was issued.
	Retried bool
}

// Assistant wraps the LLM client with the field-completeness recovery
// policy: one call, at most one stricter retry at lower temperature, then
// the caller falls back to deterministic defaults. Never more than one
// retry per call.
type Assistant struct {
	client LLMClient
	logger *zap.Logger
}

// NewAssistant creates an assistant over the given client.
func NewAssistant(client LLMClient, logger *zap.Logger) *Assistant {
	return &Assistant{
		client: client,
		logger: logger.Named("assistant"),
	}
}

// Complete issues the call and applies the retry policy. A transport error
// on the first attempt is returned to the caller; a transport error on the
// retry falls back to the first attempt's fields.
func (a *Assistant) Complete(ctx context.Context, req Request) (*Result, error) {
	raw, err := a.client.GenerateResponse(ctx, req.Prompt, req.SystemMessage, req.Temperature)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fields: ExtractObject(raw),
		Raw:    raw,
	}
	result.Missing = missingFields(result.Fields, req.RequiredFields)
	if len(result.Missing) == 0 {
		return result, nil
	}

	a.logger.Warn("Response missing required fields, retrying with stricter instruction",
		zap.Strings("missing", result.Missing))

	result.Retried = true
	retryRaw, err := a.client.GenerateResponse(ctx,
		req.Prompt,
		req.SystemMessage+req.StricterInstruction,
		req.Temperature/2)
	if err != nil {
		a.logger.Warn("Retry failed, keeping first response", zap.Error(err))
		return result, nil
	}

	retryFields := ExtractObject(retryRaw)
	retryMissing := missingFields(retryFields, req.RequiredFields)
	if len(retryMissing) <= len(result.Missing) {
		result.Fields = retryFields
		result.Raw = retryRaw
		result.Missing = retryMissing
	}

	return result, nil
}

// StringField reads a string value from the parsed fields, returning the
// empty string when the key is absent or not a string.
func (r *Result) StringField(key string) string {
	if v, ok := r.Fields[key].(string); ok {
		return v
	}
	return ""
}

func missingFields(obj map[string]any, required []string) []string {
	var missing []string
	for _, field := range required {
		v, ok := obj[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
