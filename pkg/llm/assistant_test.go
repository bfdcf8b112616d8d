package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func testRequest() Request {
	return Request{
		Prompt:              "запрос",
		SystemMessage:       "система",
		Temperature:         0.8,
		RequiredFields:      []string{"sql_query", "title"},
		StricterInstruction: "\nСТРОГО JSON.",
	}
}

func TestAssistantCompleteFirstTry(t *testing.T) {
	mock := NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"sql_query": "SELECT 1", "title": "Т"}`, nil
	}
	a := NewAssistant(mock, zap.NewNop())

	got, err := a.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Retried {
		t.Error("retried on a complete response")
	}
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v", got.Missing)
	}
	if got.StringField("sql_query") != "SELECT 1" {
		t.Errorf("sql_query = %q", got.StringField("sql_query"))
	}
	if mock.GenerateResponseCalls != 1 {
		t.Errorf("calls = %d, want 1", mock.GenerateResponseCalls)
	}
}

func TestAssistantRetriesOnceWithStricterInstruction(t *testing.T) {
	mock := NewMockLLMClient()
	responses := []string{"нет JSON", `{"sql_query": "SELECT 1", "title": "Т"}`}
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		r := responses[0]
		responses = responses[1:]
		return r, nil
	}
	a := NewAssistant(mock, zap.NewNop())

	got, err := a.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Retried {
		t.Error("Retried = false")
	}
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v", got.Missing)
	}
	if mock.GenerateResponseCalls != 2 {
		t.Fatalf("calls = %d, want 2", mock.GenerateResponseCalls)
	}
	if mock.SystemMessages[1] != "система\nСТРОГО JSON." {
		t.Errorf("retry system message = %q", mock.SystemMessages[1])
	}
	if mock.Temperatures[1] != 0.4 {
		t.Errorf("retry temperature = %v, want 0.4", mock.Temperatures[1])
	}
}

// Never more than one retry, even when the retry is also incomplete.
func TestAssistantNeverRetriesTwice(t *testing.T) {
	mock := NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "нет JSON", nil
	}
	a := NewAssistant(mock, zap.NewNop())

	got, err := a.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.GenerateResponseCalls != 2 {
		t.Errorf("calls = %d, want 2", mock.GenerateResponseCalls)
	}
	if len(got.Missing) != 2 {
		t.Errorf("Missing = %v, want both fields", got.Missing)
	}
}

func TestAssistantFirstCallErrorPropagates(t *testing.T) {
	mock := NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "", errors.New("timeout")
	}
	a := NewAssistant(mock, zap.NewNop())

	if _, err := a.Complete(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error")
	}
	if mock.GenerateResponseCalls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after transport error)", mock.GenerateResponseCalls)
	}
}

func TestAssistantRetryErrorKeepsFirstResponse(t *testing.T) {
	mock := NewMockLLMClient()
	first := true
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		if first {
			first = false
			return `{"sql_query": "SELECT 1"}`, nil
		}
		return "", errors.New("timeout")
	}
	a := NewAssistant(mock, zap.NewNop())

	got, err := a.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringField("sql_query") != "SELECT 1" {
		t.Errorf("first response lost: %v", got.Fields)
	}
	if len(got.Missing) != 1 || got.Missing[0] != "title" {
		t.Errorf("Missing = %v, want [title]", got.Missing)
	}
}

// Empty string values count as missing.
func TestAssistantEmptyStringIsMissing(t *testing.T) {
	mock := NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `{"sql_query": "", "title": "Т"}`, nil
	}
	a := NewAssistant(mock, zap.NewNop())

	got, err := a.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Retried {
		t.Error("expected retry for empty required field")
	}
	if got.StringField("title") != "Т" {
		t.Errorf("title = %q", got.StringField("title"))
	}
}
