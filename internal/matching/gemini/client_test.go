package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool
}

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu    sync.Mutex
	calls []fakeCall
	queue []fakeResult
	block bool
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResult{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, fakeCall{model: model, contents: contents, config: config, deadline: hasDeadline})
	block := f.block
	var res fakeResult
	if len(f.queue) > 0 {
		res = f.queue[0]
		f.queue = f.queue[1:]
	} else if !block {
		res.err = errors.New("unexpected call")
	}
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return res.resp, res.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func noWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestGeneratorSendsJSONConfig(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(`{"suggestedMatches": [],`, `"reasoning": "none"}`), nil)

	temperature := float32(0.2)
	g := newGenerator(models, Options{Model: "gemini-pro", Temperature: &temperature}, zap.NewNop())

	output, err := g.GenerateJSON(context.Background(), "system", " prompt ", responseSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "{\"suggestedMatches\": [],\n\"reasoning\": \"none\"}" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", call.model)
	}
	if !call.deadline {
		t.Fatalf("expected every attempt to carry a deadline")
	}
	if call.config.ResponseMIMEType != "application/json" || call.config.ResponseSchema == nil {
		t.Fatalf("expected json response config, got %+v", call.config)
	}
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != "system" {
		t.Fatalf("expected system instruction to be set")
	}
	if call.config.Temperature == nil || *call.config.Temperature != 0.2 {
		t.Fatalf("expected temperature to be forwarded")
	}
	if got := call.contents[0].Parts[0].Text; got != "prompt" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestGeneratorDefaultsToSingleAttempt(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})

	g := newGenerator(models, Options{}, zap.NewNop())
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %s", g.Model())
	}

	if _, err := g.GenerateJSON(context.Background(), "", "msg", nil); err == nil {
		t.Fatal("expected error")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected a single call without retries, got %d", len(models.calls))
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newGenerator(models, Options{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	output, err := g.GenerateJSON(context.Background(), "system", "message", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Options{MaxRetries: 2}, zap.NewNop())

	_, err := g.GenerateJSON(context.Background(), "sys", "msg", nil)
	if err == nil || !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("expected exhausted retries error, got %v", err)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newGenerator(models, Options{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg", nil); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newGenerator(models, Options{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorTimesOut(t *testing.T) {
	models := &fakeModels{block: true}
	g := newGenerator(models, Options{Timeout: 10 * time.Millisecond}, zap.NewNop())

	_, err := g.GenerateJSON(context.Background(), "sys", "msg", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no reply within") {
		t.Fatalf("expected timeout to be named, got %v", err)
	}
}

func TestGeneratorRejectsEmptyOutput(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "thinking", Thought: true}, {Text: "  "}}}}},
	}, nil)

	g := newGenerator(models, Options{}, zap.NewNop())

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg", nil); err == nil {
		t.Fatal("expected empty response error")
	}

	if _, err := g.GenerateJSON(context.Background(), "sys", "  ", nil); err == nil {
		t.Fatal("expected empty prompt error")
	}
}

func TestParseRetryHint(t *testing.T) {
	cases := map[string]time.Duration{
		"Please retry in 7.5s.":                   7500 * time.Millisecond,
		"quota exhausted, retry after 12 seconds": 12 * time.Second,
	}
	for message, want := range cases {
		got, ok := parseRetryHint(message)
		if !ok || got != want {
			t.Fatalf("%q: expected %s, got %s (%v)", message, want, got, ok)
		}
	}

	if _, ok := parseRetryHint("try again later"); ok {
		t.Fatalf("expected no hint")
	}
}
