package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillswap/internal/utils"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second

	serverErrorBackoff = time.Second
	quotaDefaultDelay  = 5 * time.Second
	// Quota hints longer than this are not worth waiting for in an interactive command.
	maxQuotaDelay = 30 * time.Second
)

var (
	wait = utils.WaitFor

	retryHint = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*(?:s\b|sec|second)`)
)

type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tunes a Generator. Zero values select the defaults.
type Options struct {
	Model string
	// Timeout bounds every single attempt.
	Timeout time.Duration
	// MaxRetries is the total number of attempts; values below 1 mean a single attempt.
	MaxRetries  int
	Temperature *float32
}

// Generator wraps the Google GenAI client for single-shot JSON generation.
type Generator struct {
	models      contentModel
	model       string
	timeout     time.Duration
	maxRetries  int
	temperature *float32
	logger      *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, logger), nil
}

func newGenerator(models contentModel, opts Options, logger *zap.Logger) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:      models,
		model:       model,
		timeout:     timeout,
		maxRetries:  attempts,
		temperature: opts.Temperature,
		logger:      logger,
	}
}

// GenerateJSON sends the prompt with a system instruction and asks for a JSON reply matching
// schema. The concatenated text of the first response is returned.
func (g *Generator) GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature:      g.temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	for attempt := 1; ; attempt++ {
		output, err := g.generateOnce(ctx, prompt, config)
		if err == nil {
			return output, nil
		}

		if attempt >= g.maxRetries {
			if attempt > 1 {
				return "", fmt.Errorf("giving up after %d attempts: %w", attempt, err)
			}
			return "", err
		}

		delay, retryable := retryDelay(err, attempt)
		if !retryable {
			return "", err
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if waitErr := wait(ctx, delay); waitErr != nil {
			return "", fmt.Errorf("waiting before retry: %w (last error: %v)", waitErr, err)
		}
	}
}

func (g *Generator) generateOnce(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(callCtx, g.model, genai.Text(prompt), config)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("generate content: no reply within %s: %w", g.timeout, err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp == nil {
		return "", errors.New("gemini api returned nil response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate carries the answer.
		if builder.Len() > 0 {
			break
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay decides whether err is temporary and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		delay, ok := parseRetryHint(apiErr.Message)
		if !ok {
			return quotaDefaultDelay, true
		}
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return serverErrorBackoff << (attempt - 1), true
	default:
		return 0, false
	}
}

func parseRetryHint(message string) (time.Duration, bool) {
	match := retryHint.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
