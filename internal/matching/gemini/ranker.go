package gemini

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillswap/internal/logger"
	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/utils"
)

const (
	defaultMaxLogLength  = 200
	defaultMaxCandidates = 50
)

type contentGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

// Ranker delegates ordering to a Gemini model. The order it returns is not reproducible
// across identical requests.
type Ranker struct {
	generator     contentGenerator
	maxCandidates int
	maxLogLen     int
	logger        *zap.Logger
}

// NewRanker builds a Ranker. maxCandidates caps the candidate list sent in one prompt;
// non-positive values select the default.
func NewRanker(generator contentGenerator, maxCandidates, maxLogLength int, log *zap.Logger) *Ranker {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	return &Ranker{
		generator:     generator,
		maxCandidates: maxCandidates,
		maxLogLen:     maxLogLength,
		logger:        logger.WithCommonFields(log, "gemini", generator.Model()),
	}
}

func (r *Ranker) Rank(ctx context.Context, req *matching.MatchRequest) (*matching.MatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(req.OtherUsers) > r.maxCandidates {
		return nil, &matching.SchemaValidationError{
			Field:  "otherUsers",
			Reason: fmt.Sprintf("has %d candidates, at most %d fit in one prompt", len(req.OtherUsers), r.maxCandidates),
		}
	}

	prompt := BuildPrompt(req)
	requestID := uuid.NewString()

	r.logger.Debug("gemini generate content request",
		zap.String(logger.FieldRequestID, requestID),
		zap.String("member", req.CurrentUser.Name),
		zap.Int("candidates", len(req.OtherUsers)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateJSON(ctx, systemInstruction, prompt, responseSchema())
	if err != nil {
		return nil, &matching.RankingServiceError{Err: err}
	}

	r.logger.Debug("gemini generate content response",
		zap.String(logger.FieldRequestID, requestID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	resp, err := parseResponse(raw)
	if err != nil {
		return nil, &matching.RankingServiceError{Err: err}
	}

	return resp, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"suggestedMatches": {
				Type:        genai.TypeArray,
				Description: "Names of the suggested users, best match first.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "Why the suggested users are good matches.",
			},
		},
		Required:         []string{"suggestedMatches", "reasoning"},
		PropertyOrdering: []string{"suggestedMatches", "reasoning"},
	}
}
