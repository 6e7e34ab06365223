package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/skillswap/internal/matching"
)

// parseResponse coerces the model output into a MatchResponse. Unknown fields are dropped;
// a missing, null or mistyped required field fails the whole reply.
func parseResponse(raw string) (*matching.MatchResponse, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("parse gemini response: empty payload")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if data == nil {
		return nil, errors.New("parse gemini response: payload is null")
	}

	matches, err := coerceMatches(data["suggestedMatches"])
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: suggestedMatches: %w", err)
	}

	reasoning, err := coerceString(data["reasoning"])
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: reasoning: %w", err)
	}

	return &matching.MatchResponse{
		SuggestedMatches: matches,
		Reasoning:        reasoning,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	// Tolerate a sentence of prose around the object.
	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}

	return raw
}

func coerceMatches(v any) ([]string, error) {
	if v == nil {
		return nil, errors.New("is missing")
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}

	matches := make([]string, 0, len(items))
	for idx, item := range items {
		name, err := coerceMatch(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		if name == "" {
			continue
		}
		matches = append(matches, name)
	}

	return matches, nil
}

func coerceMatch(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case map[string]any:
		// Models sometimes echo a profile object instead of the bare name.
		if name, ok := val["name"].(string); ok {
			return strings.TrimSpace(name), nil
		}
		return "", errors.New("object without a name")
	default:
		return "", fmt.Errorf("unsupported value %T", v)
	}
}

func coerceString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", errors.New("is missing")
	case string:
		return strings.TrimSpace(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v), nil
		}
		return string(bytes), nil
	}
}
