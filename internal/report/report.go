// Package report renders ranking results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/skillswap/internal/matching"
)

const noSuggestions = "No suggestions this time."

// Text prints the reasoning followed by a numbered list of suggested names.
func Text(w io.Writer, resp *matching.MatchResponse) error {
	if resp == nil {
		resp = &matching.MatchResponse{}
	}

	var b strings.Builder
	b.WriteString("Suggested matches:\n")
	for idx, name := range resp.SuggestedMatches {
		fmt.Fprintf(&b, "  %d. %s\n", idx+1, strings.TrimSpace(name))
	}
	if len(resp.SuggestedMatches) == 0 {
		fmt.Fprintf(&b, "  %s\n", noSuggestions)
	}

	if reasoning := strings.TrimSpace(resp.Reasoning); reasoning != "" {
		fmt.Fprintf(&b, "\nWhy:\n  %s\n", reasoning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON prints the response object. A nil list is written as an empty array.
func JSON(w io.Writer, resp *matching.MatchResponse) error {
	out := matching.MatchResponse{SuggestedMatches: []string{}}
	if resp != nil {
		out.Reasoning = resp.Reasoning
		if resp.SuggestedMatches != nil {
			out.SuggestedMatches = resp.SuggestedMatches
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Write dispatches on the output format name: text or json.
func Write(w io.Writer, format string, resp *matching.MatchResponse) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return Text(w, resp)
	case "json":
		return JSON(w, resp)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
