package local

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/matching"
)

func profile(name, location string, trust float64, offers, wants string, availability ...string) matching.UserProfile {
	return matching.UserProfile{
		Name:          name,
		Location:      location,
		TrustScore:    trust,
		Availability:  availability,
		SkillsOffered: []matching.Skill{{Name: offers, Level: matching.Expert}},
		SkillsDesired: []matching.Skill{{Name: wants, Level: matching.Beginner}},
	}
}

func alex() matching.UserProfile {
	return profile("Alex", "Greenwood", 4.8, "Web Development", "Creative Writing", "Weekdays")
}

func TestRankerSuggestsComplementaryUser(t *testing.T) {
	jane := profile("Jane", "Greenwood", 4.5, "Creative Writing", "Web Development", "Weekends")

	req, err := matching.NewMatchRequest(alex(), []matching.UserProfile{jane})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := NewRanker(0, zap.NewNop()).Rank(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.SuggestedMatches) != 1 || resp.SuggestedMatches[0] != "Jane" {
		t.Fatalf("unexpected suggestions: %v", resp.SuggestedMatches)
	}

	for _, fragment := range []string{"Jane offers Creative Writing", "wants Web Development", "both are in Greenwood", "trust score 4.5"} {
		if !strings.Contains(resp.Reasoning, fragment) {
			t.Fatalf("expected reasoning to contain %q, got %q", fragment, resp.Reasoning)
		}
	}
}

func TestRankerOrdering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		others []matching.UserProfile
		want   []string
	}{
		{
			name: "one way complement is dropped",
			others: []matching.UserProfile{
				profile("Sam", "Greenwood", 5, "Creative Writing", "Pottery"),
				profile("Jane", "Riverside", 3, "creative writing ", "web development"),
			},
			want: []string{"Jane"},
		},
		{
			name: "location beats a small trust gap",
			others: []matching.UserProfile{
				profile("Far", "Riverside", 4.9, "Creative Writing", "Web Development"),
				profile("Near", "greenwood", 4.0, "Creative Writing", "Web Development"),
			},
			want: []string{"Near", "Far"},
		},
		{
			name: "large trust gap beats location",
			others: []matching.UserProfile{
				profile("Near", "Greenwood", 1.5, "Creative Writing", "Web Development"),
				profile("Far", "Riverside", 4.9, "Creative Writing", "Web Development"),
			},
			want: []string{"Far", "Near"},
		},
		{
			name: "availability breaks ties",
			others: []matching.UserProfile{
				profile("Weekend", "Greenwood", 4, "Creative Writing", "Web Development", "Weekends"),
				profile("Weekday", "Greenwood", 4, "Creative Writing", "Web Development", "Weekdays"),
			},
			want: []string{"Weekday", "Weekend"},
		},
		{
			name: "input order breaks remaining ties",
			others: []matching.UserProfile{
				profile("First", "Greenwood", 4, "Creative Writing", "Web Development"),
				profile("Second", "Greenwood", 4, "Creative Writing", "Web Development"),
			},
			want: []string{"First", "Second"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, err := matching.NewMatchRequest(alex(), tc.others)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			resp, err := NewRanker(0, nil).Rank(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if strings.Join(resp.SuggestedMatches, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("expected %v, got %v", tc.want, resp.SuggestedMatches)
			}
		})
	}
}

func TestRankerIsDeterministicAndLimited(t *testing.T) {
	others := make([]matching.UserProfile, 0, 8)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		others = append(others, profile(name, "Greenwood", 4, "Creative Writing", "Web Development"))
	}

	req, err := matching.NewMatchRequest(alex(), others)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ranker := NewRanker(3, nil)
	first, err := ranker.Rank(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ranker.Rank(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.SuggestedMatches) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", first.SuggestedMatches)
	}
	if strings.Join(first.SuggestedMatches, ",") != strings.Join(second.SuggestedMatches, ",") || first.Reasoning != second.Reasoning {
		t.Fatalf("expected identical responses, got %+v and %+v", first, second)
	}
}

func TestRankerWithoutMatches(t *testing.T) {
	req, err := matching.NewMatchRequest(alex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := NewRanker(0, nil).Rank(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.SuggestedMatches == nil || len(resp.SuggestedMatches) != 0 {
		t.Fatalf("expected empty suggestions, got %#v", resp.SuggestedMatches)
	}
	if !strings.Contains(resp.Reasoning, "Alex") {
		t.Fatalf("expected reasoning to explain the empty result, got %q", resp.Reasoning)
	}
}

func TestRankerValidatesRequest(t *testing.T) {
	req := &matching.MatchRequest{
		CurrentUser: alex(),
		OtherUsers:  []matching.UserProfile{{Name: "Jane", SkillsOffered: []matching.Skill{{Name: "Go"}}}},
	}

	_, err := NewRanker(0, nil).Rank(context.Background(), req)
	if !errors.Is(err, matching.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}
