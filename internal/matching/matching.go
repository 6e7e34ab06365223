package matching

import (
	"context"
	"strings"
)

// Level is the proficiency of a skill. Levels are ordered Beginner < Intermediate < Expert.
type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Expert       Level = "Expert"
)

// Levels lists the accepted proficiency values in ascending order.
var Levels = []Level{Beginner, Intermediate, Expert}

// ParseLevel matches the value against the known levels ignoring case and surrounding spaces.
func ParseLevel(value string) (Level, bool) {
	value = strings.TrimSpace(value)
	for _, level := range Levels {
		if strings.EqualFold(string(level), value) {
			return level, true
		}
	}
	return "", false
}

func (l Level) Valid() bool {
	return l.Rank() > 0
}

// Rank returns 1..3 for known levels and 0 otherwise.
func (l Level) Rank() int {
	for idx, level := range Levels {
		if l == level {
			return idx + 1
		}
	}
	return 0
}

func (l Level) String() string {
	return string(l)
}

type Skill struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// UserProfile is the ranking view of a member. It is owned by the caller and must not be
// modified while a ranking call is running.
type UserProfile struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Availability  []string `json:"availability"`
	TrustScore    float64  `json:"trustScore"`
	SkillsOffered []Skill  `json:"skillsOffered"`
	SkillsDesired []Skill  `json:"skillsDesired"`
}

type MatchRequest struct {
	CurrentUser UserProfile   `json:"currentUser"`
	OtherUsers  []UserProfile `json:"otherUsers"`
}

// MatchResponse is what a ranker returns. SuggestedMatches is free text: entries are not
// guaranteed to name users from the request and the list length is not bounded.
type MatchResponse struct {
	SuggestedMatches []string `json:"suggestedMatches"`
	Reasoning        string   `json:"reasoning"`
}

// Ranker orders the candidates of a request for its current user.
type Ranker interface {
	Rank(ctx context.Context, req *MatchRequest) (*MatchResponse, error)
}
