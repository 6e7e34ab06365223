// Package local ranks candidates without any remote service. The same request always yields
// the same response.
package local

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/logger"
	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/utils"
)

const (
	defaultLimit = 5

	locationBonus  = 2.0
	trustWeight    = 1.0
	extraPairBonus = 0.25

	noMatchesReasoning = "No other user both offers a skill %s wants and wants a skill %s offers."
)

type Ranker struct {
	limit  int
	logger *zap.Logger
}

// NewRanker returns a Ranker suggesting at most limit users. Non-positive limits select the default.
func NewRanker(limit int, log *zap.Logger) *Ranker {
	if limit <= 0 {
		limit = defaultLimit
	}

	return &Ranker{
		limit:  limit,
		logger: logger.WithCommonFields(log, "local", ""),
	}
}

type scored struct {
	index   int
	profile matching.UserProfile
	score   float64
	overlap []string
	gives   []string
	gets    []string
	nearby  bool
}

func (r *Ranker) Rank(ctx context.Context, req *matching.MatchRequest) (*matching.MatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, &matching.RankingServiceError{Err: err}
	}

	current := req.CurrentUser
	candidates := make([]scored, 0, len(req.OtherUsers))
	for idx, other := range req.OtherUsers {
		entry, ok := score(current, other)
		if !ok {
			continue
		}
		entry.index = idx
		candidates = append(candidates, entry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if len(candidates[i].overlap) != len(candidates[j].overlap) {
			return len(candidates[i].overlap) > len(candidates[j].overlap)
		}
		return candidates[i].index < candidates[j].index
	})

	if len(candidates) > r.limit {
		candidates = candidates[:r.limit]
	}

	r.logger.Debug("local ranking done",
		zap.String("member", current.Name),
		zap.Int("candidates", len(req.OtherUsers)),
		zap.Int("suggested", len(candidates)),
	)

	resp := &matching.MatchResponse{SuggestedMatches: make([]string, 0, len(candidates))}
	if len(candidates) == 0 {
		name := displayName(current.Name)
		resp.Reasoning = fmt.Sprintf(noMatchesReasoning, name, name)
		return resp, nil
	}

	reasons := make([]string, 0, len(candidates))
	for _, entry := range candidates {
		resp.SuggestedMatches = append(resp.SuggestedMatches, entry.profile.Name)
		reasons = append(reasons, explain(current, entry))
	}
	resp.Reasoning = strings.Join(reasons, " ")

	return resp, nil
}

// score returns false when the pair does not complement each other in both directions.
func score(current, other matching.UserProfile) (scored, bool) {
	gives := common(current.SkillsOffered, other.SkillsDesired)
	gets := common(other.SkillsOffered, current.SkillsDesired)
	if len(gives) == 0 || len(gets) == 0 {
		return scored{}, false
	}

	entry := scored{
		profile: other,
		gives:   gives,
		gets:    gets,
		overlap: overlap(current.Availability, other.Availability),
	}

	if loc := utils.Fold(current.Location); loc != "" && loc == utils.Fold(other.Location) {
		entry.nearby = true
		entry.score += locationBonus
	}
	entry.score += other.TrustScore * trustWeight
	entry.score += float64(len(gives)+len(gets)-2) * extraPairBonus

	return entry, true
}

// common returns the names in offered that also appear in desired, in offered order.
func common(offered, desired []matching.Skill) []string {
	wanted := make(map[string]struct{}, len(desired))
	for _, skill := range desired {
		if key := utils.Fold(skill.Name); key != "" {
			wanted[key] = struct{}{}
		}
	}

	var names []string
	seen := make(map[string]struct{})
	for _, skill := range offered {
		key := utils.Fold(skill.Name)
		if _, ok := wanted[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, strings.TrimSpace(skill.Name))
	}
	return names
}

func overlap(a, b []string) []string {
	slots := make(map[string]struct{}, len(b))
	for _, slot := range b {
		slots[utils.Fold(slot)] = struct{}{}
	}

	var shared []string
	for _, slot := range a {
		if _, ok := slots[utils.Fold(slot)]; ok && strings.TrimSpace(slot) != "" {
			shared = append(shared, strings.TrimSpace(slot))
		}
	}
	return shared
}

func explain(current matching.UserProfile, entry scored) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s offers %s, which %s wants, and wants %s, which %s offers",
		displayName(entry.profile.Name),
		strings.Join(entry.gets, " and "),
		displayName(current.Name),
		strings.Join(entry.gives, " and "),
		displayName(current.Name),
	)
	if entry.nearby {
		fmt.Fprintf(&b, "; both are in %s", strings.TrimSpace(entry.profile.Location))
	}
	if len(entry.overlap) > 0 {
		fmt.Fprintf(&b, "; both are free on %s", strings.Join(entry.overlap, ", "))
	}
	fmt.Fprintf(&b, "; trust score %s.", strconv.FormatFloat(entry.profile.TrustScore, 'f', -1, 64))
	return b.String()
}

func displayName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "this user"
	}
	return name
}
