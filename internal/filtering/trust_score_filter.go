package filtering

import (
	"context"
	"errors"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
)

type trustScoreFilter struct {
	toggle
	min    float64
	logger *zap.Logger
}

// NewMinTrustScore drops members below the given trust score. Zero disables the step.
func NewMinTrustScore(minScore float64, logger *zap.Logger) Filter {
	f := &trustScoreFilter{min: minScore, logger: logger}
	if minScore == 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *trustScoreFilter) Name() string { return "min_trust_score" }

func (f *trustScoreFilter) Validate() error {
	if f.min < 0 || math.IsNaN(f.min) || math.IsInf(f.min, 0) {
		return errors.New("minimum trust score must be a non-negative number")
	}
	return nil
}

func (f *trustScoreFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	next, step := keep(f.logger, "excluding members by trust score", m, func(member *members.Member) bool {
		return member.TrustScore >= f.min
	}, zap.Float64("min_trust_score", f.min))
	return next, step, nil
}

func (f *trustScoreFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"min": strconv.FormatFloat(f.min, 'f', -1, 64)})
}
