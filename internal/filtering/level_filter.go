package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/members"
)

type levelFilter struct {
	toggle
	raw    string
	level  matching.Level
	logger *zap.Logger
}

// NewLevel keeps members with at least one offered or desired skill at the given level.
func NewLevel(level string, logger *zap.Logger) Filter {
	f := &levelFilter{raw: strings.TrimSpace(level), logger: logger}
	if f.raw == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *levelFilter) Name() string { return "level" }

func (f *levelFilter) Validate() error {
	level, ok := matching.ParseLevel(f.raw)
	if !ok {
		return fmt.Errorf("unknown level %q", f.raw)
	}
	f.level = level
	return nil
}

func (f *levelFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	next, step := keep(f.logger, "excluding members by skill level", m, func(member *members.Member) bool {
		for _, skills := range [][]matching.Skill{member.SkillsOffered, member.SkillsDesired} {
			for _, skill := range skills {
				if skill.Level == f.level {
					return true
				}
			}
		}
		return false
	}, zap.Stringer("level", f.level))
	return next, step, nil
}

func (f *levelFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"level": f.raw})
}
