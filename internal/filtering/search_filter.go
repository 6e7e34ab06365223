package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
	"github.com/spigell/skillswap/internal/utils"
)

type searchFilter struct {
	toggle
	query  string
	logger *zap.Logger
}

// NewSearch keeps members whose name or one of the offered skills contains the query.
// An empty query disables the step.
func NewSearch(query string, logger *zap.Logger) Filter {
	f := &searchFilter{query: strings.TrimSpace(query), logger: logger}
	if f.query == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate() error { return nil }

func (f *searchFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	next, step := keep(f.logger, "excluding members not matching search", m, func(member *members.Member) bool {
		if utils.ContainsFold(member.Name, f.query) {
			return true
		}
		for _, skill := range member.SkillsOffered {
			if utils.ContainsFold(skill.Name, f.query) {
				return true
			}
		}
		return false
	}, zap.String("query", f.query))
	return next, step, nil
}

func (f *searchFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"query": f.query})
}
