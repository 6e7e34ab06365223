package filtering

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
)

type excludeSelfFilter struct {
	toggle
	current string
	logger  *zap.Logger
}

// NewExcludeSelf removes the current member from the candidates.
func NewExcludeSelf(currentID string, logger *zap.Logger) Filter {
	return &excludeSelfFilter{current: strings.TrimSpace(currentID), logger: logger}
}

func (f *excludeSelfFilter) Name() string { return "exclude_self" }

func (f *excludeSelfFilter) Validate() error {
	if f.current == "" {
		return errors.New("current member id is required")
	}
	return nil
}

func (f *excludeSelfFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	next, step := keep(f.logger, "excluding current member", m, func(member *members.Member) bool {
		return member.ID != f.current
	})
	return next, step, nil
}

func (f *excludeSelfFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"member": f.current})
}
