package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
	"github.com/spigell/skillswap/internal/utils"
)

const notConfigured = "not configured"

type locationFilter struct {
	toggle
	location string
	logger   *zap.Logger
}

// NewLocation keeps members whose location contains the given text.
func NewLocation(location string, logger *zap.Logger) Filter {
	f := &locationFilter{location: strings.TrimSpace(location), logger: logger}
	if f.location == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Validate() error { return nil }

func (f *locationFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	next, step := keep(f.logger, "excluding members by location", m, func(member *members.Member) bool {
		return utils.ContainsFold(member.Location, f.location)
	}, zap.String("location", f.location))
	return next, step, nil
}

func (f *locationFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"location": f.location})
}
