package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
	"github.com/spigell/skillswap/internal/utils"
)

type availabilityFilter struct {
	toggle
	slot   string
	logger *zap.Logger
}

// NewAvailability keeps members available in the given slot, e.g. "Weekends".
func NewAvailability(slot string, logger *zap.Logger) Filter {
	f := &availabilityFilter{slot: strings.TrimSpace(slot), logger: logger}
	if f.slot == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *availabilityFilter) Name() string { return "availability" }

func (f *availabilityFilter) Validate() error { return nil }

func (f *availabilityFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	want := utils.Fold(f.slot)
	next, step := keep(f.logger, "excluding members by availability", m, func(member *members.Member) bool {
		for _, slot := range member.Availability {
			if utils.Fold(slot) == want {
				return true
			}
		}
		return false
	}, zap.String("availability", f.slot))
	return next, step, nil
}

func (f *availabilityFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"availability": f.slot})
}
