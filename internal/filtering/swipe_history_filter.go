package filtering

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/members"
)

const forceFlagSetMsg = "force flag is set"

type SwipeHistoryConfig struct {
	Path   string
	Ignore bool
}

type swipeHistoryFilter struct {
	toggle
	path   string
	logger *zap.Logger
}

// NewSwipeHistory removes members already connected with or passed on.
func NewSwipeHistory(cfg *SwipeHistoryConfig, logger *zap.Logger) Filter {
	f := &swipeHistoryFilter{logger: logger}
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.Path)
		if cfg.Ignore {
			f.Disable(forceFlagSetMsg)
			return f
		}
	}
	if f.path == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *swipeHistoryFilter) Name() string { return "swipe_history" }

func (f *swipeHistoryFilter) Validate() error {
	if f.path == "" {
		return errors.New("swipe history file is required")
	}
	return nil
}

func (f *swipeHistoryFilter) Apply(_ context.Context, m *members.Members) (*members.Members, Step, error) {
	initial := m.Len()

	swipes, err := members.LoadSwipes(f.path)
	if err != nil {
		return m, Step{}, err
	}

	excluded := m.Exclude(swipes.MemberIDs())
	if len(excluded) > 0 && f.logger != nil {
		f.logger.Debug("excluding members based on swipe history",
			zap.String("path", f.path),
			zap.Strings("excluded_members", excluded),
			zap.Int("members_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *swipeHistoryFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"path": f.path})
}
