package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/filtering"
	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/members"
)

const userFlag = "user"

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(userFlag, "u", "", "id or name of the member to suggest matches for (default is current-user from config)")
}

// currentMember resolves the member from the flag, the config, or an interactive selection.
func currentMember(cmd *cobra.Command, config *Config, store members.Store) (*members.Member, error) {
	ref := strings.TrimSpace(cmd.Flag(userFlag).Value.String())
	if ref == "" {
		ref = strings.TrimSpace(config.CurrentUser)
	}

	list := store.List()
	if ref != "" {
		if member, err := store.Get(ref); err == nil {
			return member, nil
		}
		if member := list.FindByName(ref); member != nil {
			return member, nil
		}
		return nil, fmt.Errorf("%w: %s", members.ErrMemberNotFound, ref)
	}

	if list.Len() == 0 {
		return nil, errors.New("members file has no members")
	}

	items := make([]string, 0, list.Len())
	for _, member := range list.Items {
		items = append(items, member.Label())
	}

	selectPrompt := promptui.Select{
		Label: "Who are you?",
		Items: items,
	}

	idx, _, err := selectPrompt.Run()
	if err != nil {
		return nil, err
	}

	return list.Items[idx], nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "keep members whose name or offered skill contains the text")
	cmd.Flags().String("location", "", "keep members whose location contains the text")
	cmd.Flags().String("availability", "", "keep members available in the slot, e.g. Weekends")
	cmd.Flags().String("level", "", "keep members with a skill at the level (Beginner, Intermediate, Expert)")
	cmd.Flags().Float64("min-trust-score", 0, "drop members below the trust score")
	cmd.Flags().BoolP("include-swiped", "f", false, "do not exclude members already in the swipe history")
}

// filtersFromFlags overrides config filters with explicitly set flags.
func filtersFromFlags(cmd *cobra.Command, cfg *FiltersConfig) *FiltersConfig {
	merged := *cfg
	flags := cmd.Flags()

	if flags.Changed("search") {
		merged.Search, _ = flags.GetString("search")
	}
	if flags.Changed("location") {
		merged.Location, _ = flags.GetString("location")
	}
	if flags.Changed("availability") {
		merged.Availability, _ = flags.GetString("availability")
	}
	if flags.Changed("level") {
		merged.Level, _ = flags.GetString("level")
	}
	if flags.Changed("min-trust-score") {
		merged.MinTrustScore, _ = flags.GetFloat64("min-trust-score")
	}

	return &merged
}

func prepareFilters(cmd *cobra.Command, config *Config, current *members.Member, logger *zap.Logger) *filtering.Filtering {
	cfg := filtersFromFlags(cmd, config.Filters)

	ignoreSwipes := false
	if flag := cmd.Flag("include-swiped"); flag != nil {
		ignoreSwipes = strings.EqualFold(flag.Value.String(), "true")
	}

	steps := []filtering.Filter{
		filtering.NewExcludeSelf(current.ID, logger),
		filtering.NewSwipeHistory(&filtering.SwipeHistoryConfig{Path: config.SwipeFile, Ignore: ignoreSwipes}, logger),
		filtering.NewSearch(cfg.Search, logger),
		filtering.NewLocation(cfg.Location, logger),
		filtering.NewAvailability(cfg.Availability, logger),
		filtering.NewLevel(cfg.Level, logger),
		filtering.NewMinTrustScore(cfg.MinTrustScore, logger),
	}

	return filtering.New(steps, logger)
}

// candidates loads the directory, picks the current member and runs the filters.
func candidates(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (*members.Member, *members.Members, error) {
	store, err := members.Load(config.MembersFile)
	if err != nil {
		return nil, nil, err
	}

	current, err := currentMember(cmd, config, store)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting current member: %w", err)
	}

	logger.Info("selected member", zap.String("id", current.ID), zap.String("name", current.Name))

	others, err := prepareFilters(cmd, config, current, logger).RunFilters(ctx, store.List())
	if err != nil {
		return nil, nil, fmt.Errorf("filtering failed: %w", err)
	}

	return current, others, nil
}

func matchRequest(current *members.Member, others *members.Members) (*matching.MatchRequest, error) {
	return matching.NewMatchRequest(current.Profile(), others.Profiles())
}
