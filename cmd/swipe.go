package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/logger"
	"github.com/spigell/skillswap/internal/members"
)

const (
	PromptConnect = "Connect"
	PromptPass    = "Pass"
	PromptSkip    = "Skip"
	PromptStop    = "Stop"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Go through candidates and connect or pass",
	Run: func(cmd *cobra.Command, _ []string) {
		swipe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(swipeCmd)

	addUserFlag(swipeCmd)
	addFilterFlags(swipeCmd)
}

func swipe(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if strings.TrimSpace(config.SwipeFile) == "" {
		logger.Fatal("swipe file is required", zap.String("hint", "set swipe-file in the config or pass --swipe-file"))
	}

	_, others, err := candidates(context.Background(), cmd, config, logger)
	if err != nil {
		logger.Fatal("preparing candidates", zap.Error(err))
	}

	if others.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no members left after filters"))
		return
	}

	history, err := members.LoadSwipes(config.SwipeFile)
	if err != nil {
		logger.Fatal("loading swipe history", zap.Error(err))
	}

	for _, member := range others.Items {
		action, err := askAction(member)
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptStop {
			break
		}
		if action == PromptSkip {
			continue
		}

		history.Append(members.NewSwipe(member.ID, members.Action(strings.ToLower(action))))
		if err := history.ToFile(config.SwipeFile); err != nil {
			logger.Fatal("saving swipe history", zap.Error(err))
		}

		logger.Info("swiped", zap.String("member_id", member.ID), zap.String("action", strings.ToLower(action)))
	}

	logger.Info("swipe history saved", zap.String("filename", config.SwipeFile), zap.Int("count", history.Len()))
}

func askAction(member *members.Member) (string, error) {
	offers := make([]string, 0, len(member.SkillsOffered))
	for _, skill := range member.SkillsOffered {
		offers = append(offers, fmt.Sprintf("%s (%s)", skill.Name, skill.Level))
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("%s, %s, trust %.1f, offers %s", member.Name, member.Location, member.TrustScore, strings.Join(offers, ", ")),
		Items: []string{PromptConnect, PromptPass, PromptSkip, PromptStop},
	}

	_, action, err := prompt.Run()
	return action, err
}
