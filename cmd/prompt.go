package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/logger"
	"github.com/spigell/skillswap/internal/matching/gemini"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the ranking prompt without sending it",
	Run: func(cmd *cobra.Command, _ []string) {
		printPrompt(cmd)
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	addUserFlag(promptCmd)
	addFilterFlags(promptCmd)
}

func printPrompt(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	current, others, err := candidates(context.Background(), cmd, config, logger)
	if err != nil {
		logger.Fatal("preparing candidates", zap.Error(err))
	}

	req, err := matchRequest(current, others)
	if err != nil {
		logger.Fatal("building match request", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), gemini.BuildPrompt(req))
}
