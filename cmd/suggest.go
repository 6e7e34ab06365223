package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/logger"
	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/report"
)

const rankingFailedNotice = "Could not get suggestions right now. Please try again."

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest members to trade skills with",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return suggest(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	addUserFlag(suggestCmd)
	addFilterFlags(suggestCmd)
	suggestCmd.Flags().StringP("ranker", "r", "", "ranker to use: gemini or local (default is gemini)")
	suggestCmd.Flags().StringP("output", "o", "", "output format: text or json")

	viper.BindPFlag("ranker", suggestCmd.Flags().Lookup("ranker"))
	viper.BindPFlag("output", suggestCmd.Flags().Lookup("output"))
}

func suggest(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	logger.Debug("starting the skillswap", zap.String("version", version), zap.String("ranker", config.Ranker))

	ranker, err := newRanker(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("building ranker: %w", err)
	}

	current, others, err := candidates(ctx, cmd, config, logger)
	if err != nil {
		return fmt.Errorf("preparing candidates: %w", err)
	}

	req, err := matchRequest(current, others)
	if err != nil {
		return fmt.Errorf("building match request: %w", err)
	}

	logger.Info("ranking candidates", zap.Int("count", len(req.OtherUsers)))

	return rankAndReport(ctx, cmd, ranker, req, config.Output)
}

// rankAndReport writes the suggestions to the command output. A ranking service failure prints
// a generic notice on the error output; the cause is only in the returned error.
func rankAndReport(ctx context.Context, cmd *cobra.Command, ranker matching.Ranker, req *matching.MatchRequest, format string) error {
	resp, err := ranker.Rank(ctx, req)
	if err != nil {
		var schemaErr *matching.SchemaValidationError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("invalid match request: %w", err)
		}

		fmt.Fprintln(cmd.ErrOrStderr(), rankingFailedNotice)
		return fmt.Errorf("ranking failed: %w", err)
	}

	if err := report.Write(cmd.OutOrStdout(), format, resp); err != nil {
		return fmt.Errorf("writing suggestions: %w", err)
	}

	return nil
}
