package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/skillswap/internal/matching"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a match request JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateRequest(cmd, args[0])
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRequest(cmd *cobra.Command, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	req, err := matching.DecodeMatchRequest(file)
	if err != nil {
		var schemaErr *matching.SchemaValidationError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("%s: %w", path, schemaErr)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid request for %s with %d candidates\n", path, req.CurrentUser.Name, len(req.OtherUsers))
	return nil
}
