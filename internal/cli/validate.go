package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	croissant "github.com/PGijsbers/croissant"
	"github.com/PGijsbers/croissant/internal/ctxlog"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a Croissant metadata document",
	Long: `Validate parses the metadata document, builds the structure graph and
reports every validation issue at once. The exit code is non-zero when the
document is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromFlags(cmd)
		ctx := ctxlog.WithLogger(cmd.Context(), logger)

		_, err := croissant.Load(ctx, args[0])
		var validationErr *croissant.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), validationErr.Error())
			return fmt.Errorf("found %d validation issue(s)", len(validationErr.Issues))
		}
		if err != nil {
			return err
		}
		logger.Info("Done.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
