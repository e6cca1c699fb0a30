package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	croissant "github.com/PGijsbers/croissant"
	"github.com/PGijsbers/croissant/internal/ctxlog"
)

var loadCmd = &cobra.Command{
	Use:   "load FILE",
	Short: "Materialize the records of one record set",
	Long: `Load validates the metadata document, compiles the operation graph for
the requested record set, executes it and prints the records as JSON lines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromFlags(cmd)
		ctx := ctxlog.WithLogger(cmd.Context(), logger)

		recordSet, _ := cmd.Flags().GetString("record-set")
		numRecords, _ := cmd.Flags().GetInt("num-records")
		if recordSet == "" {
			return fmt.Errorf("--record-set is required")
		}

		dataset, err := croissant.Load(ctx, args[0])
		if err != nil {
			return err
		}
		records, err := dataset.Records(ctx, recordSet)
		if err != nil {
			return err
		}

		printed := 0
		for records.Next() {
			if numRecords >= 0 && printed >= numRecords {
				break
			}
			line, err := json.Marshal(records.Record())
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(line))
			printed++
		}
		if err := records.Err(); err != nil {
			return err
		}
		logger.Info("Done.", "records", printed)
		return nil
	},
}

func init() {
	loadCmd.Flags().String("record-set", "", "Name of the record set to materialize")
	loadCmd.Flags().Int("num-records", -1, "Maximum number of records to print, -1 for all")
	rootCmd.AddCommand(loadCmd)
}
