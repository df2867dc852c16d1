package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/report"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <database>",
		Short: "Print the runs stored in a recording database.",
		Long: "Every run is printed as `run, trace, nsets, bsize, assoc, subst, ` " +
			"followed by the compact statistics line.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			reader.MapTable(trace.RunTable, trace.RunEntry{})

			results, _, err := reader.Query(cmd.Context(), trace.RunTable,
				datarecording.QueryParams{OrderBy: "rowid"})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				run := r.(*trace.RunEntry)

				fmt.Fprintf(out, "%s, %s, %d, %d, %d, %s, ",
					run.RunID, run.TraceFile, run.NumSets, run.BlockSize,
					run.Associativity, run.Policy)

				err = report.WriteCompact(out, run.Stats())
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}
