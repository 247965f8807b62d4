package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var patentID string

	cmd := &cobra.Command{
		Use:   "compare <claim text>",
		Short: "Compare a claim against one corpus patent, field by field",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			cmp, err := app.Compare.Compare(cmd.Context(), strings.Join(args, " "), patentID)
			if err != nil {
				return err
			}

			return opts.printResult(cmp, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "candidate:      %s (%s)\n", cmp.CandidateID, cmp.CandidateClassification)
				fmt.Fprintf(out, "query class:    %s\n", cmp.QueryClassification)
				fmt.Fprintf(out, "overall score:  %.2f\n\n", cmp.OverallScore)

				fmt.Fprintf(out, "%-16s %-28s %-24s %-24s %s\n",
					"CATEGORY", "FIELD", "QUERY", "CANDIDATE", "MATCH")
				for _, row := range cmp.Rows {
					match := "-"
					if row.MatchPercent != nil {
						match = fmt.Sprintf("%.1f%%", *row.MatchPercent)
					}
					fmt.Fprintf(out, "%-16s %-28s %-24s %-24s %s\n",
						row.Category, row.Field, row.QueryValue, row.CandidateValue, match)
				}

				fmt.Fprintf(out, "\ncomposition:    %.2f\n", cmp.Aggregates.Composition)
				fmt.Fprintf(out, "microstructure: %.2f\n", cmp.Aggregates.Microstructure)
				fmt.Fprintf(out, "property:       %.2f\n", cmp.Aggregates.Property)
				fmt.Fprintf(out, "classification: %.2f\n", cmp.Aggregates.Classification)
			})
		},
	}

	cmd.Flags().StringVar(&patentID, "id", "", "corpus patent ID to compare against (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}
