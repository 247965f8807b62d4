package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			stats, err := app.Search.Stats(cmd.Context())
			if err != nil {
				return err
			}

			return opts.printResult(stats, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "patents:          %d\n", stats.TotalPatents)
				fmt.Fprintf(out, "avg claim length: %.0f chars\n", stats.AvgClaimLength)

				fmt.Fprintln(out, "\ncountries:")
				for _, k := range sortedKeys(stats.Countries) {
					fmt.Fprintf(out, "  %-6s %d\n", k, stats.Countries[k])
				}

				fmt.Fprintln(out, "\nproduct groups:")
				for _, k := range sortedKeys(stats.ProductGroups) {
					fmt.Fprintf(out, "  %-12s %d\n", k, stats.ProductGroups[k])
				}

				fmt.Fprintln(out, "\ntop applicants:")
				for _, a := range stats.TopApplicants {
					fmt.Fprintf(out, "  %-30s %d\n", a.Applicant, a.Count)
				}
			})
		},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
