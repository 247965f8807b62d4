package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rephind/rephind/internal/application/search"
)

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var (
		topK      int
		country   string
		yearFrom  int
		yearTo    int
		applicant string
		minScore  float64
	)

	cmd := &cobra.Command{
		Use:   "search <claim text>",
		Short: "Find the corpus patents most similar to a claim",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			results, err := app.Search.Search(cmd.Context(), search.Request{
				QueryText: strings.Join(args, " "),
				TopK:      topK,
				Filters: search.Filters{
					CountryCode: country,
					YearFrom:    yearFrom,
					YearTo:      yearTo,
					Applicant:   applicant,
					MinScore:    minScore,
				},
			})
			if err != nil {
				return err
			}

			return opts.printResult(results, func() {
				out := cmd.OutOrStdout()
				for i, r := range results {
					fmt.Fprintf(out, "%2d. [%6.2f] %s  %s (%s, %d)\n",
						i+1, r.SimilarityScore, r.PatentID, r.Title, r.Applicant, r.ApplicationYear)
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "no matches")
				}
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&topK, "top-k", "k", 0, "number of results (default 10)")
	f.StringVar(&country, "country", "", "filter by country code")
	f.IntVar(&yearFrom, "year-from", 0, "filter by minimum application year")
	f.IntVar(&yearTo, "year-to", 0, "filter by maximum application year")
	f.StringVar(&applicant, "applicant", "", "filter by applicant substring")
	f.Float64Var(&minScore, "min-score", 0, "minimum similarity score")
	return cmd
}
