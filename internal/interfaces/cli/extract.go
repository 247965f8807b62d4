package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rephind/rephind/internal/domain/claim"
)

func newExtractCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <claim text>",
		Short: "Extract structured attributes from claim text",
		Long:  "Parses composition ranges, microstructure fractions, mechanical\nproperties and the steel classification out of claim prose.  Runs\nlocally without the corpus or the embedding model.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			attrs := claim.NewExtractor().Extract(text, nil)

			type entry struct {
				Key      string `json:"key"`
				Category string `json:"category"`
				Value    string `json:"value"`
			}
			entries := make([]entry, 0, attrs.Len())
			for key, vr := range attrs.Values {
				entries = append(entries, entry{
					Key:      key,
					Category: string(claim.CategoryOf(key)),
					Value:    vr.String(),
				})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

			result := struct {
				Classification string  `json:"classification"`
				Attributes     []entry `json:"attributes"`
			}{attrs.Classification, entries}

			return opts.printResult(result, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "classification: %s\n", result.Classification)
				for _, e := range entries {
					fmt.Fprintf(out, "%-16s %-28s %s\n", e.Category, e.Key, e.Value)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "no numeric attributes found")
				}
			})
		},
	}
}
