package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rephind/rephind/internal/infrastructure/simindex"
)

func newIndexCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the similarity index",
	}
	cmd.AddCommand(newIndexBuildCommand(opts))
	return cmd
}

func newIndexBuildCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Embed the corpus and rebuild the similarity index",
		Long:  "Embeds every corpus claim, rebuilds the index and writes the snapshot.\nWith index.backend=chromem the vectors are also persisted to the\nconfigured chromem store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Index.Rebuild(cmd.Context()); err != nil {
				return err
			}
			idx, err := app.Index.Current()
			if err != nil {
				return err
			}

			if app.Cfg.Index.Backend == "chromem" {
				if _, err := simindex.NewChromemIndex(cmd.Context(),
					idx.IDs(), idx.Vectors(), idx.CorpusHash(), app.Cfg.Index.ChromemPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "chromem store written to %s\n", app.Cfg.Index.ChromemPath)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "index built: %d vectors, dimension %d\n",
				idx.Size(), idx.Dimension())
			return nil
		},
	}
}
