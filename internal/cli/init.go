package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sortable-cli/internal/config"
	"sortable-cli/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a board (config + database) in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.storeDir()
			if err != nil {
				return writeErr(cmd, err)
			}

			b, err := config.Load(dir)
			if err != nil {
				b = config.Default()
				if err := config.Save(dir, b); err != nil {
					return writeErr(cmd, err)
				}
			}

			st := store.Store{Dir: dir}
			if !noSeed {
				seed := map[string][]string{}
				if _, ok := b.Find("todo"); ok {
					seed["todo"] = []string{"Sketch the layout", "Collect feedback", "Write the report"}
					seed["doing"] = []string{"Review the draft"}
				}
				if err := st.Seed(context.Background(), seed); err != nil {
					return writeErr(cmd, err)
				}
			} else if err := st.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":   dir,
				"lists": len(b.Lists),
			}})
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Skip demo items")
	return cmd
}
