package cli

import (
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the published change-batch journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := st.ReadJournal()
			if err != nil {
				return writeErr(cmd, err)
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}
			return writeOut(cmd, app, map[string]any{"data": entries})
		},
	}

	cmd.Flags().IntVar(&last, "last", 0, "Show only the last N batches")
	return cmd
}
