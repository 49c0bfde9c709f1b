package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the board's lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			type listRow struct {
				ID             string   `json:"id"`
				Title          string   `json:"title"`
				Items          int      `json:"items"`
				AllowedTargets []string `json:"allowedTargets"`
			}
			rows := make([]listRow, 0, len(b.Lists))
			for _, l := range b.Lists {
				items, err := st.ItemsForList(context.Background(), l.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				rows = append(rows, listRow{
					ID:             l.ID,
					Title:          l.DisplayTitle(),
					Items:          len(items),
					AllowedTargets: l.Targets(),
				})
			}

			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": rows})
			}

			table := uitable.New()
			table.MaxColWidth = 40
			table.AddRow("ID", "TITLE", "ITEMS", "SENDS TO")
			for _, r := range rows {
				table.AddRow(r.ID, r.Title, r.Items, strings.Join(r.AllowedTargets, ","))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")
	return cmd
}
