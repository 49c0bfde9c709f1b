package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and edit a list's items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <list-id>",
		Short: "Show a list's items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			listID := strings.TrimSpace(args[0])
			if _, ok := b.Find(listID); !ok {
				return writeErr(cmd, errNotFound("list", listID))
			}

			ctx := context.Background()
			items, err := st.ItemsForList(ctx, listID)
			if err != nil {
				return writeErr(cmd, err)
			}
			attached, err := st.AttachmentCounts(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": items})
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("POS", "ID", "TITLE", "ATTACHED")
			for _, it := range items {
				table.AddRow(it.Position, it.ID, it.Title, attached[it.ID])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <list-id> <title...>",
		Short: "Append an item to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			listID := strings.TrimSpace(args[0])
			if _, ok := b.Find(listID); !ok {
				return writeErr(cmd, errNotFound("list", listID))
			}

			it, err := st.AddItem(context.Background(), listID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete an item (and anything attached onto it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := st.RemoveItem(context.Background(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": id}})
		},
	}
	return cmd
}
