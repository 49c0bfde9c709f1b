package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sortable-cli/internal/model"
	"sortable-cli/internal/store"
)

func newApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [batch.json]",
		Short: "Journal and apply a change batch (reads stdin when no file given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := loadBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var raw []byte
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			var batch model.ChangeBatch
			if err := json.Unmarshal(raw, &batch); err != nil {
				return writeErr(cmd, err)
			}

			sink := store.BatchSink{Store: st}
			if err := sink.Publish(batch); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"applied": len(batch)}})
		},
	}
	return cmd
}
