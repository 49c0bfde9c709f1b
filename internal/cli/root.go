package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sortable-cli/internal/config"
	"sortable-cli/internal/format"
	"sortable-cli/internal/store"
	"sortable-cli/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sortable",
		Short:        "Drag-and-drop ordered lists (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a board with demo lists, then open it
  sortable init
  sortable

  # Scriptable commands
  sortable lists
  sortable items list todo
  sortable items add todo "Write the report"

  # Apply a change batch by hand (same workflow the board runs on drop)
  sortable apply batch.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runBoard(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SORTABLE_DIR", ""), "Path to board dir (default: discover .sortable upward from cwd)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newLogCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func (app *App) storeDir() (string, error) {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir, nil
	}
	return store.DefaultDir()
}

// loadBoard resolves the store dir and board config for a command.
func loadBoard(app *App) (config.Board, store.Store, error) {
	dir, err := app.storeDir()
	if err != nil {
		return config.Board{}, store.Store{}, err
	}
	b, err := config.Load(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Board{}, store.Store{}, fmt.Errorf("no board found in %s (run `sortable init` first)", dir)
		}
		return config.Board{}, store.Store{}, err
	}
	return b, store.Store{Dir: dir}, nil
}

func runBoard(app *App) error {
	b, st, err := loadBoard(app)
	if err != nil {
		return err
	}
	return tui.Run(b, st)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
