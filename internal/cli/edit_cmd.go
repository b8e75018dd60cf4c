package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit REF",
		Short: "Open the interactive timeline editor",
		Long: `Open a timeline in the terminal editor.

Select a department with ↑/↓, grab its start or end handle with [ or ],
move it with ←/→ and release with enter. The crew curve is previewed while
the handle moves and saved when it is released. esc drops the handle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return errors.New("edit needs an interactive terminal")
			}
			t, err := app.Timelines.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(newEditorModel(app, t),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(editorModel); ok && m.saveErr != nil {
				return m.saveErr
			}
			return nil
		},
	}
}
