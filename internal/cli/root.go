package cli

import (
	"github.com/41rumble/crew-planner/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Timelines service.TimelineService
	Imports   service.ImportService
	Edits     service.EditService

	// Interactive reports whether stdin is a terminal. Forms and the editor
	// are only offered when it is true.
	Interactive bool

	// PreviewGlyph marks previewed cells in the editor grid.
	PreviewGlyph string
}

// NewRootCmd creates the top-level "crewplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "crewplan",
		Short:         "Crew staffing timelines for production planning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTimelineCmd(app),
		newPhaseCmd(app),
		newDeptCmd(app),
		newEditCmd(app),
	)

	return root
}
