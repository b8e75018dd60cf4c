package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/41rumble/crew-planner/internal/cli/formatter"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/service"
	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"tl"},
		Short:   "Create, import and export timelines",
	}

	cmd.AddCommand(
		newTimelineNewCmd(app),
		newTimelineListCmd(app),
		newTimelineShowCmd(app),
		newTimelineRemoveCmd(app),
		newTimelineImportCmd(app),
		newTimelineExportCmd(app),
	)

	return cmd
}

func newTimelineNewCmd(app *App) *cobra.Command {
	var (
		startYear  int
		startMonth string
		months     int
		sample     bool
	)

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseStartMonth(startMonth)
			if err != nil {
				return err
			}

			t, err := app.Timelines.Create(context.Background(), service.CreateTimelineRequest{
				Name:       args[0],
				StartYear:  startYear,
				StartMonth: month,
				MonthCount: months,
				Sample:     sample,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created timeline %s (%s)\n", formatter.Bold(t.Name), formatter.TruncID(t.ID))
			if t.MonthCount() > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatter.Dim(formatter.MonthSpan(t, 0, t.MonthCount()-1)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&startYear, "start-year", time.Now().Year(), "Year of the first month")
	cmd.Flags().StringVar(&startMonth, "start-month", "Jan", "First month (1-12 or Jan-Dec)")
	cmd.Flags().IntVar(&months, "months", 36, "Number of months")
	cmd.Flags().BoolVar(&sample, "sample", false, "Seed sample phases and departments")

	return cmd
}

// parseStartMonth accepts 1-12 or a month name and returns 0-11.
func parseStartMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("--start-month %d must be 1-12", n)
		}
		return n - 1, nil
	}
	for i, abbrev := range domain.MonthAbbrevs {
		if len(s) >= 3 && strings.EqualFold(s[:3], abbrev) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("--start-month %q is not a month", s)
}

func newTimelineListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timelines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Timelines.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimelineList(list))
			return nil
		},
	}
}

func newTimelineShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show REF",
		Short: "Show a timeline's phases, departments and crew grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Timelines.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTimeline(t))
			return nil
		},
	}
}

func newTimelineRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove REF",
		Aliases: []string{"rm"},
		Short:   "Delete a timeline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Timelines.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed timeline %s\n", args[0])
			return nil
		},
	}
}

func newTimelineImportCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV table or JSON project file",
		Long: `Import a timeline from a file.

Files ending in .json are read as project files; anything else is read as
a CSV table with a year row, a month row and one row per phase or
department. Table crew counts are kept as imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportFile(context.Background(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportSummary(res.Timeline, res.AuthoritativeRows))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Timeline name (defaults to the file name)")

	return cmd
}

func newTimelineExportCmd(app *App) *cobra.Command {
	var (
		format formatFlag
		output string
	)

	cmd := &cobra.Command{
		Use:   "export REF",
		Short: "Export a timeline as a CSV table or JSON project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := context.Background()
			if output == "" || output == "-" {
				return app.Timelines.Export(ctx, args[0], format.value, cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer func() {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("closing %s: %w", output, cerr)
				}
			}()

			if err := app.Timelines.Export(ctx, args[0], format.value, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().Var(&format, "format", "Output format (csv, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to FILE instead of stdout")

	return cmd
}
