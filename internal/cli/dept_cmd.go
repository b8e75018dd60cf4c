package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/cli/formatter"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/drag"
	"github.com/41rumble/crew-planner/internal/service"
	"github.com/spf13/cobra"
)

func newDeptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dept",
		Aliases: []string{"department"},
		Short:   "Add and reshape departments",
	}

	cmd.AddCommand(
		newDeptAddCmd(app),
		newDeptTimeframeCmd(app),
		newDeptRampCmd(app),
		newDeptDragCmd(app),
	)

	return cmd
}

func newDeptAddCmd(app *App) *cobra.Command {
	var (
		maxCrew    int
		start, end string
		up, down   int
		rate       float64
		phase      int
	)

	cmd := &cobra.Command{
		Use:   "add REF NAME",
		Short: "Add a department with a generated crew curve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := app.Timelines.Get(ctx, args[0])
			if err != nil {
				return err
			}

			req := service.AddDepartmentRequest{
				Name:     args[1],
				MaxCrew:  maxCrew,
				RampUp:   up,
				RampDown: down,
			}
			if req.StartMonth, err = resolveMonth(t, "start", start); err != nil {
				return err
			}
			if end == "" {
				req.EndMonth = t.MonthCount() - 1
			} else if req.EndMonth, err = resolveMonth(t, "end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("rate") {
				req.Rate = &rate
			}
			if cmd.Flags().Changed("phase") {
				// Phases are numbered from 1 on the command line.
				req.Phase = domain.IntPtr(phase - 1)
			}

			res, err := app.Edits.AddDepartment(ctx, t.ID, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDepartmentChange(res.Timeline, res.Department, res.RampsAdjusted))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxCrew, "max", 0, "Full-crew headcount (required)")
	cmd.Flags().StringVar(&start, "start", "0", "First month (index or label)")
	cmd.Flags().StringVar(&end, "end", "", "Last month (index or label, default last month)")
	cmd.Flags().IntVar(&up, "up", 0, "Ramp-up months")
	cmd.Flags().IntVar(&down, "down", 0, "Ramp-down months")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Monthly rate per crew member (default by name)")
	cmd.Flags().IntVar(&phase, "phase", 0, "Phase number to group under (1-based)")
	_ = cmd.MarkFlagRequired("max")

	return cmd
}

func newDeptTimeframeCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "timeframe REF DEPT",
		Short: "Move a department's start and end months",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := app.Timelines.Get(ctx, args[0])
			if err != nil {
				return err
			}
			s, err := resolveMonth(t, "start", start)
			if err != nil {
				return err
			}
			e, err := resolveMonth(t, "end", end)
			if err != nil {
				return err
			}

			res, err := app.Edits.SetTimeframe(ctx, t.ID, args[1], s, e)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDepartmentChange(res.Timeline, res.Department, res.RampsAdjusted))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First month (index or label)")
	cmd.Flags().StringVar(&end, "end", "", "Last month (index or label)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newDeptRampCmd(app *App) *cobra.Command {
	var up, down int

	cmd := &cobra.Command{
		Use:   "ramp REF DEPT",
		Short: "Set a department's ramp-up and ramp-down durations",
		Long: `Set ramp durations in months. Ramps that would leave no full-crew
month are shortened. Without --up or --down an interactive terminal
shows a form prefilled with the current values.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			upSet, downSet := cmd.Flags().Changed("up"), cmd.Flags().Changed("down")

			t, err := app.Timelines.Get(ctx, args[0])
			if err != nil {
				return err
			}
			idx, ok := lookupDepartment(t, args[1])
			if !ok {
				return fmt.Errorf("department %q not found in %q", args[1], t.Name)
			}
			d := t.Departments[idx]
			if !upSet {
				up = d.RampUpDuration
			}
			if !downSet {
				down = d.RampDownDuration
			}

			if !upSet && !downSet {
				if !app.Interactive {
					return fmt.Errorf("--up or --down is required when not running interactively")
				}
				if up, down, err = runRampForm(d.Name, up, down); err != nil {
					return err
				}
			}

			res, err := app.Edits.SetRamps(ctx, t.ID, args[1], up, down)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDepartmentChange(res.Timeline, res.Department, res.RampsAdjusted))
			return nil
		},
	}

	cmd.Flags().IntVar(&up, "up", 0, "Ramp-up months")
	cmd.Flags().IntVar(&down, "down", 0, "Ramp-down months")

	return cmd
}

func newDeptDragCmd(app *App) *cobra.Command {
	var (
		handle boundaryFlag
		to     string
		via    []string
	)

	cmd := &cobra.Command{
		Use:   "drag REF DEPT",
		Short: "Drag a department's start or end handle to another month",
		Long: `Replay a drag of the start or end handle through the --via months and
release it on --to. The ramp on the dragged side is rescaled to the new
timeframe. Months that would cross the other handle are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if handle.value == "" {
				return errors.New("--handle is required (start or end)")
			}

			t, err := app.Timelines.Get(ctx, args[0])
			if err != nil {
				return err
			}
			path, err := monthIndexes(t, "via", via)
			if err != nil {
				return err
			}
			target, err := resolveMonth(t, "to", to)
			if err != nil {
				return err
			}
			path = append(path, target)

			res, outcome, err := app.Edits.Drag(ctx, t.ID, args[1], handle.value, drag.MoveThrough(path...))
			if err != nil {
				return err
			}
			if outcome != drag.OutcomeCommitted {
				fmt.Fprintf(cmd.OutOrStdout(), "Drag %s, nothing changed\n", outcome)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDepartmentChange(res.Timeline, res.Department, false))
			return nil
		},
	}

	cmd.Flags().Var(&handle, "handle", "Handle to drag (start or end)")
	cmd.Flags().StringVar(&to, "to", "", "Month to release on (index or label)")
	cmd.Flags().StringSliceVar(&via, "via", nil, "Months to pass through before release")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// lookupDepartment finds a department by case-insensitive name or by its
// 1-based position.
func lookupDepartment(t *domain.Timeline, ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if idx, ok := t.DepartmentIndex(ref); ok {
		return idx, true
	}
	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= len(t.Departments) {
		return pos - 1, true
	}
	return -1, false
}
