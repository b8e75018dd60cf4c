package cli

import (
	"context"
	"fmt"

	"github.com/41rumble/crew-planner/internal/cli/formatter"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/spf13/cobra"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage timeline phases",
	}

	cmd.AddCommand(newPhaseAddCmd(app))

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "add REF NAME",
		Short: "Add a phase spanning a month range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := app.Timelines.Get(ctx, args[0])
			if err != nil {
				return err
			}

			p := domain.Phase{Name: args[1]}
			if p.StartMonth, err = resolveMonth(t, "start", start); err != nil {
				return err
			}
			if end == "" {
				p.EndMonth = t.MonthCount() - 1
			} else if p.EndMonth, err = resolveMonth(t, "end", end); err != nil {
				return err
			}

			updated, err := app.Edits.AddPhase(ctx, t.ID, p)
			if err != nil {
				return err
			}
			n := len(updated.Phases)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added phase %d %s  %s\n",
				formatter.StyleGreen.Render("✔"), n, formatter.Bold(updated.Phases[n-1].Name),
				formatter.MonthSpan(updated, p.StartMonth, p.EndMonth))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "0", "First month (index or label)")
	cmd.Flags().StringVar(&end, "end", "", "Last month (index or label, default last month)")

	return cmd
}
