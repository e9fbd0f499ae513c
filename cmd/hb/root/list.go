package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/ui"
)

func newListCmd() *cobra.Command {
	var rule string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks and due state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			statuses, err := svc.HabitStatuses(ctx, time.Now())
			if err != nil {
				return err
			}
			if rule != "" {
				parsed, err := engine.ParseRule(rule)
				if err != nil {
					return err
				}
				filtered := statuses[:0]
				for _, st := range statuses {
					if st.Rule.Kind == parsed.Kind {
						filtered = append(filtered, st)
					}
				}
				statuses = filtered
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No habits. Add one with 'hb add <name>'."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconHabit, "Habits"))
			for _, st := range statuses {
				printStatusLine(cmd, st)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Only habits with this rule (daily|weekly|<n>d)")
	return cmd
}

func printStatusLine(cmd *cobra.Command, st engine.HabitStatus) {
	negative := st.Habit.Polarity == string(engine.PolarityNegative)
	state := ui.DueText(st.Due)
	if negative {
		state = ui.Good.Render("clean")
		if !st.Streak.LastPeriodSatisfied && st.Streak.Current == 0 {
			state = ui.Bad.Render("slipped")
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s #%-3d %-24s %-10s %s%d  %s\n",
		ui.PolarityIcon(negative), st.Habit.ID, st.Habit.Name,
		ui.Muted.Render(st.Rule.String()), ui.IconFlame, st.Streak.Current, state)
}
