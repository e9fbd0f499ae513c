package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/storage"
	"habitline/internal/ui"
)

func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Analyze habit history",
	}
	cmd.AddCommand(
		newAnalyticsLongestCmd(),
		newAnalyticsHabitsCmd(),
	)
	return cmd
}

func newAnalyticsLongestCmd() *cobra.Command {
	var habitRef string

	cmd := &cobra.Command{
		Use:   "longest",
		Short: "Longest streak, overall or for one habit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now()
			if habitRef != "" {
				h, err := svc.HabitByRef(ctx, habitRef)
				if err != nil {
					return err
				}
				length, err := svc.LongestForHabit(ctx, h.ID, now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Longest streak for %s: %s\n",
					ui.IconFlame, ui.Key.Render(h.Name), ui.Good.Render(fmt.Sprintf("%d", length)))
				return nil
			}

			best, err := svc.LongestOverall(ctx, now)
			if err != nil {
				return err
			}
			if best.Length == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No streaks yet."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Longest streak: %s by %s\n",
				ui.IconFlame, ui.Good.Render(fmt.Sprintf("%d", best.Length)), ui.Key.Render(best.HabitName))
			return nil
		},
	}

	cmd.Flags().StringVar(&habitRef, "habit", "", "Restrict to one habit (id or name)")
	return cmd
}

func newAnalyticsHabitsCmd() *cobra.Command {
	var rule string

	cmd := &cobra.Command{
		Use:   "habits",
		Short: "List tracked habits, optionally by rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var habits []storage.Habit
			if rule != "" {
				parsed, err := engine.ParseRule(rule)
				if err != nil {
					return err
				}
				habits, err = svc.FilteredHabits(ctx, parsed.Kind)
				if err != nil {
					return err
				}
			} else {
				habits, err = svc.Habits(ctx)
				if err != nil {
					return err
				}
			}

			if len(habits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No habits match."))
				return nil
			}
			for i := range habits {
				r := engine.Rule{Kind: engine.RuleKind(habits[i].Periodicity), IntervalDays: habits[i].IntervalDays}
				fmt.Fprintf(cmd.OutOrStdout(), "- #%d %s %s\n", habits[i].ID, habits[i].Name, ui.Muted.Render("("+r.String()+")"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Only habits with this rule (daily|weekly|<n>d)")
	return cmd
}
