package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/ui"
)

func newDoneCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "done <habit>",
		Short: "Log a completion for a positive habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := svc.HabitByRef(ctx, args[0])
			if err != nil {
				return err
			}
			if h.Polarity == string(engine.PolarityNegative) {
				return fmt.Errorf("%q is a negative habit; record infractions with 'hb slip'", h.Name)
			}

			when, err := parseAt(at)
			if err != nil {
				return err
			}
			res, err := svc.LogEvent(ctx, h.ID, when)
			if err != nil {
				return err
			}
			printLogResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Backdate the completion (RFC 3339 or YYYY-MM-DD)")
	return cmd
}

func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", at); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse --at %q (want RFC 3339 or YYYY-MM-DD)", at)
}

func printLogResult(cmd *cobra.Command, res *engine.LogResult) {
	icon := ui.IconDone
	if res.Polarity == engine.PolarityNegative {
		icon = ui.IconSlip
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s%d", icon, ui.Key.Render(res.HabitName), ui.IconFlame, res.Streak.Current)
	if res.XPAwarded > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s", ui.Good.Render(fmt.Sprintf("+%d XP", res.XPAwarded)))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	for _, key := range res.NewMilestones {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s streak of %d!\n", ui.IconTrophy, ui.BadgeMilestone, key.Target)
	}
	if res.LevelUp {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s You reached level %d!\n", ui.IconSparkle, ui.BadgeLevelUp, res.LevelAfter)
	}
}
