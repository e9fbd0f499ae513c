package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show profile progress: XP, level and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.ActiveProfile(ctx)
			if err != nil {
				return err
			}
			if p == nil {
				return engine.ErrNoActiveProfile
			}
			progress, err := svc.Progress(ctx)
			if err != nil {
				return err
			}
			statuses, err := svc.HabitStatuses(ctx, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status — "+p.Username))
			fmt.Fprintln(out, ui.LabelValue("Level", progress.Level))
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (%d into level, %d to next)",
				progress.TotalXP, progress.IntoLevel, progress.ToNext)))
			fmt.Fprintln(out, ui.LabelValue("Completions", progress.Completions))
			fmt.Fprintln(out, ui.LabelValue("Milestones", fmt.Sprintf("%d %s", progress.Milestones, ui.IconTrophy)))
			fmt.Fprintln(out, "")

			if len(statuses) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No habits yet."))
				return nil
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconFlame+" Streaks"))
			for _, st := range statuses {
				printStatusLine(cmd, st)
			}
			return nil
		},
	}
}
