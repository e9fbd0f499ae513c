package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/ui"
)

func newSlipCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "slip <habit>",
		Short: "Record an infraction for a negative habit",
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
			if h.Polarity == string(engine.PolarityPositive) {
				return fmt.Errorf("%q is a positive habit; log completions with 'hb done'", h.Name)
			}

			when, err := parseAt(at)
			if err != nil {
				return err
			}
			res, err := svc.LogEvent(ctx, h.ID, when)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Slip recorded for %s. Streak reset to %d.\n",
				ui.IconSlip, ui.Key.Render(res.HabitName), res.Streak.Current)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Backdate the slip (RFC 3339 or YYYY-MM-DD)")
	return cmd
}
