package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/ui"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load four weeks of demo habits into the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Seed(ctx, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d habits with %d events.\n",
				ui.IconSeed, res.HabitsCreated, res.EventsLogged)
			return nil
		},
	}
}
