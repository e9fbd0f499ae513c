package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitline/internal/engine"
	"habitline/internal/ui"
)

func newAddCmd() *cobra.Command {
	var rule string
	var negative bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Long:  "Add a habit. The rule is 'daily', 'weekly' or a custom interval like '3d'.\nPass --negative for habits you want to avoid (slips break the streak).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := engine.ParseRule(rule)
			if err != nil {
				return err
			}
			polarity := engine.PolarityPositive
			if negative {
				polarity = engine.PolarityNegative
			}

			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := svc.CreateHabit(ctx, engine.CreateHabitInput{
				Name:     args[0],
				Polarity: polarity,
				Rule:     r,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s #%d\n",
				ui.PolarityIcon(negative), ui.Key.Render(h.Name),
				ui.Muted.Render("("+r.String()+")"), h.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "daily", "Periodicity (daily|weekly|<n>d)")
	cmd.Flags().BoolVarP(&negative, "negative", "n", false, "Track a habit to avoid instead of build")
	return cmd
}
