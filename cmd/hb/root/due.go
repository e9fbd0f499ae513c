package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitline/internal/ui"
)

func newDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List habits still due in the current period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			due, err := svc.DueToday(ctx, time.Now())
			if err != nil {
				return err
			}
			if len(due) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("All caught up! Nothing due right now."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconDue, "Due"))
			for i := range due {
				fmt.Fprintf(cmd.OutOrStdout(), "- #%d %s\n", due[i].ID, due[i].Name)
			}
			return nil
		},
	}
}
