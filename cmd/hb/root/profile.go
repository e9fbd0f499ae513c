package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"habitline/internal/ui"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}
	cmd.AddCommand(
		newProfileCreateCmd(),
		newProfileListCmd(),
		newProfileSwitchCmd(),
		newProfileDeleteCmd(),
	)
	return cmd
}

func newProfileCreateCmd() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a profile and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cfg, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tz := timezone
			if tz == "" {
				tz = cfg.DefaultTimezone
			}
			p, err := svc.CreateProfile(ctx, args[0], tz)
			if err != nil {
				return err
			}
			if _, err := svc.SwitchProfile(ctx, p.Username); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Profile %s created (timezone %s) and activated.\n",
				ui.IconProfile, ui.Key.Render(p.Username), p.Timezone)
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "tz", "", "IANA timezone for the profile (default from config)")
	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			profiles, err := svc.Profiles(ctx)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No profiles yet. Create one with 'hb profile create <name>'."))
				return nil
			}
			active, err := svc.ActiveProfile(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconProfile, "Profiles"))
			for i := range profiles {
				marker := "  "
				if active != nil && active.ID == profiles[i].ID {
					marker = ui.Good.Render("* ")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", marker, profiles[i].Username,
					ui.Muted.Render("("+profiles[i].Timezone+")"))
			}
			return nil
		},
	}
}

func newProfileSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <username>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.SwitchProfile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Switched to %s.\n", ui.IconProfile, ui.Key.Render(p.Username))
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a profile and all of its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes (this removes the profile's habits and history)")
			}
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s deleted.\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
