package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habitline/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "hb",
	Short:         "Habitline — local-first habit tracker with streaks and XP",
	Long:          "Habitline is a local-first CLI/TUI habit tracker: build (or break) habits,\nkeep streaks alive and earn XP and milestones along the way.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newProfileCmd(),
		newAddCmd(),
		newListCmd(),
		newDoneCmd(),
		newSlipCmd(),
		newRemoveCmd(),
		newDueCmd(),
		newStatusCmd(),
		newAnalyticsCmd(),
		newSeedCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
