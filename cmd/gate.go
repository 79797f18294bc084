package cmd

import (
	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "pause every mutating protocol operation",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideGateService(database).SetPaused(ctx, true); err != nil {
			cmd.PrintErrln("pause error:", err)
			return
		}

		cmd.Println("paused")
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "resume protocol operations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideGateService(database).SetPaused(ctx, false); err != nil {
			cmd.PrintErrln("unpause error:", err)
			return
		}

		cmd.Println("unpaused")
	},
}

var runnerCmd = &cobra.Command{
	Use:   "runner",
	Short: "manage the permitted runner whitelist",
}

var runnerAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "permit a runner to operate positions for others",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideGateService(database).AddRunner(ctx, args[0]); err != nil {
			cmd.PrintErrln("add runner error:", err)
			return
		}

		cmd.Println("runner added")
	},
}

var runnerRemoveCmd = &cobra.Command{
	Use:   "remove <user-id>",
	Short: "revoke a permitted runner",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideGateService(database).RemoveRunner(ctx, args[0]); err != nil {
			cmd.PrintErrln("remove runner error:", err)
			return
		}

		cmd.Println("runner removed")
	},
}

func init() {
	runnerCmd.AddCommand(runnerAddCmd)
	runnerCmd.AddCommand(runnerRemoveCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(unpauseCmd)
	rootCmd.AddCommand(runnerCmd)
}
