package cmd

import (
	"github.com/spf13/cobra"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "price oracle administration",
}

var oracleInitCmd = &cobra.Command{
	Use:   "init <asset-id>",
	Short: "seed the price accumulator for an AMM-paired asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideOracleService(database).InitPrice(ctx, args[0]); err != nil {
			cmd.PrintErrln("init price error:", err)
			return
		}

		cmd.Println("price accumulator seeded")
	},
}

func init() {
	oracleCmd.AddCommand(oracleInitCmd)
	rootCmd.AddCommand(oracleCmd)
}
