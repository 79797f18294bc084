package cmd

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"lever/pkg/number"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "risk configuration administration",
}

var riskSetTierCmd = &cobra.Command{
	Use:   "set-tier <level> <safety-ltv> <liquidation-ltv> <kill-bounty-rate>",
	Short: "create or update a risk tier",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := provideRiskService(database).SetRiskTier(
			ctx,
			cast.ToInt64(args[0]),
			number.Decimal(args[1]),
			number.Decimal(args[2]),
			number.Decimal(args[3]),
		)
		if err != nil {
			cmd.PrintErrln("set tier error:", err)
			return
		}

		cmd.Println("risk tier updated")
	},
}

var riskSetLevelCmd = &cobra.Command{
	Use:   "set-level <asset-id> <level>",
	Short: "assign an asset to a risk level",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideRiskService(database).SetRiskLevel(ctx, args[0], cast.ToInt64(args[1])); err != nil {
			cmd.PrintErrln("set level error:", err)
			return
		}

		cmd.Println("risk level updated")
	},
}

var riskSetCollateralCmd = &cobra.Command{
	Use:   "set-collateral <asset-id> <factor> <cap>",
	Short: "set the collateral factor and cap of an asset",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := provideRiskService(database).SetCollateralInfo(ctx, args[0], number.Decimal(args[1]), number.Decimal(args[2])); err != nil {
			cmd.PrintErrln("set collateral error:", err)
			return
		}

		cmd.Println("collateral info updated")
	},
}

func init() {
	riskCmd.AddCommand(riskSetTierCmd)
	riskCmd.AddCommand(riskSetLevelCmd)
	riskCmd.AddCommand(riskSetCollateralCmd)
	rootCmd.AddCommand(riskCmd)
}
