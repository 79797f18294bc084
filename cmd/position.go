package cmd

import (
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"lever/pkg/number"
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "manage borrow positions",
}

var positionOpenCmd = &cobra.Command{
	Use:   "open <owner> <underlying-asset> <collateral-asset>",
	Short: "open an empty position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		positionID, err := providePositionService(database).Open(ctx, args[0], args[0], args[1], args[2])
		if err != nil {
			cmd.PrintErrln("open position error:", err)
			return
		}

		cmd.Println("position opened:", positionID)
	},
}

var positionPutCmd = &cobra.Command{
	Use:   "put <owner> <position-id> <amount>",
	Short: "lock collateral into a position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := providePositionService(database).Put(ctx, args[0], args[0], cast.ToInt64(args[1]), number.Decimal(args[2]))
		if err != nil {
			cmd.PrintErrln("put error:", err)
			return
		}

		cmd.Println("collateral locked")
	},
}

var positionTakeCmd = &cobra.Command{
	Use:   "take <owner> <position-id> <amount>",
	Short: "withdraw collateral from a position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := providePositionService(database).Take(ctx, args[0], args[0], cast.ToInt64(args[1]), number.Decimal(args[2]))
		if err != nil {
			cmd.PrintErrln("take error:", err)
			return
		}

		cmd.Println("collateral withdrawn")
	},
}

var positionBorrowCmd = &cobra.Command{
	Use:   "borrow <owner> <position-id> <amount>",
	Short: "borrow the underlying against the position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := providePositionService(database).Borrow(ctx, args[0], args[0], cast.ToInt64(args[1]), number.Decimal(args[2]))
		if err != nil {
			cmd.PrintErrln("borrow error:", err)
			return
		}

		cmd.Println("borrowed")
	},
}

var positionRepayCmd = &cobra.Command{
	Use:   "repay <owner> <position-id> <amount>",
	Short: "repay the position's debt",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := providePositionService(database).Repay(ctx, args[0], args[0], cast.ToInt64(args[1]), number.Decimal(args[2]))
		if err != nil {
			cmd.PrintErrln("repay error:", err)
			return
		}

		cmd.Println("repaid")
	},
}

var positionLiquidateCmd = &cobra.Command{
	Use:   "liquidate <liquidator> <owner> <position-id> <repay-amount>",
	Short: "repay part of an unhealthy position's debt and seize collateral",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		seized, err := providePositionService(database).Liquidate(ctx, args[0], args[1], cast.ToInt64(args[2]), number.Decimal(args[3]))
		if err != nil {
			cmd.PrintErrln("liquidate error:", err)
			return
		}

		cmd.Println("collateral seized:", seized)
	},
}

var positionSelflessCmd = &cobra.Command{
	Use:   "selfless-liquidate <liquidator> <owner> <position-id> <repay-amount>",
	Short: "clear bad debt from a position with no collateral left",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		err := providePositionService(database).SelflessLiquidate(ctx, args[0], args[1], cast.ToInt64(args[2]), number.Decimal(args[3]))
		if err != nil {
			cmd.PrintErrln("selfless liquidate error:", err)
			return
		}

		cmd.Println("bad debt cleared")
	},
}

func init() {
	positionCmd.AddCommand(positionOpenCmd)
	positionCmd.AddCommand(positionPutCmd)
	positionCmd.AddCommand(positionTakeCmd)
	positionCmd.AddCommand(positionBorrowCmd)
	positionCmd.AddCommand(positionRepayCmd)
	positionCmd.AddCommand(positionLiquidateCmd)
	positionCmd.AddCommand(positionSelflessCmd)
	rootCmd.AddCommand(positionCmd)
}
