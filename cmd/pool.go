package cmd

import (
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"

	"lever/core"
	"lever/pkg/number"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "pool administration",
}

var poolCreateCmd = &cobra.Command{
	Use:   "create <asset-id> <symbol> <interest-rate>",
	Short: "create a lending pool for an underlying asset",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		rate := number.Decimal(args[2])
		if !rate.IsPositive() {
			cmd.PrintErrln("invalid interest rate:", args[2])
			return
		}

		pool := &core.Pool{
			AssetID:       args[0],
			Symbol:        args[1],
			InterestRate:  rate,
			LastAccruedAt: time.Now(),
		}

		if err := providePoolStore(database).Save(ctx, database, pool); err != nil {
			cmd.PrintErrln("create pool error:", err)
			return
		}

		if err := provideAssetStore(database).Save(ctx, &core.Asset{
			ID:     args[0],
			Symbol: args[1],
		}); err != nil {
			cmd.PrintErrln("save asset error:", err)
			return
		}

		cmd.Println("pool created:", pool.Symbol)
	},
}

var poolReserveCmd = &cobra.Command{
	Use:   "set-reserve <asset-id> <reserve-rate> <beneficiary>",
	Short: "set the reserve rate and its beneficiary",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		if err := providePoolService(database).SetReserveInfo(ctx, args[0], number.Decimal(args[1]), args[2]); err != nil {
			cmd.PrintErrln("set reserve error:", err)
			return
		}

		cmd.Println("reserve info updated")
	},
}

var poolDepositCmd = &cobra.Command{
	Use:   "deposit <user-id> <asset-id> <amount>",
	Short: "supply the underlying to a pool",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		poolz := providePoolService(database)
		pools := providePoolStore(database)

		err := database.Tx(func(tx *db.DB) error {
			pool, err := pools.Find(ctx, args[1])
			if err != nil {
				return err
			}

			if err := poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
				return err
			}

			shares, err := poolz.Deposit(ctx, tx, pool, args[0], number.Decimal(args[2]))
			if err != nil {
				return err
			}

			cmd.Println("shares minted:", shares)
			return nil
		})
		if err != nil {
			cmd.PrintErrln("deposit error:", err)
		}
	},
}

var poolWithdrawCmd = &cobra.Command{
	Use:   "withdraw <user-id> <asset-id> <shares>",
	Short: "redeem supply shares from a pool",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		poolz := providePoolService(database)
		pools := providePoolStore(database)

		err := database.Tx(func(tx *db.DB) error {
			pool, err := pools.Find(ctx, args[1])
			if err != nil {
				return err
			}

			if err := poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
				return err
			}

			amount, err := poolz.Withdraw(ctx, tx, pool, args[0], number.Decimal(args[2]))
			if err != nil {
				return err
			}

			cmd.Println("amount redeemed:", amount)
			return nil
		})
		if err != nil {
			cmd.PrintErrln("withdraw error:", err)
		}
	},
}

func init() {
	poolCmd.AddCommand(poolCreateCmd)
	poolCmd.AddCommand(poolReserveCmd)
	poolCmd.AddCommand(poolDepositCmd)
	poolCmd.AddCommand(poolWithdrawCmd)
	rootCmd.AddCommand(poolCmd)
}
