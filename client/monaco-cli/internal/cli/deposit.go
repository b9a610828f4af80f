package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/spf13/cobra"
)

type DepositCmd struct {
	newRPC RPCFactory
}

func NewDepositCmd(newRPC RPCFactory) *DepositCmd {
	return &DepositCmd{newRPC: newRPC}
}

func (c *DepositCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit liquidity and start a DCA schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			amount, err := cmd.Flags().GetUint64("amount")
			if err != nil {
				return fmt.Errorf("failed to get amount flag: %w", err)
			}
			scheduleStr, err := cmd.Flags().GetString("schedule")
			if err != nil {
				return fmt.Errorf("failed to get schedule flag: %w", err)
			}
			schedule, err := monaco.ParseDcaSchedule(scheduleStr)
			if err != nil {
				return err
			}
			log := newLogger(g.verbose)

			client, net, err := g.newClient(log, c.newRPC, true)
			if err != nil {
				return err
			}
			lending, err := readLendingFlags(cmd, net)
			if err != nil {
				return err
			}
			cfg := monaco.DepositInstructionConfig{
				UserAuthority:   client.Signer().PublicKey(),
				Lending:         lending,
				LiquidityAmount: amount,
				Schedule:        schedule,
			}
			if cfg.DcaMint, err = requiredPubkeyFlag(cmd, "dca-mint"); err != nil {
				return err
			}
			if cfg.DcaRecipient, err = requiredPubkeyFlag(cmd, "dca-recipient"); err != nil {
				return err
			}
			if cfg.SourceLiquidity, err = requiredPubkeyFlag(cmd, "source-liquidity"); err != nil {
				return err
			}
			if cfg.DestinationCollateral, err = requiredPubkeyFlag(cmd, "destination-collateral"); err != nil {
				return err
			}
			if cfg.Nonce, err = resolveNonce(cmd, client.ProgramID(), cfg.UserAuthority, lending.Reserve); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			deposit, sig, _, err := client.Deposit(ctx, cfg, nil)
			if err != nil {
				return err
			}
			log.Info("Deposited", "deposit", deposit, "amount", amount, "schedule", schedule, "sig", sig)
			fmt.Fprintln(cmd.OutOrStdout(), deposit)
			return nil
		},
	}
	cmd.Flags().Uint64("amount", 0, "Liquidity amount in base units")
	cmd.Flags().String("schedule", monaco.DcaScheduleWeekly.String(), "DCA schedule (daily, weekly, biweekly, monthly, quarterly)")
	cmd.Flags().String("dca-mint", "", "Mint to buy with the yield")
	cmd.Flags().String("dca-recipient", "", "Token account receiving the bought tokens")
	cmd.Flags().String("source-liquidity", "", "Token account the liquidity is taken from")
	cmd.Flags().String("destination-collateral", "", "Collateral token account owned by the transfer authority")
	addLendingFlags(cmd)
	return cmd
}

type AddToDepositCmd struct {
	newRPC RPCFactory
}

func NewAddToDepositCmd(newRPC RPCFactory) *AddToDepositCmd {
	return &AddToDepositCmd{newRPC: newRPC}
}

func (c *AddToDepositCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-to-deposit",
		Short: "Add liquidity to an existing deposit",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			amount, err := cmd.Flags().GetUint64("amount")
			if err != nil {
				return fmt.Errorf("failed to get amount flag: %w", err)
			}
			log := newLogger(g.verbose)

			client, net, err := g.newClient(log, c.newRPC, true)
			if err != nil {
				return err
			}
			lending, err := readLendingFlags(cmd, net)
			if err != nil {
				return err
			}
			cfg := monaco.AddToDepositInstructionConfig{
				UserAuthority:   client.Signer().PublicKey(),
				Lending:         lending,
				LiquidityAmount: amount,
			}
			if cfg.DepositState, err = requiredPubkeyFlag(cmd, "deposit-state"); err != nil {
				return err
			}
			if cfg.SourceLiquidity, err = requiredPubkeyFlag(cmd, "source-liquidity"); err != nil {
				return err
			}
			if cfg.DestinationCollateral, err = requiredPubkeyFlag(cmd, "destination-collateral"); err != nil {
				return err
			}
			if cfg.Nonce, err = resolveNonce(cmd, client.ProgramID(), cfg.UserAuthority, lending.Reserve); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			sig, _, err := client.AddToDeposit(ctx, cfg)
			if err != nil {
				return err
			}
			log.Info("Added to deposit", "deposit", cfg.DepositState, "amount", amount, "sig", sig)
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
	cmd.Flags().Uint64("amount", 0, "Liquidity amount in base units")
	cmd.Flags().String("deposit-state", "", "Deposit state account")
	cmd.Flags().String("source-liquidity", "", "Token account the liquidity is taken from")
	cmd.Flags().String("destination-collateral", "", "Collateral token account owned by the transfer authority")
	addLendingFlags(cmd)
	return cmd
}

type CloseCmd struct {
	newRPC RPCFactory
}

func NewCloseCmd(newRPC RPCFactory) *CloseCmd {
	return &CloseCmd{newRPC: newRPC}
}

func (c *CloseCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Withdraw the remaining collateral and close a deposit",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			log := newLogger(g.verbose)

			client, net, err := g.newClient(log, c.newRPC, true)
			if err != nil {
				return err
			}
			lending, err := readLendingFlags(cmd, net)
			if err != nil {
				return err
			}
			cfg := monaco.CloseAccountInstructionConfig{
				UserAuthority: client.Signer().PublicKey(),
				Lending:       lending,
			}
			if cfg.DepositState, err = requiredPubkeyFlag(cmd, "deposit-state"); err != nil {
				return err
			}
			if cfg.LiquidityRecipient, err = requiredPubkeyFlag(cmd, "liquidity-recipient"); err != nil {
				return err
			}
			if cfg.SourceCollateral, err = requiredPubkeyFlag(cmd, "source-collateral"); err != nil {
				return err
			}
			if cfg.SerumRecipient, err = requiredPubkeyFlag(cmd, "serum-recipient"); err != nil {
				return err
			}
			if cfg.Nonce, err = resolveNonce(cmd, client.ProgramID(), cfg.UserAuthority, lending.Reserve); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			sig, _, err := client.CloseAccount(ctx, cfg)
			if err != nil {
				return err
			}
			log.Info("Closed deposit", "deposit", cfg.DepositState, "sig", sig)
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
	cmd.Flags().String("deposit-state", "", "Deposit state account")
	cmd.Flags().String("liquidity-recipient", "", "Token account receiving the withdrawn liquidity")
	cmd.Flags().String("source-collateral", "", "Collateral token account owned by the transfer authority")
	cmd.Flags().String("serum-recipient", "", "Intermediate liquidity token account")
	addLendingFlags(cmd)
	return cmd
}
