package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type DepositStateCmd struct {
	newRPC RPCFactory
}

func NewDepositStateCmd(newRPC RPCFactory) *DepositStateCmd {
	return &DepositStateCmd{newRPC: newRPC}
}

func (c *DepositStateCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit-state <pubkey>",
		Short: "Show a deposit state account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			pk, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("invalid deposit state pubkey: %w", err)
			}
			log := newLogger(g.verbose)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, _, err := g.newClient(log, c.newRPC, false)
			if err != nil {
				return err
			}
			state, err := client.GetDepositState(ctx, pk)
			if err != nil {
				return err
			}
			printDepositState(cmd.OutOrStdout(), pk, state, time.Now())
			return nil
		},
	}
}

func printDepositState(w io.Writer, pk solana.PublicKey, state *monaco.DepositState, now time.Time) {
	ooa := "-"
	if state.Ooa != nil {
		ooa = state.Ooa.String()
	}
	fmt.Fprintf(w, "Deposit State (%s)\n", pk)
	fmt.Fprintf(w, "%-25s %s\n", "User Authority:", state.UserAuthority)
	fmt.Fprintf(w, "%-25s %s\n", "Collateral Account:", state.CollateralAccountKey)
	fmt.Fprintf(w, "%-25s %d\n", "Liquidity Amount:", state.LiquidityAmount)
	fmt.Fprintf(w, "%-25s %d\n", "Collateral Amount:", state.CollateralAmount)
	fmt.Fprintf(w, "%-25s %s\n", "Schedule:", state.Schedule)
	fmt.Fprintf(w, "%-25s %s\n", "Reserve:", state.ReserveAccount)
	fmt.Fprintf(w, "%-25s %s\n", "DCA Mint:", state.DcaMint)
	fmt.Fprintf(w, "%-25s %s\n", "DCA Recipient:", state.DcaRecipient)
	fmt.Fprintf(w, "%-25s %s\n", "Open Orders:", ooa)
	fmt.Fprintf(w, "%-25s %s\n", "Created At:", state.CreatedAtTime().Format(time.RFC3339))
	fmt.Fprintf(w, "%-25s %d\n", "Executions:", state.Counter)
	fmt.Fprintf(w, "%-25s %d\n", "Nonce:", state.Nonce)
	fmt.Fprintf(w, "%-25s %s (due: %t)\n", "Next Execution:", state.NextExecutionTime().Format(time.RFC3339), state.IsDue(now))
}

type DepositsCmd struct {
	newRPC RPCFactory
}

func NewDepositsCmd(newRPC RPCFactory) *DepositsCmd {
	return &DepositsCmd{newRPC: newRPC}
}

func (c *DepositsCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposits",
		Short: "List deposit state accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			authority, err := pubkeyFlag(cmd, "authority")
			if err != nil {
				return err
			}
			dueOnly, err := cmd.Flags().GetBool("due")
			if err != nil {
				return fmt.Errorf("failed to get due flag: %w", err)
			}
			log := newLogger(g.verbose)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, _, err := g.newClient(log, c.newRPC, false)
			if err != nil {
				return err
			}
			var deposits []monaco.DepositAccount
			if authority.IsZero() {
				deposits, err = client.GetDepositStates(ctx)
			} else {
				deposits, err = client.GetDepositStatesByAuthority(ctx, authority)
			}
			if err != nil {
				return err
			}
			renderDeposits(cmd.OutOrStdout(), deposits, time.Now(), dueOnly)
			return nil
		},
	}
	cmd.Flags().String("authority", "", "Only show deposits of this user authority")
	cmd.Flags().Bool("due", false, "Only show deposits whose next execution is due")
	return cmd
}

func renderDeposits(w io.Writer, deposits []monaco.DepositAccount, now time.Time, dueOnly bool) {
	sort.Slice(deposits, func(i, j int) bool {
		return deposits[i].State.NextExecutionTime().Before(deposits[j].State.NextExecutionTime())
	})

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{
		"Deposit",
		"Authority",
		"Liquidity",
		"Collateral",
		"Schedule",
		"Executions",
		"Next Execution",
		"Due",
	})
	for _, d := range deposits {
		due := d.State.IsDue(now)
		if dueOnly && !due {
			continue
		}
		table.Append([]string{
			d.PublicKey.String(),
			d.State.UserAuthority.String(),
			strconv.FormatUint(d.State.LiquidityAmount, 10),
			strconv.FormatUint(d.State.CollateralAmount, 10),
			d.State.Schedule.String(),
			strconv.Itoa(int(d.State.Counter)),
			d.State.NextExecutionTime().Format(time.RFC3339),
			strconv.FormatBool(due),
		})
	}
	table.Render()
}
