package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

type InvokeCmd struct {
	newRPC RPCFactory
}

func NewInvokeCmd(newRPC RPCFactory) *InvokeCmd {
	return &InvokeCmd{newRPC: newRPC}
}

func (c *InvokeCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <instruction>",
		Short: "Call a zero-argument instruction described by the IDL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			rawAccounts, err := cmd.Flags().GetStringArray("account")
			if err != nil {
				return fmt.Errorf("failed to get account flag: %w", err)
			}
			accounts, err := parseAccountFlags(rawAccounts)
			if err != nil {
				return err
			}
			log := newLogger(g.verbose)

			program, err := g.loadIDL()
			if err != nil {
				return fmt.Errorf("failed to load idl: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, _, err := g.newClient(log, c.newRPC, true)
			if err != nil {
				return err
			}
			sig, _, err := client.Invoke(ctx, program, args[0], accounts)
			if err != nil {
				return err
			}
			log.Info("Invoked", "instruction", args[0], "sig", sig)
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
	cmd.Flags().StringArray("account", nil, "Instruction account as name=pubkey (repeatable)")
	return cmd
}

// parseAccountFlags parses repeated name=pubkey pairs.
func parseAccountFlags(values []string) (map[string]solana.PublicKey, error) {
	accounts := make(map[string]solana.PublicKey, len(values))
	for _, value := range values {
		name, key, ok := strings.Cut(value, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid account %q, expected name=pubkey", value)
		}
		pk, err := solana.PublicKeyFromBase58(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid pubkey for account %q: %w", name, err)
		}
		if _, dup := accounts[name]; dup {
			return nil, fmt.Errorf("account %q given more than once", name)
		}
		accounts[name] = pk
	}
	return accounts, nil
}
