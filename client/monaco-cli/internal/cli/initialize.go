package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type InitializeCmd struct {
	newRPC RPCFactory
}

func NewInitializeCmd(newRPC RPCFactory) *InitializeCmd {
	return &InitializeCmd{newRPC: newRPC}
}

func (c *InitializeCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "Call the program's initialize instruction",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			log := newLogger(g.verbose)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, _, err := g.newClient(log, c.newRPC, true)
			if err != nil {
				return err
			}
			sig, _, err := client.Initialize(ctx)
			if err != nil {
				return err
			}
			log.Info("Initialized", "sig", sig)
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}
