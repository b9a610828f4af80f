package cli

import (
	"fmt"

	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/spf13/cobra"
)

type TransferAuthorityCmd struct{}

func NewTransferAuthorityCmd() *TransferAuthorityCmd {
	return &TransferAuthorityCmd{}
}

func (c *TransferAuthorityCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-authority",
		Short: "Derive the transfer authority that owns a user's collateral",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			net, err := g.network()
			if err != nil {
				return err
			}
			user, err := requiredPubkeyFlag(cmd, "user")
			if err != nil {
				return err
			}
			reserve, err := requiredPubkeyFlag(cmd, "reserve")
			if err != nil {
				return err
			}
			authority, nonce, err := monaco.FindTransferAuthority(net.MonacoProgramID, user, reserve)
			if err != nil {
				return fmt.Errorf("failed to derive transfer authority: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", authority, nonce)
			return nil
		},
	}
	cmd.Flags().String("user", "", "User authority")
	cmd.Flags().String("reserve", "", "Lending reserve")
	return cmd
}
