package cli

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/config"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/spf13/cobra"
)

func addLendingFlags(cmd *cobra.Command) {
	cmd.Flags().String("lending-program", "", "Lending program ID (default: the network's lending program)")
	cmd.Flags().String("reserve", "", "Lending reserve")
	cmd.Flags().String("reserve-collateral-mint", "", "Reserve collateral mint")
	cmd.Flags().String("reserve-liquidity-supply", "", "Reserve liquidity supply account")
	cmd.Flags().String("lending-market", "", "Lending market")
	cmd.Flags().String("lending-market-authority", "", "Lending market authority")
	cmd.Flags().Int("nonce", -1, "Transfer authority nonce (default: derived)")
}

func readLendingFlags(cmd *cobra.Command, net *config.NetworkConfig) (monaco.LendingAccounts, error) {
	var lending monaco.LendingAccounts
	var err error
	if lending.LendingProgram, err = pubkeyFlag(cmd, "lending-program"); err != nil {
		return lending, err
	}
	if lending.LendingProgram.IsZero() && net != nil {
		lending.LendingProgram = net.LendingProgramID
	}
	if lending.Reserve, err = requiredPubkeyFlag(cmd, "reserve"); err != nil {
		return lending, err
	}
	if lending.ReserveCollateralMint, err = requiredPubkeyFlag(cmd, "reserve-collateral-mint"); err != nil {
		return lending, err
	}
	if lending.ReserveLiquiditySupply, err = requiredPubkeyFlag(cmd, "reserve-liquidity-supply"); err != nil {
		return lending, err
	}
	if lending.LendingMarket, err = requiredPubkeyFlag(cmd, "lending-market"); err != nil {
		return lending, err
	}
	if lending.LendingMarketAuthority, err = requiredPubkeyFlag(cmd, "lending-market-authority"); err != nil {
		return lending, err
	}
	return lending, nil
}

// resolveNonce returns the --nonce flag, or the derived nonce when unset.
func resolveNonce(cmd *cobra.Command, programID, user, reserve solana.PublicKey) (uint8, error) {
	nonce, err := cmd.Flags().GetInt("nonce")
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce flag: %w", err)
	}
	if nonce > 255 {
		return 0, fmt.Errorf("nonce %d out of range", nonce)
	}
	if nonce >= 0 {
		return uint8(nonce), nil
	}
	_, found, err := monaco.FindTransferAuthority(programID, user, reserve)
	if err != nil {
		return 0, fmt.Errorf("failed to derive transfer authority: %w", err)
	}
	return found, nil
}
