package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/monaco-dca/monaco/e2e/internal/poll"
)

type FundingClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment solanarpc.CommitmentType) (*solanarpc.GetBalanceResult, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment solanarpc.CommitmentType) (solana.Signature, error)
}

// EnsureBalance airdrops lamports to account when its balance is below
// minLamports and waits for the balance to land.
func EnsureBalance(ctx context.Context, client FundingClient, account solana.PublicKey, minLamports, airdropLamports uint64, timeout time.Duration) (uint64, error) {
	balance, err := client.GetBalance(ctx, account, solanarpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Value >= minLamports {
		return balance.Value, nil
	}

	if _, err := client.RequestAirdrop(ctx, account, airdropLamports, solanarpc.CommitmentConfirmed); err != nil {
		return balance.Value, fmt.Errorf("failed to request airdrop: %w", err)
	}

	return poll.UntilValue(ctx, func() (uint64, bool, error) {
		balance, err := client.GetBalance(ctx, account, solanarpc.CommitmentConfirmed)
		if err != nil {
			return 0, false, fmt.Errorf("failed to get balance: %w", err)
		}
		return balance.Value, balance.Value >= minLamports, nil
	}, timeout, time.Second)
}
