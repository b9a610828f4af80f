package monaco

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrNoPrivateKey is returned when a transaction needs signing but the executor has no key.
	ErrNoPrivateKey = errors.New("no private key configured")

	// ErrNoProgramID is returned when a transaction is sent without a program to target.
	ErrNoProgramID = errors.New("no program ID configured")

	errSignatureNotSeen = errors.New("signature not found after wait")
)

const visiblePollInterval = 250 * time.Millisecond

type executor struct {
	log                   *slog.Logger
	rpc                   RPCClient
	signer                *solana.PrivateKey
	programID             solana.PublicKey
	waitForVisibleTimeout time.Duration
	pollInterval          time.Duration
}

type ExecutorOption func(*executor)

// WithWaitForVisibleTimeout bounds how long a sent signature may stay unknown to the cluster.
func WithWaitForVisibleTimeout(timeout time.Duration) ExecutorOption {
	return func(e *executor) {
		e.waitForVisibleTimeout = timeout
	}
}

// WithPollInterval sets how often the executor polls for finalization.
func WithPollInterval(interval time.Duration) ExecutorOption {
	return func(e *executor) {
		e.pollInterval = interval
	}
}

func NewExecutor(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ExecutorOption) *executor {
	e := &executor{
		log:                   log,
		rpc:                   rpc,
		signer:                signer,
		programID:             programID,
		waitForVisibleTimeout: DefaultWaitForVisibleTimeout,
		pollInterval:          time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type ExecuteTransactionOptions struct {
	SkipPreflight bool
	// Signers are additional keys that must sign, such as a new account
	// created by the instruction. The fee payer always signs.
	Signers []solana.PrivateKey
}

func (e *executor) ExecuteTransaction(ctx context.Context, instruction solana.Instruction, opts *ExecuteTransactionOptions) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	return e.ExecuteTransactions(ctx, []solana.Instruction{instruction}, opts)
}

// ExecuteTransactions sends the instructions as one transaction paid by the
// signer and blocks until it is finalized.
func (e *executor) ExecuteTransactions(ctx context.Context, instructions []solana.Instruction, opts *ExecuteTransactionOptions) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	if opts == nil {
		opts = &ExecuteTransactionOptions{}
	}
	if e.signer == nil {
		return solana.Signature{}, nil, ErrNoPrivateKey
	}
	if e.programID.IsZero() {
		return solana.Signature{}, nil, ErrNoProgramID
	}

	tx, err := e.signedTransaction(ctx, instructions, opts.Signers)
	if err != nil {
		return solana.Signature{}, nil, err
	}

	sig, err := e.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{SkipPreflight: opts.SkipPreflight})
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := e.awaitVisible(ctx, sig); err != nil {
		msg := "transaction dropped or rejected before cluster saw it"
		if opts.SkipPreflight {
			msg += " (preflight was skipped, check the payer balance)"
		}
		return solana.Signature{}, nil, fmt.Errorf("%s: %w", msg, err)
	}

	res, err := e.awaitFinalized(ctx, sig)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return sig, res, nil
}

func (e *executor) signedTransaction(ctx context.Context, instructions []solana.Instruction, extra []solana.PrivateKey) (*solana.Transaction, error) {
	latest, err := e.rpc.GetLatestBlockhash(ctx, solanarpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	payer := e.signer.PublicKey()
	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	keys := make(map[solana.PublicKey]*solana.PrivateKey, len(extra)+1)
	keys[payer] = e.signer
	for i := range extra {
		keys[extra[i].PublicKey()] = &extra[i]
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return keys[key]
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction (likely missing signer): %w", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errors.New("signed transaction has no signatures")
	}
	return tx, nil
}

// pollStatus queries the signature status every interval until ready
// reports true. A zero deadline polls until ctx is done.
func (e *executor) pollStatus(
	ctx context.Context,
	sig solana.Signature,
	interval time.Duration,
	deadline time.Time,
	ready func(*solanarpc.GetSignatureStatusesResult) (bool, error),
) error {
	for {
		resp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return err
		}
		ok, err := ready(resp)
		if err != nil || ok {
			return err
		}
		if !deadline.IsZero() && !time.Now().Add(interval).Before(deadline) {
			return errSignatureNotSeen
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (e *executor) awaitVisible(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(e.waitForVisibleTimeout)
	return e.pollStatus(ctx, sig, visiblePollInterval, deadline, func(resp *solanarpc.GetSignatureStatusesResult) (bool, error) {
		return len(resp.Value) > 0 && resp.Value[0] != nil, nil
	})
}

func (e *executor) awaitFinalized(ctx context.Context, sig solana.Signature) (*solanarpc.GetTransactionResult, error) {
	start := time.Now()
	e.log.Debug("--> Waiting for finalization", "sig", sig)
	err := e.pollStatus(ctx, sig, e.pollInterval, time.Time{}, func(resp *solanarpc.GetSignatureStatusesResult) (bool, error) {
		if len(resp.Value) == 0 {
			return false, errors.New("transaction not found")
		}
		status := resp.Value[0]
		return status != nil && status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized, nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("--> Finalized", "sig", sig, "duration", time.Since(start))

	tx, err := e.rpc.GetTransaction(ctx, sig, &solanarpc.GetTransactionOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: solanarpc.CommitmentFinalized,
	})
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.Meta == nil {
		return nil, errors.New("transaction not found or missing metadata after finalization")
	}
	return tx, nil
}
