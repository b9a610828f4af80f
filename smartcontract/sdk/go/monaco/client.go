package monaco

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

type Client struct {
	log      *slog.Logger
	rpc      RPCClient
	executor *executor
}

func New(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ExecutorOption) *Client {
	return &Client{
		log:      log,
		rpc:      rpc,
		executor: NewExecutor(log, rpc, signer, programID, opts...),
	}
}

func (c *Client) ProgramID() solana.PublicKey {
	if c.executor == nil {
		return solana.PublicKey{}
	}
	return c.executor.programID
}

func (c *Client) Signer() *solana.PrivateKey {
	if c.executor == nil {
		return nil
	}
	return c.executor.signer
}

// DepositAccount is a deposit state together with its address.
type DepositAccount struct {
	PublicKey solana.PublicKey
	State     DepositState
}

// GetDepositState fetches a single deposit state account.
func (c *Client) GetDepositState(ctx context.Context, pk solana.PublicKey) (*DepositState, error) {
	account, err := c.rpc.GetAccountInfo(ctx, pk)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account data: %w", err)
	}
	if account == nil || account.Value == nil {
		return nil, ErrAccountNotFound
	}
	if !account.Value.Owner.Equals(c.executor.programID) {
		return nil, fmt.Errorf("account %s is owned by %s, not the program", pk, account.Value.Owner)
	}

	state, err := DeserializeDepositState(account.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize deposit state: %w", err)
	}
	return state, nil
}

// GetDepositStates fetches every deposit state account of the program.
func (c *Client) GetDepositStates(ctx context.Context) ([]DepositAccount, error) {
	return c.getDepositStates(ctx, nil)
}

// GetDepositStatesByAuthority fetches the deposit states owned by one user.
func (c *Client) GetDepositStatesByAuthority(ctx context.Context, authority solana.PublicKey) ([]DepositAccount, error) {
	if authority.IsZero() {
		return nil, fmt.Errorf("authority is required")
	}
	return c.getDepositStates(ctx, &solanarpc.RPCFilterMemcmp{
		Offset: depositStateUserAuthorityOffset,
		Bytes:  solana.Base58(authority[:]),
	})
}

func (c *Client) getDepositStates(ctx context.Context, extra *solanarpc.RPCFilterMemcmp) ([]DepositAccount, error) {
	opts := &solanarpc.GetProgramAccountsOpts{
		Filters: []solanarpc.RPCFilter{
			{
				Memcmp: &solanarpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58(DiscriminatorDepositState[:]),
				},
			},
		},
	}
	if extra != nil {
		opts.Filters = append(opts.Filters, solanarpc.RPCFilter{Memcmp: extra})
	}

	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.executor.programID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts: %w", err)
	}

	deposits := make([]DepositAccount, 0, len(accounts))
	for _, acct := range accounts {
		if acct == nil || acct.Account == nil {
			continue
		}
		state, err := DeserializeDepositState(acct.Account.Data.GetBinary())
		if err != nil {
			c.log.Warn("failed to deserialize deposit state account", "pubkey", acct.Pubkey, "error", err)
			continue
		}
		deposits = append(deposits, DepositAccount{PublicKey: acct.Pubkey, State: *state})
	}
	return deposits, nil
}

// Initialize calls the program's initialize instruction.
func (c *Client) Initialize(ctx context.Context) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	instruction, err := BuildInitializeInstruction(c.executor.programID)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, "initialize", instruction, nil)
}

// Invoke calls a zero-argument instruction described by the IDL.
func (c *Client) Invoke(
	ctx context.Context,
	program *idl.IDL,
	name string,
	accounts map[string]solana.PublicKey,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	instruction, err := BuildIDLInstruction(c.executor.programID, program, name, accounts)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, "invoke "+name, instruction, nil)
}

// Deposit creates a deposit state account and moves liquidity into the
// reserve. When depositKey is nil a new keypair is generated for the
// account. The user authority defaults to the client signer.
func (c *Client) Deposit(
	ctx context.Context,
	config DepositInstructionConfig,
	depositKey *solana.PrivateKey,
) (solana.PublicKey, solana.Signature, *solanarpc.GetTransactionResult, error) {
	if depositKey == nil {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return solana.PublicKey{}, solana.Signature{}, nil, fmt.Errorf("failed to generate deposit account: %w", err)
		}
		depositKey = &key
	}
	config.Deposit = depositKey.PublicKey()
	if config.UserAuthority.IsZero() && c.Signer() != nil {
		config.UserAuthority = c.Signer().PublicKey()
	}

	instruction, err := BuildDepositInstruction(c.executor.programID, config)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	sig, res, err := c.execute(ctx, "deposit", instruction, &ExecuteTransactionOptions{
		Signers: []solana.PrivateKey{*depositKey},
	})
	if err != nil {
		return solana.PublicKey{}, sig, res, err
	}
	return config.Deposit, sig, res, nil
}

// AddToDeposit moves more liquidity into an existing deposit.
func (c *Client) AddToDeposit(
	ctx context.Context,
	config AddToDepositInstructionConfig,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	if config.UserAuthority.IsZero() && c.Signer() != nil {
		config.UserAuthority = c.Signer().PublicKey()
	}
	instruction, err := BuildAddToDepositInstruction(c.executor.programID, config)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, "add to deposit", instruction, nil)
}

// RunDcaStrategy executes one DCA swap and returns the swap events the
// program emitted.
func (c *Client) RunDcaStrategy(
	ctx context.Context,
	config RunDcaStrategyInstructionConfig,
) (solana.Signature, []DidSwap, error) {
	if config.UserAuthority.IsZero() && c.Signer() != nil {
		config.UserAuthority = c.Signer().PublicKey()
	}
	instruction, err := BuildRunDcaStrategyInstruction(c.executor.programID, config)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	sig, res, err := c.execute(ctx, "run dca strategy", instruction, nil)
	if err != nil {
		return sig, nil, err
	}
	if res == nil || res.Meta == nil {
		return sig, nil, nil
	}
	events, err := ParseDidSwapEvents(res.Meta.LogMessages)
	if err != nil {
		return sig, nil, fmt.Errorf("failed to parse swap events: %w", err)
	}
	return sig, events, nil
}

// CloseAccount withdraws the remaining collateral and closes the deposit.
func (c *Client) CloseAccount(
	ctx context.Context,
	config CloseAccountInstructionConfig,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	if config.UserAuthority.IsZero() && c.Signer() != nil {
		config.UserAuthority = c.Signer().PublicKey()
	}
	instruction, err := BuildCloseAccountInstruction(c.executor.programID, config)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}
	return c.execute(ctx, "close account", instruction, nil)
}

// execute runs the instruction and surfaces program errors from either the
// preflight simulation or the finalized transaction meta.
func (c *Client) execute(
	ctx context.Context,
	action string,
	instruction solana.Instruction,
	opts *ExecuteTransactionOptions,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	sig, res, err := c.executor.ExecuteTransaction(ctx, instruction, opts)
	if err != nil {
		if perr, ok := ParseRPCError(err); ok {
			return sig, res, fmt.Errorf("failed to %s: %w", action, perr)
		}
		return sig, res, fmt.Errorf("failed to %s: %w", action, err)
	}
	if res != nil && res.Meta != nil && res.Meta.Err != nil {
		if perr, ok := ParseTransactionError(res.Meta.Err); ok {
			return sig, res, fmt.Errorf("failed to %s: %w", action, perr)
		}
		return sig, res, fmt.Errorf("failed to %s: %v", action, res.Meta.Err)
	}
	c.log.Debug("--> Transaction executed", "action", action, "sig", sig)
	return sig, res, nil
}
