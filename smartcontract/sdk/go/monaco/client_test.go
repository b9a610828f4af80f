package monaco_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/stretchr/testify/require"
)

func TestSDK_Monaco_Client_Initialize(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	var sent *solana.Transaction
	mockRPC := newFinalizingRPC(t, []string{"Program log: Instruction: Initialize"}, nil, func(tx *solana.Transaction) { sent = tx })

	client := monaco.New(log, mockRPC, &signer, monaco.DevnetProgramID)
	require.Equal(t, monaco.DevnetProgramID, client.ProgramID())
	require.Equal(t, &signer, client.Signer())

	sig, res, err := client.Initialize(t.Context())
	require.NoError(t, err, "initialize completes without error")
	require.NotNil(t, res)
	require.Equal(t, sent.Signatures[0], sig)

	require.Len(t, sent.Message.Instructions, 1)
	compiled := sent.Message.Instructions[0]
	programID, err := sent.Message.ResolveProgramIDIndex(compiled.ProgramIDIndex)
	require.NoError(t, err)
	require.Equal(t, monaco.DevnetProgramID, programID)
	require.Equal(t, []byte{175, 175, 109, 31, 13, 152, 155, 237}, []byte(compiled.Data))
}

func TestSDK_Monaco_Client_Deposit(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	programID := monaco.DevnetProgramID
	var sent *solana.Transaction
	mockRPC := newFinalizingRPC(t, nil, nil, func(tx *solana.Transaction) { sent = tx })
	client := monaco.New(log, mockRPC, &signer, programID)

	cfg := newDepositConfig(t, programID, signer.PublicKey())
	cfg.Deposit = solana.PublicKey{}
	cfg.UserAuthority = solana.PublicKey{}

	deposit, _, res, err := client.Deposit(t.Context(), cfg, nil)
	require.NoError(t, err, "deposit completes without error")
	require.NotNil(t, res)
	require.False(t, deposit.IsZero())

	require.Len(t, sent.Signatures, 2, "payer and new deposit account both sign")
	require.NoError(t, sent.VerifySignatures())
	require.Equal(t, signer.PublicKey(), sent.Message.AccountKeys[0])
	require.Contains(t, sent.Message.AccountKeys, deposit)
}

func TestSDK_Monaco_Client_DepositWithProvidedKey(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	depositKey := solana.NewWallet().PrivateKey
	programID := monaco.DevnetProgramID
	client := monaco.New(log, newFinalizingRPC(t, nil, nil, nil), &signer, programID)

	cfg := newDepositConfig(t, programID, signer.PublicKey())
	deposit, _, _, err := client.Deposit(t.Context(), cfg, &depositKey)
	require.NoError(t, err)
	require.Equal(t, depositKey.PublicKey(), deposit)
}

func TestSDK_Monaco_Client_RunDcaStrategy_ReturnsEvents(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	programID := monaco.DevnetProgramID
	event := newDidSwap()
	mockRPC := newFinalizingRPC(t, []string{"Program log: " + encodeDidSwap(t, event)}, nil, nil)
	client := monaco.New(log, mockRPC, &signer, programID)

	cfg := newRunDcaStrategyConfig(t, programID, signer.PublicKey())
	cfg.UserAuthority = solana.PublicKey{}

	_, events, err := client.RunDcaStrategy(t.Context(), cfg)
	require.NoError(t, err)
	require.Equal(t, []monaco.DidSwap{event}, events)
}

func TestSDK_Monaco_Client_ProgramErrorFromMeta(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	programID := monaco.DevnetProgramID
	metaErr := map[string]any{
		"InstructionError": []any{json.Number("0"), map[string]any{"Custom": json.Number("303")}},
	}
	client := monaco.New(log, newFinalizingRPC(t, nil, metaErr, nil), &signer, programID)

	_, events, err := client.RunDcaStrategy(t.Context(), newRunDcaStrategyConfig(t, programID, signer.PublicKey()))
	require.ErrorIs(t, err, monaco.ErrSlippageExceeded)
	require.ErrorContains(t, err, "failed to run dca strategy")
	require.Nil(t, events)
}

func TestSDK_Monaco_Client_ProgramErrorFromPreflight(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	programID := monaco.DevnetProgramID
	mockRPC := newFinalizingRPC(t, nil, nil, nil)
	mockRPC.SendTransactionWithOptsFunc = func(_ context.Context, _ *solana.Transaction, _ solanarpc.TransactionOpts) (solana.Signature, error) {
		return solana.Signature{}, &jsonrpc.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed",
			Data: map[string]any{
				"err": map[string]any{
					"InstructionError": []any{json.Number("0"), map[string]any{"Custom": json.Number("304")}},
				},
			},
		}
	}
	client := monaco.New(log, mockRPC, &signer, programID)

	_, _, err := client.RunDcaStrategy(t.Context(), newRunDcaStrategyConfig(t, programID, signer.PublicKey()))
	require.ErrorIs(t, err, monaco.ErrInvalidAdmin)
}

func TestSDK_Monaco_Client_UnknownMetaError(t *testing.T) {
	t.Parallel()

	signer := solana.NewWallet().PrivateKey
	client := monaco.New(log, newFinalizingRPC(t, nil, "AccountNotFound", nil), &signer, monaco.DevnetProgramID)

	_, _, err := client.Initialize(t.Context())
	require.ErrorContains(t, err, "failed to initialize: AccountNotFound")
	var perr *monaco.ProgramError
	require.False(t, errors.As(err, &perr))
}

func serializeDepositState(t *testing.T, state monaco.DepositState) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, state.Serialize(&buf))
	return buf.Bytes()
}

func TestSDK_Monaco_Client_GetDepositState(t *testing.T) {
	t.Parallel()

	programID := monaco.DevnetProgramID
	pk := solana.NewWallet().PublicKey()
	state := newDepositState()

	mockRPC := &mockRPCClient{
		GetAccountInfoFunc: func(_ context.Context, account solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
			require.Equal(t, pk, account)
			return &solanarpc.GetAccountInfoResult{
				Value: &solanarpc.Account{
					Owner: programID,
					Data:  solanarpc.DataBytesOrJSONFromBytes(serializeDepositState(t, state)),
				},
			}, nil
		},
	}
	client := monaco.New(log, mockRPC, nil, programID)

	got, err := client.GetDepositState(t.Context(), pk)
	require.NoError(t, err)
	require.Equal(t, state, *got)
}

func TestSDK_Monaco_Client_GetDepositState_Errors(t *testing.T) {
	t.Parallel()

	programID := monaco.DevnetProgramID

	notFound := &mockRPCClient{
		GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
			return nil, solanarpc.ErrNotFound
		},
	}
	_, err := monaco.New(log, notFound, nil, programID).GetDepositState(t.Context(), solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, monaco.ErrAccountNotFound)

	wrongOwner := &mockRPCClient{
		GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
			return &solanarpc.GetAccountInfoResult{
				Value: &solanarpc.Account{
					Owner: solana.SystemProgramID,
					Data:  solanarpc.DataBytesOrJSONFromBytes(serializeDepositState(t, newDepositState())),
				},
			}, nil
		},
	}
	_, err = monaco.New(log, wrongOwner, nil, programID).GetDepositState(t.Context(), solana.NewWallet().PublicKey())
	require.ErrorContains(t, err, "not the program")

	rpcDown := &mockRPCClient{
		GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	_, err = monaco.New(log, rpcDown, nil, programID).GetDepositState(t.Context(), solana.NewWallet().PublicKey())
	require.ErrorContains(t, err, "failed to get account data")
}

func TestSDK_Monaco_Client_GetDepositStatesByAuthority(t *testing.T) {
	t.Parallel()

	programID := monaco.DevnetProgramID
	authority := solana.NewWallet().PublicKey()
	good := newDepositState()
	good.UserAuthority = authority
	goodPK := solana.NewWallet().PublicKey()

	mockRPC := &mockRPCClient{
		GetProgramAccountsWithOptsFunc: func(_ context.Context, pk solana.PublicKey, opts *solanarpc.GetProgramAccountsOpts) (solanarpc.GetProgramAccountsResult, error) {
			require.Equal(t, programID, pk)
			require.Len(t, opts.Filters, 2)
			require.Equal(t, uint64(0), opts.Filters[0].Memcmp.Offset)
			require.Equal(t, solana.Base58(monaco.DiscriminatorDepositState[:]), opts.Filters[0].Memcmp.Bytes)
			require.Equal(t, uint64(8), opts.Filters[1].Memcmp.Offset)
			require.Equal(t, solana.Base58(authority[:]), opts.Filters[1].Memcmp.Bytes)
			return solanarpc.GetProgramAccountsResult{
				{Pubkey: goodPK, Account: &solanarpc.Account{Data: solanarpc.DataBytesOrJSONFromBytes(serializeDepositState(t, good))}},
				{Pubkey: solana.NewWallet().PublicKey(), Account: &solanarpc.Account{Data: solanarpc.DataBytesOrJSONFromBytes([]byte{1, 2, 3})}},
			}, nil
		},
	}
	client := monaco.New(log, mockRPC, nil, programID)

	deposits, err := client.GetDepositStatesByAuthority(t.Context(), authority)
	require.NoError(t, err)
	require.Len(t, deposits, 1, "undecodable accounts are skipped")
	require.Equal(t, goodPK, deposits[0].PublicKey)
	require.Equal(t, good, deposits[0].State)

	_, err = client.GetDepositStatesByAuthority(t.Context(), solana.PublicKey{})
	require.ErrorContains(t, err, "authority is required")
}
