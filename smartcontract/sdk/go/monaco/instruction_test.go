package monaco_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/stretchr/testify/require"
)

// requireMatchesIDL checks the account metas of a built instruction against
// the flags of the bundled IDL.
func requireMatchesIDL(t *testing.T, name string, ix solana.Instruction) {
	t.Helper()

	program, err := monaco.DefaultIDL()
	require.NoError(t, err)
	def, err := program.Instruction(name)
	require.NoError(t, err)

	disc := def.Discriminator()
	data, err := ix.Data()
	require.NoError(t, err)
	require.Equal(t, disc[:], data[:idl.DiscriminatorSize])

	flat := def.FlattenAccounts()
	metas := ix.Accounts()
	require.Len(t, metas, len(flat))
	for i, acct := range flat {
		require.Equal(t, acct.IsMut, metas[i].IsWritable, "account %d (%s) writable", i, acct.Name)
		require.Equal(t, acct.IsSigner, metas[i].IsSigner, "account %d (%s) signer", i, acct.Name)
	}
}

func TestSDK_Monaco_BuildInitializeInstruction(t *testing.T) {
	t.Parallel()

	ix, err := monaco.BuildInitializeInstruction(monaco.DevnetProgramID)
	require.NoError(t, err)
	require.Equal(t, monaco.DevnetProgramID, ix.ProgramID())
	requireMatchesIDL(t, monaco.InitializeInstructionName, ix)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{175, 175, 109, 31, 13, 152, 155, 237}, data)
}

func TestSDK_Monaco_BuildDepositInstruction(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	user := solana.NewWallet().PublicKey()
	cfg := newDepositConfig(t, programID, user)

	ix, err := monaco.BuildDepositInstruction(programID, cfg)
	require.NoError(t, err)
	requireMatchesIDL(t, monaco.DepositInstructionName, ix)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+8+1+32)
	require.Equal(t, cfg.Nonce, data[8])
	require.Equal(t, cfg.LiquidityAmount, binary.LittleEndian.Uint64(data[9:17]))
	require.Equal(t, uint8(monaco.DcaScheduleWeekly), data[17])
	require.Equal(t, cfg.DcaRecipient[:], data[18:50])

	authority, err := monaco.DeriveTransferAuthority(programID, user, cfg.Lending.Reserve, cfg.Nonce)
	require.NoError(t, err)
	metas := ix.Accounts()
	require.Equal(t, cfg.Deposit, metas[0].PublicKey)
	require.Equal(t, user, metas[1].PublicKey)
	require.Equal(t, cfg.Lending.Reserve, metas[6].PublicKey)
	require.Equal(t, authority, metas[11].PublicKey)
	require.Equal(t, monaco.SystemProgramID, metas[12].PublicKey)
	require.Equal(t, monaco.SysVarClockPK, metas[13].PublicKey)
	require.Equal(t, monaco.TokenProgramID, metas[14].PublicKey)
}

func TestSDK_Monaco_BuildDepositInstruction_Validation(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	user := solana.NewWallet().PublicKey()

	tests := []struct {
		name   string
		mutate func(*monaco.DepositInstructionConfig)
		errMsg string
	}{
		{"missing deposit", func(c *monaco.DepositInstructionConfig) { c.Deposit = solana.PublicKey{} }, "deposit account is required"},
		{"missing user", func(c *monaco.DepositInstructionConfig) { c.UserAuthority = solana.PublicKey{} }, "user authority is required"},
		{"missing reserve", func(c *monaco.DepositInstructionConfig) { c.Lending.Reserve = solana.PublicKey{} }, "reserve is required"},
		{"zero amount", func(c *monaco.DepositInstructionConfig) { c.LiquidityAmount = 0 }, "liquidity amount must be greater than zero"},
		{"bad schedule", func(c *monaco.DepositInstructionConfig) { c.Schedule = 9 }, "invalid dca schedule"},
		{"missing recipient", func(c *monaco.DepositInstructionConfig) { c.DcaRecipient = solana.PublicKey{} }, "dca recipient is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := newDepositConfig(t, programID, user)
			tt.mutate(&cfg)
			_, err := monaco.BuildDepositInstruction(programID, cfg)
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestSDK_Monaco_BuildAddToDepositInstruction(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	user := solana.NewWallet().PublicKey()
	lending := newLendingAccounts()
	cfg := monaco.AddToDepositInstructionConfig{
		DepositState:          solana.NewWallet().PublicKey(),
		UserAuthority:         user,
		SourceLiquidity:       solana.NewWallet().PublicKey(),
		DestinationCollateral: solana.NewWallet().PublicKey(),
		Lending:               lending,
		Nonce:                 findNonce(t, programID, user, lending.Reserve),
		LiquidityAmount:       500,
	}

	ix, err := monaco.BuildAddToDepositInstruction(programID, cfg)
	require.NoError(t, err)
	requireMatchesIDL(t, monaco.AddToDepositInstructionName, ix)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+8)
	require.Equal(t, uint64(500), binary.LittleEndian.Uint64(data[9:]))

	cfg.LiquidityAmount = 0
	_, err = monaco.BuildAddToDepositInstruction(programID, cfg)
	require.ErrorContains(t, err, "liquidity amount must be greater than zero")
}

func TestSDK_Monaco_BuildRunDcaStrategyInstruction(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	admin := monaco.AdminPK
	cfg := newRunDcaStrategyConfig(t, programID, admin)

	ix, err := monaco.BuildRunDcaStrategyInstruction(programID, cfg)
	require.NoError(t, err)
	requireMatchesIDL(t, monaco.RunDcaStrategyInstructionName, ix)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+1+8+1, "ooa encodes as a single None byte")
	require.Equal(t, uint8(monaco.SideBid), data[9])
	require.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[10:18]))
	require.Equal(t, byte(0), data[18])

	metas := ix.Accounts()
	require.Len(t, metas, 27)
	require.Equal(t, admin, metas[1].PublicKey)
	require.Equal(t, cfg.Market.Market, metas[11].PublicKey)
	require.Equal(t, cfg.Market.DestinationLiquidity, metas[21].PublicKey)
	require.Equal(t, cfg.DcaRecipient, metas[22].PublicKey)
	require.Equal(t, cfg.DexProgram, metas[23].PublicKey)
	require.Equal(t, monaco.TokenProgramID, metas[26].PublicKey)
}

func TestSDK_Monaco_BuildRunDcaStrategyInstruction_WithOpenOrders(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	cfg := newRunDcaStrategyConfig(t, programID, monaco.AdminPK)
	ooa := solana.NewWallet().PublicKey()
	cfg.Ooa = &ooa
	cfg.Side = monaco.SideAsk

	ix, err := monaco.BuildRunDcaStrategyInstruction(programID, cfg)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+1+8+1+32)
	require.Equal(t, uint8(monaco.SideAsk), data[9])
	require.Equal(t, byte(1), data[18])
	require.Equal(t, ooa[:], data[19:])

	zero := solana.PublicKey{}
	cfg.Ooa = &zero
	_, err = monaco.BuildRunDcaStrategyInstruction(programID, cfg)
	require.ErrorContains(t, err, "open orders account must not be the zero key")

	cfg.Ooa = nil
	cfg.Market.VaultSigner = solana.PublicKey{}
	_, err = monaco.BuildRunDcaStrategyInstruction(programID, cfg)
	require.ErrorContains(t, err, "market vault signer is required")
}

func TestSDK_Monaco_BuildCloseAccountInstruction(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	user := solana.NewWallet().PublicKey()
	lending := newLendingAccounts()
	cfg := monaco.CloseAccountInstructionConfig{
		DepositState:       solana.NewWallet().PublicKey(),
		UserAuthority:      user,
		LiquidityRecipient: solana.NewWallet().PublicKey(),
		SourceCollateral:   solana.NewWallet().PublicKey(),
		SerumRecipient:     solana.NewWallet().PublicKey(),
		Lending:            lending,
		Nonce:              findNonce(t, programID, user, lending.Reserve),
	}

	ix, err := monaco.BuildCloseAccountInstruction(programID, cfg)
	require.NoError(t, err)
	requireMatchesIDL(t, monaco.CloseAccountInstructionName, ix)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 9)
	require.Equal(t, cfg.Nonce, data[8])

	cfg.LiquidityRecipient = solana.PublicKey{}
	_, err = monaco.BuildCloseAccountInstruction(programID, cfg)
	require.ErrorContains(t, err, "liquidity recipient is required")
}
