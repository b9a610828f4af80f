package monaco

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/near/borsh-go"
)

type CloseAccountInstructionConfig struct {
	DepositState       solana.PublicKey
	UserAuthority      solana.PublicKey
	LiquidityRecipient solana.PublicKey
	SourceCollateral   solana.PublicKey
	SerumRecipient     solana.PublicKey
	// Lending.Reserve is the refreshed reserve and
	// Lending.ReserveLiquiditySupply the reserve liquidity account.
	Lending LendingAccounts
	Nonce   uint8
}

func (c *CloseAccountInstructionConfig) Validate() error {
	if c.DepositState.IsZero() {
		return fmt.Errorf("deposit state is required")
	}
	if c.UserAuthority.IsZero() {
		return fmt.Errorf("user authority is required")
	}
	if c.LiquidityRecipient.IsZero() {
		return fmt.Errorf("liquidity recipient is required")
	}
	if c.SourceCollateral.IsZero() {
		return fmt.Errorf("source collateral is required")
	}
	if c.SerumRecipient.IsZero() {
		return fmt.Errorf("serum recipient is required")
	}
	return c.Lending.Validate()
}

func BuildCloseAccountInstruction(
	programID solana.PublicKey,
	config CloseAccountInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Nonce         uint8
	}{
		Discriminator: idl.InstructionDiscriminator(CloseAccountInstructionName),
		Nonce:         config.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	transferAuthority, err := DeriveTransferAuthority(programID, config.UserAuthority, config.Lending.Reserve, config.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to derive transfer authority: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.DepositState, IsSigner: false, IsWritable: true},
		{PublicKey: config.UserAuthority, IsSigner: true, IsWritable: true},
		{PublicKey: config.LiquidityRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.LendingProgram, IsSigner: false, IsWritable: false},
		{PublicKey: config.SourceCollateral, IsSigner: false, IsWritable: true},
		{PublicKey: config.SerumRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.Reserve, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveCollateralMint, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveLiquiditySupply, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: config.Lending.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: transferAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: SysVarClockPK, IsSigner: false, IsWritable: false},
		{PublicKey: SysVarRentPK, IsSigner: false, IsWritable: false},
		{PublicKey: TokenProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
