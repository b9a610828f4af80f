package monaco

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/near/borsh-go"
)

type AddToDepositInstructionConfig struct {
	DepositState          solana.PublicKey
	UserAuthority         solana.PublicKey
	SourceLiquidity       solana.PublicKey
	DestinationCollateral solana.PublicKey
	Lending               LendingAccounts
	Nonce                 uint8
	LiquidityAmount       uint64
}

func (c *AddToDepositInstructionConfig) Validate() error {
	if c.DepositState.IsZero() {
		return fmt.Errorf("deposit state is required")
	}
	if c.UserAuthority.IsZero() {
		return fmt.Errorf("user authority is required")
	}
	if c.SourceLiquidity.IsZero() {
		return fmt.Errorf("source liquidity is required")
	}
	if c.DestinationCollateral.IsZero() {
		return fmt.Errorf("destination collateral is required")
	}
	if err := c.Lending.Validate(); err != nil {
		return err
	}
	if c.LiquidityAmount == 0 {
		return fmt.Errorf("liquidity amount must be greater than zero")
	}
	return nil
}

func BuildAddToDepositInstruction(
	programID solana.PublicKey,
	config AddToDepositInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator   [8]byte
		Nonce           uint8
		LiquidityAmount uint64
	}{
		Discriminator:   idl.InstructionDiscriminator(AddToDepositInstructionName),
		Nonce:           config.Nonce,
		LiquidityAmount: config.LiquidityAmount,
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
		{PublicKey: config.UserAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: config.Lending.LendingProgram, IsSigner: false, IsWritable: false},
		{PublicKey: config.SourceLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: config.DestinationCollateral, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.Reserve, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveCollateralMint, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveLiquiditySupply, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: config.Lending.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: transferAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: SysVarClockPK, IsSigner: false, IsWritable: false},
		{PublicKey: TokenProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
