package monaco

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/near/borsh-go"
)

// LendingAccounts are the lending reserve accounts shared by every
// instruction that moves liquidity in or out of the reserve.
type LendingAccounts struct {
	LendingProgram         solana.PublicKey
	Reserve                solana.PublicKey
	ReserveCollateralMint  solana.PublicKey
	ReserveLiquiditySupply solana.PublicKey
	LendingMarket          solana.PublicKey
	LendingMarketAuthority solana.PublicKey
}

func (l *LendingAccounts) Validate() error {
	if l.LendingProgram.IsZero() {
		return fmt.Errorf("lending program is required")
	}
	if l.Reserve.IsZero() {
		return fmt.Errorf("reserve is required")
	}
	if l.ReserveCollateralMint.IsZero() {
		return fmt.Errorf("reserve collateral mint is required")
	}
	if l.ReserveLiquiditySupply.IsZero() {
		return fmt.Errorf("reserve liquidity supply is required")
	}
	if l.LendingMarket.IsZero() {
		return fmt.Errorf("lending market is required")
	}
	if l.LendingMarketAuthority.IsZero() {
		return fmt.Errorf("lending market authority is required")
	}
	return nil
}

type DepositInstructionConfig struct {
	// Deposit is the new deposit state account; it must also sign.
	Deposit               solana.PublicKey
	UserAuthority         solana.PublicKey
	DcaMint               solana.PublicKey
	SourceLiquidity       solana.PublicKey
	DestinationCollateral solana.PublicKey
	Lending               LendingAccounts
	Nonce                 uint8
	LiquidityAmount       uint64
	Schedule              DcaSchedule
	DcaRecipient          solana.PublicKey
}

func (c *DepositInstructionConfig) Validate() error {
	if c.Deposit.IsZero() {
		return fmt.Errorf("deposit account is required")
	}
	if c.UserAuthority.IsZero() {
		return fmt.Errorf("user authority is required")
	}
	if c.DcaMint.IsZero() {
		return fmt.Errorf("dca mint is required")
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
	if !c.Schedule.Valid() {
		return fmt.Errorf("invalid dca schedule %d", c.Schedule)
	}
	if c.DcaRecipient.IsZero() {
		return fmt.Errorf("dca recipient is required")
	}
	return nil
}

func BuildDepositInstruction(
	programID solana.PublicKey,
	config DepositInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator   [8]byte
		Nonce           uint8
		LiquidityAmount uint64
		Schedule        uint8
		DcaRecipient    solana.PublicKey
	}{
		Discriminator:   idl.InstructionDiscriminator(DepositInstructionName),
		Nonce:           config.Nonce,
		LiquidityAmount: config.LiquidityAmount,
		Schedule:        uint8(config.Schedule),
		DcaRecipient:    config.DcaRecipient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	transferAuthority, err := DeriveTransferAuthority(programID, config.UserAuthority, config.Lending.Reserve, config.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to derive transfer authority: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Deposit, IsSigner: true, IsWritable: true},
		{PublicKey: config.UserAuthority, IsSigner: true, IsWritable: true},
		{PublicKey: config.Lending.LendingProgram, IsSigner: false, IsWritable: false},
		{PublicKey: config.DcaMint, IsSigner: false, IsWritable: false},
		{PublicKey: config.SourceLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: config.DestinationCollateral, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.Reserve, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveCollateralMint, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveLiquiditySupply, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: config.Lending.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: transferAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: SysVarClockPK, IsSigner: false, IsWritable: false},
		{PublicKey: TokenProgramID, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
