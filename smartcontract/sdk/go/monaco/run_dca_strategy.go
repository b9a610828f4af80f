package monaco

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/near/borsh-go"
)

// MarketAccounts are the Serum market accounts the program hands to the
// DEX when it places the DCA order.
type MarketAccounts struct {
	Market                 solana.PublicKey
	OpenOrders             solana.PublicKey
	RequestQueue           solana.PublicKey
	EventQueue             solana.PublicKey
	Bids                   solana.PublicKey
	Asks                   solana.PublicKey
	OrderPayerTokenAccount solana.PublicKey
	CoinVault              solana.PublicKey
	PcVault                solana.PublicKey
	VaultSigner            solana.PublicKey
	DestinationLiquidity   solana.PublicKey
}

func (m *MarketAccounts) Validate() error {
	fields := []struct {
		name string
		pk   solana.PublicKey
	}{
		{"market", m.Market},
		{"open orders", m.OpenOrders},
		{"request queue", m.RequestQueue},
		{"event queue", m.EventQueue},
		{"bids", m.Bids},
		{"asks", m.Asks},
		{"order payer token account", m.OrderPayerTokenAccount},
		{"coin vault", m.CoinVault},
		{"pc vault", m.PcVault},
		{"vault signer", m.VaultSigner},
		{"destination liquidity", m.DestinationLiquidity},
	}
	for _, f := range fields {
		if f.pk.IsZero() {
			return fmt.Errorf("market %s is required", f.name)
		}
	}
	return nil
}

func (m *MarketAccounts) metas() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: m.Market, IsSigner: false, IsWritable: true},
		{PublicKey: m.OpenOrders, IsSigner: false, IsWritable: true},
		{PublicKey: m.RequestQueue, IsSigner: false, IsWritable: true},
		{PublicKey: m.EventQueue, IsSigner: false, IsWritable: true},
		{PublicKey: m.Bids, IsSigner: false, IsWritable: true},
		{PublicKey: m.Asks, IsSigner: false, IsWritable: true},
		{PublicKey: m.OrderPayerTokenAccount, IsSigner: false, IsWritable: true},
		{PublicKey: m.CoinVault, IsSigner: false, IsWritable: true},
		{PublicKey: m.PcVault, IsSigner: false, IsWritable: true},
		{PublicKey: m.VaultSigner, IsSigner: false, IsWritable: false},
		{PublicKey: m.DestinationLiquidity, IsSigner: false, IsWritable: true},
	}
}

type RunDcaStrategyInstructionConfig struct {
	DepositState solana.PublicKey
	// UserAuthority signs the run; the program only accepts the admin key.
	UserAuthority    solana.PublicKey
	SourceCollateral solana.PublicKey
	SerumRecipient   solana.PublicKey
	// Lending.Reserve is the refreshed reserve and
	// Lending.ReserveLiquiditySupply the reserve liquidity account.
	Lending               LendingAccounts
	Market                MarketAccounts
	DcaRecipient          solana.PublicKey
	DexProgram            solana.PublicKey
	Nonce                 uint8
	Side                  Side
	MinExpectedSwapAmount uint64
	Ooa                   *solana.PublicKey
}

func (c *RunDcaStrategyInstructionConfig) Validate() error {
	if c.DepositState.IsZero() {
		return fmt.Errorf("deposit state is required")
	}
	if c.UserAuthority.IsZero() {
		return fmt.Errorf("user authority is required")
	}
	if c.SourceCollateral.IsZero() {
		return fmt.Errorf("source collateral is required")
	}
	if c.SerumRecipient.IsZero() {
		return fmt.Errorf("serum recipient is required")
	}
	if err := c.Lending.Validate(); err != nil {
		return err
	}
	if err := c.Market.Validate(); err != nil {
		return err
	}
	if c.DcaRecipient.IsZero() {
		return fmt.Errorf("dca recipient is required")
	}
	if c.DexProgram.IsZero() {
		return fmt.Errorf("dex program is required")
	}
	if !c.Side.Valid() {
		return fmt.Errorf("invalid side %d", c.Side)
	}
	if c.Ooa != nil && c.Ooa.IsZero() {
		return fmt.Errorf("open orders account must not be the zero key when set")
	}
	return nil
}

func BuildRunDcaStrategyInstruction(
	programID solana.PublicKey,
	config RunDcaStrategyInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator         [8]byte
		Nonce                 uint8
		Side                  uint8
		MinExpectedSwapAmount uint64
		Ooa                   *solana.PublicKey
	}{
		Discriminator:         idl.InstructionDiscriminator(RunDcaStrategyInstructionName),
		Nonce:                 config.Nonce,
		Side:                  uint8(config.Side),
		MinExpectedSwapAmount: config.MinExpectedSwapAmount,
		Ooa:                   config.Ooa,
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
		{PublicKey: config.SourceCollateral, IsSigner: false, IsWritable: true},
		{PublicKey: config.SerumRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.Reserve, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveCollateralMint, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.ReserveLiquiditySupply, IsSigner: false, IsWritable: true},
		{PublicKey: config.Lending.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: config.Lending.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: transferAuthority, IsSigner: false, IsWritable: false},
	}
	accounts = append(accounts, config.Market.metas()...)
	accounts = append(accounts,
		&solana.AccountMeta{PublicKey: config.DcaRecipient, IsSigner: false, IsWritable: true},
		&solana.AccountMeta{PublicKey: config.DexProgram, IsSigner: false, IsWritable: false},
		&solana.AccountMeta{PublicKey: SysVarClockPK, IsSigner: false, IsWritable: false},
		&solana.AccountMeta{PublicKey: SysVarRentPK, IsSigner: false, IsWritable: false},
		&solana.AccountMeta{PublicKey: TokenProgramID, IsSigner: false, IsWritable: false},
	)

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
