package keeper

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"gopkg.in/yaml.v3"
)

var ErrNoMarkets = errors.New("at least one market is required")

// MarketKey identifies the market a deposit trades on: the lending reserve
// the liquidity sits in and the mint it is averaged into.
type MarketKey struct {
	Reserve solana.PublicKey
	DcaMint solana.PublicKey
}

func (k MarketKey) String() string {
	return k.Reserve.String() + "/" + k.DcaMint.String()
}

// Market holds everything needed to run a DCA swap for deposits on one
// (reserve, dca mint) pair.
type Market struct {
	Name                  string
	DcaMint               solana.PublicKey
	Lending               monaco.LendingAccounts
	Serum                 monaco.MarketAccounts
	SerumRecipient        solana.PublicKey
	Side                  monaco.Side
	MinExpectedSwapAmount uint64
}

func (m *Market) Key() MarketKey {
	return MarketKey{Reserve: m.Lending.Reserve, DcaMint: m.DcaMint}
}

type marketsFile struct {
	Markets []marketEntry `yaml:"markets"`
}

type marketEntry struct {
	Name                  string       `yaml:"name"`
	DcaMint               string       `yaml:"dca_mint"`
	Side                  string       `yaml:"side"`
	MinExpectedSwapAmount uint64       `yaml:"min_expected_swap_amount"`
	SerumRecipient        string       `yaml:"serum_recipient"`
	Lending               lendingEntry `yaml:"lending"`
	Serum                 serumEntry   `yaml:"serum"`
}

type lendingEntry struct {
	Program                string `yaml:"program"`
	Reserve                string `yaml:"reserve"`
	ReserveCollateralMint  string `yaml:"reserve_collateral_mint"`
	ReserveLiquiditySupply string `yaml:"reserve_liquidity_supply"`
	LendingMarket          string `yaml:"lending_market"`
	LendingMarketAuthority string `yaml:"lending_market_authority"`
}

type serumEntry struct {
	Market                 string `yaml:"market"`
	OpenOrders             string `yaml:"open_orders"`
	RequestQueue           string `yaml:"request_queue"`
	EventQueue             string `yaml:"event_queue"`
	Bids                   string `yaml:"bids"`
	Asks                   string `yaml:"asks"`
	OrderPayerTokenAccount string `yaml:"order_payer_token_account"`
	CoinVault              string `yaml:"coin_vault"`
	PcVault                string `yaml:"pc_vault"`
	VaultSigner            string `yaml:"vault_signer"`
	DestinationLiquidity   string `yaml:"destination_liquidity"`
}

// LoadMarketsFromYAMLFile reads the markets file. Markets without a lending
// program fall back to defaultLendingProgram.
func LoadMarketsFromYAMLFile(path string, defaultLendingProgram solana.PublicKey) ([]Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markets file: %w", err)
	}
	return ParseMarkets(data, defaultLendingProgram)
}

func ParseMarkets(data []byte, defaultLendingProgram solana.PublicKey) ([]Market, error) {
	var file marketsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse markets file: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, ErrNoMarkets
	}

	markets := make([]Market, 0, len(file.Markets))
	seen := make(map[MarketKey]string, len(file.Markets))
	for i, entry := range file.Markets {
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("markets[%d]", i)
		}
		market, err := entry.toMarket(defaultLendingProgram)
		if err != nil {
			return nil, fmt.Errorf("invalid market %q: %w", name, err)
		}
		market.Name = name
		if other, ok := seen[market.Key()]; ok {
			return nil, fmt.Errorf("markets %q and %q share reserve and dca mint %s", other, name, market.Key())
		}
		seen[market.Key()] = name
		markets = append(markets, market)
	}
	return markets, nil
}

func (e *marketEntry) toMarket(defaultLendingProgram solana.PublicKey) (Market, error) {
	p := &keyParser{}
	m := Market{
		DcaMint:               p.parse("dca_mint", e.DcaMint),
		SerumRecipient:        p.parse("serum_recipient", e.SerumRecipient),
		MinExpectedSwapAmount: e.MinExpectedSwapAmount,
		Lending: monaco.LendingAccounts{
			LendingProgram:         defaultLendingProgram,
			Reserve:                p.parse("lending.reserve", e.Lending.Reserve),
			ReserveCollateralMint:  p.parse("lending.reserve_collateral_mint", e.Lending.ReserveCollateralMint),
			ReserveLiquiditySupply: p.parse("lending.reserve_liquidity_supply", e.Lending.ReserveLiquiditySupply),
			LendingMarket:          p.parse("lending.lending_market", e.Lending.LendingMarket),
			LendingMarketAuthority: p.parse("lending.lending_market_authority", e.Lending.LendingMarketAuthority),
		},
		Serum: monaco.MarketAccounts{
			Market:                 p.parse("serum.market", e.Serum.Market),
			OpenOrders:             p.parse("serum.open_orders", e.Serum.OpenOrders),
			RequestQueue:           p.parse("serum.request_queue", e.Serum.RequestQueue),
			EventQueue:             p.parse("serum.event_queue", e.Serum.EventQueue),
			Bids:                   p.parse("serum.bids", e.Serum.Bids),
			Asks:                   p.parse("serum.asks", e.Serum.Asks),
			OrderPayerTokenAccount: p.parse("serum.order_payer_token_account", e.Serum.OrderPayerTokenAccount),
			CoinVault:              p.parse("serum.coin_vault", e.Serum.CoinVault),
			PcVault:                p.parse("serum.pc_vault", e.Serum.PcVault),
			VaultSigner:            p.parse("serum.vault_signer", e.Serum.VaultSigner),
			DestinationLiquidity:   p.parse("serum.destination_liquidity", e.Serum.DestinationLiquidity),
		},
	}
	if e.Lending.Program != "" {
		m.Lending.LendingProgram = p.parse("lending.program", e.Lending.Program)
	}
	if p.err != nil {
		return Market{}, p.err
	}

	side, err := monaco.ParseSide(e.Side)
	if err != nil {
		return Market{}, err
	}
	m.Side = side

	if m.DcaMint.IsZero() {
		return Market{}, errors.New("dca_mint is required")
	}
	if m.SerumRecipient.IsZero() {
		return Market{}, errors.New("serum_recipient is required")
	}
	if err := m.Lending.Validate(); err != nil {
		return Market{}, err
	}
	if err := m.Serum.Validate(); err != nil {
		return Market{}, err
	}
	return m, nil
}

// keyParser keeps the first parse error so a whole entry can be read
// before checking.
type keyParser struct {
	err error
}

func (p *keyParser) parse(field, value string) solana.PublicKey {
	if p.err != nil || value == "" {
		return solana.PublicKey{}
	}
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", field, err)
		return solana.PublicKey{}
	}
	return pk
}
