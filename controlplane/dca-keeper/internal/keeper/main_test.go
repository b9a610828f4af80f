package keeper_test

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/lmittmann/tint"
	"github.com/monaco-dca/monaco/controlplane/dca-keeper/internal/keeper"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

var (
	logger *slog.Logger
)

// TestMain sets up the test environment with a global logger.
func TestMain(m *testing.M) {
	flag.Parse()
	verbose := false
	if vFlag := flag.Lookup("test.v"); vFlag != nil && vFlag.Value.String() == "true" {
		verbose = true
	}
	if verbose {
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	os.Exit(m.Run())
}

type mockMonacoClient struct {
	ProgramIDFunc        func() solana.PublicKey
	SignerFunc           func() *solana.PrivateKey
	GetDepositStatesFunc func(ctx context.Context) ([]monaco.DepositAccount, error)
	RunDcaStrategyFunc   func(ctx context.Context, config monaco.RunDcaStrategyInstructionConfig) (solana.Signature, []monaco.DidSwap, error)
}

func (m *mockMonacoClient) ProgramID() solana.PublicKey {
	return m.ProgramIDFunc()
}

func (m *mockMonacoClient) Signer() *solana.PrivateKey {
	return m.SignerFunc()
}

func (m *mockMonacoClient) GetDepositStates(ctx context.Context) ([]monaco.DepositAccount, error) {
	return m.GetDepositStatesFunc(ctx)
}

func (m *mockMonacoClient) RunDcaStrategy(ctx context.Context, config monaco.RunDcaStrategyInstructionConfig) (solana.Signature, []monaco.DidSwap, error) {
	return m.RunDcaStrategyFunc(ctx, config)
}

// recordingClient serves a fixed set of deposits and records every run.
type recordingClient struct {
	mockMonacoClient

	mu   sync.Mutex
	runs []monaco.RunDcaStrategyInstructionConfig
}

func newRecordingClient(signer solana.PrivateKey, deposits []monaco.DepositAccount, runErr error) *recordingClient {
	c := &recordingClient{}
	c.ProgramIDFunc = func() solana.PublicKey { return monaco.DevnetProgramID }
	c.SignerFunc = func() *solana.PrivateKey { return &signer }
	c.GetDepositStatesFunc = func(ctx context.Context) ([]monaco.DepositAccount, error) {
		return deposits, nil
	}
	c.RunDcaStrategyFunc = func(ctx context.Context, config monaco.RunDcaStrategyInstructionConfig) (solana.Signature, []monaco.DidSwap, error) {
		c.mu.Lock()
		c.runs = append(c.runs, config)
		c.mu.Unlock()
		if runErr != nil {
			return solana.Signature{}, nil, runErr
		}
		return solana.Signature{1}, []monaco.DidSwap{{GivenAmount: 10, FromAmount: 10, ToAmount: 5, Authority: config.UserAuthority}}, nil
	}
	return c
}

func (c *recordingClient) Runs() []monaco.RunDcaStrategyInstructionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]monaco.RunDcaStrategyInstructionConfig(nil), c.runs...)
}

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func newMarket(name string) keeper.Market {
	return keeper.Market{
		Name:    name,
		DcaMint: newKey(),
		Lending: monaco.LendingAccounts{
			LendingProgram:         newKey(),
			Reserve:                newKey(),
			ReserveCollateralMint:  newKey(),
			ReserveLiquiditySupply: newKey(),
			LendingMarket:          newKey(),
			LendingMarketAuthority: newKey(),
		},
		Serum: monaco.MarketAccounts{
			Market:                 newKey(),
			OpenOrders:             newKey(),
			RequestQueue:           newKey(),
			EventQueue:             newKey(),
			Bids:                   newKey(),
			Asks:                   newKey(),
			OrderPayerTokenAccount: newKey(),
			CoinVault:              newKey(),
			PcVault:                newKey(),
			VaultSigner:            newKey(),
			DestinationLiquidity:   newKey(),
		},
		SerumRecipient:        newKey(),
		Side:                  monaco.SideBid,
		MinExpectedSwapAmount: 1,
	}
}

func newDeposit(market keeper.Market, createdAt time.Time, schedule monaco.DcaSchedule, counter uint16) monaco.DepositAccount {
	return monaco.DepositAccount{
		PublicKey: newKey(),
		State: monaco.DepositState{
			UserAuthority:        newKey(),
			CollateralAccountKey: newKey(),
			LiquidityAmount:      1_000_000,
			CollateralAmount:     990_000,
			Schedule:             schedule,
			ReserveAccount:       market.Lending.Reserve,
			DcaMint:              market.DcaMint,
			DcaRecipient:         newKey(),
			CreatedAt:            createdAt.Unix(),
			Counter:              counter,
		},
	}
}

func getCounterValue(t *testing.T, vec *prometheus.CounterVec, labelValues ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labelValues...)
	require.NoError(t, err)
	var m io_prometheus_client.Metric
	require.NoError(t, counter.Write(&m))
	return m.GetCounter().GetValue()
}
