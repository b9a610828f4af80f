package keeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
)

var (
	ErrLoggerRequired     = errors.New("logger is required")
	ErrClientRequired     = errors.New("monaco client is required")
	ErrSignerRequired     = errors.New("signer is required")
	ErrSignerNotAdmin     = errors.New("signer is not the program admin")
	ErrMarketsRequired    = errors.New("markets are required")
	ErrDexProgramRequired = errors.New("dex program is required")
	ErrIntervalRequired   = errors.New("interval is required")
)

const (
	defaultMaxConcurrency   = 4
	defaultExecutedCacheTTL = 10 * time.Minute
	defaultFetchMaxElapsed  = 30 * time.Second
)

type Config struct {
	Logger *slog.Logger
	Client MonacoClient
	Clock  clockwork.Clock

	Markets      []Market
	AdminPK      solana.PublicKey
	DexProgramID solana.PublicKey
	Interval     time.Duration

	// MaxConcurrency bounds how many run_dca_strategy transactions are in
	// flight at once.
	MaxConcurrency int
	// ExecutedCacheTTL is how long an executed deposit run is skipped while
	// its state update propagates.
	ExecutedCacheTTL time.Duration
	// FetchMaxElapsed caps the retries of the deposit state scan.
	FetchMaxElapsed time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.Client == nil {
		return ErrClientRequired
	}
	signer := c.Client.Signer()
	if signer == nil || !signer.IsValid() {
		return ErrSignerRequired
	}
	if c.AdminPK.IsZero() {
		c.AdminPK = monaco.AdminPK
	}
	if !signer.PublicKey().Equals(c.AdminPK) {
		return ErrSignerNotAdmin
	}
	if len(c.Markets) == 0 {
		return ErrMarketsRequired
	}
	if c.DexProgramID.IsZero() {
		return ErrDexProgramRequired
	}
	if c.Interval <= 0 {
		return ErrIntervalRequired
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = defaultMaxConcurrency
	}
	if c.ExecutedCacheTTL <= 0 {
		c.ExecutedCacheTTL = defaultExecutedCacheTTL
	}
	if c.FetchMaxElapsed <= 0 {
		c.FetchMaxElapsed = defaultFetchMaxElapsed
	}
	return nil
}

type MonacoClient interface {
	ProgramID() solana.PublicKey
	Signer() *solana.PrivateKey
	GetDepositStates(ctx context.Context) ([]monaco.DepositAccount, error)
	RunDcaStrategy(ctx context.Context, config monaco.RunDcaStrategyInstructionConfig) (solana.Signature, []monaco.DidSwap, error)
}
