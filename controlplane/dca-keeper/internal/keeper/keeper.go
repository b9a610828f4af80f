package keeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/jellydator/ttlcache/v3"
	"github.com/monaco-dca/monaco/controlplane/dca-keeper/internal/metrics"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
)

type Keeper struct {
	log     *slog.Logger
	cfg     Config
	markets map[MarketKey]*Market

	// executed holds deposit runs that already went through, keyed by
	// deposit and execution counter.
	executed *ttlcache.Cache[string, solana.Signature]
	pool     pond.Pool
}

// TickResult summarizes one pass over the deposit states.
type TickResult struct {
	Scanned  int
	Due      int
	Skipped  int
	Executed int
	Failed   int
}

type job struct {
	deposit  monaco.DepositAccount
	market   *Market
	cacheKey string
	config   monaco.RunDcaStrategyInstructionConfig
}

func New(cfg Config) (*Keeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	markets := make(map[MarketKey]*Market, len(cfg.Markets))
	for i := range cfg.Markets {
		m := &cfg.Markets[i]
		markets[m.Key()] = m
	}
	return &Keeper{
		log:     cfg.Logger,
		cfg:     cfg,
		markets: markets,
		executed: ttlcache.New(
			ttlcache.WithTTL[string, solana.Signature](cfg.ExecutedCacheTTL),
		),
		pool: pond.NewPool(cfg.MaxConcurrency),
	}, nil
}

func (k *Keeper) Run(ctx context.Context) error {
	k.log.Info("Starting dca keeper",
		"interval", k.cfg.Interval,
		"signer", k.cfg.Client.Signer().PublicKey(),
		"programID", k.cfg.Client.ProgramID(),
		"dexProgramID", k.cfg.DexProgramID,
		"markets", len(k.markets),
		"maxConcurrency", k.cfg.MaxConcurrency,
	)

	go k.executed.Start()
	defer k.executed.Stop()
	defer k.pool.StopAndWait()

	ticker := k.cfg.Clock.NewTicker(k.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := k.Tick(ctx); err != nil && ctx.Err() == nil {
			k.log.Error("Failed to run dca strategies", "error", err)
		}
		select {
		case <-ctx.Done():
			k.log.Info("Dca keeper stopped by context", "error", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// Tick scans all deposit states once and runs the strategy of every due
// deposit on a configured market. It returns once all runs have finished.
func (k *Keeper) Tick(ctx context.Context) (*TickResult, error) {
	deposits, err := k.getDepositStatesWithRetry(ctx)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeGetDepositStates).Inc()
		return nil, err
	}

	now := k.cfg.Clock.Now()
	res := &TickResult{Scanned: len(deposits)}
	var jobs []job
	for _, deposit := range deposits {
		if !deposit.State.IsDue(now) {
			continue
		}
		res.Due++

		key := MarketKey{Reserve: deposit.State.ReserveAccount, DcaMint: deposit.State.DcaMint}
		market, ok := k.markets[key]
		if !ok {
			k.log.Warn("No market configured for deposit, skipping", "deposit", deposit.PublicKey, "market", key)
			metrics.Errors.WithLabelValues(metrics.ErrorTypeUnknownMarket).Inc()
			res.Skipped++
			continue
		}

		cacheKey := fmt.Sprintf("%s:%d", deposit.PublicKey, deposit.State.Counter)
		if k.executed.Has(cacheKey) {
			k.log.Debug("Deposit run already executed, skipping", "deposit", deposit.PublicKey, "counter", deposit.State.Counter)
			res.Skipped++
			continue
		}

		config, err := k.buildRunConfig(deposit, market)
		if err != nil {
			k.log.Error("Failed to build run config", "deposit", deposit.PublicKey, "error", err)
			metrics.Errors.WithLabelValues(metrics.ErrorTypeBuildExecution).Inc()
			res.Failed++
			continue
		}
		jobs = append(jobs, job{deposit: deposit, market: market, cacheKey: cacheKey, config: config})
	}
	metrics.DepositsScanned.Set(float64(res.Scanned))
	metrics.DepositsDue.Set(float64(res.Due))

	var executed, failed atomic.Int64
	group := k.pool.NewGroup()
	for _, j := range jobs {
		group.Submit(func() {
			if k.execute(ctx, j) {
				executed.Add(1)
			} else {
				failed.Add(1)
			}
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to wait for executions: %w", err)
	}
	res.Executed = int(executed.Load())
	res.Failed += int(failed.Load())

	k.log.Debug("Tick finished", "scanned", res.Scanned, "due", res.Due, "skipped", res.Skipped, "executed", res.Executed, "failed", res.Failed)
	return res, nil
}

func (k *Keeper) execute(ctx context.Context, j job) bool {
	start := k.cfg.Clock.Now()
	sig, events, err := k.cfg.Client.RunDcaStrategy(ctx, j.config)
	metrics.ExecutionDuration.WithLabelValues(j.market.Name).Observe(k.cfg.Clock.Since(start).Seconds())
	if err != nil {
		errorType := metrics.ErrorTypeRunDcaStrategy
		switch {
		case errors.Is(err, monaco.ErrSlippageExceeded):
			errorType = metrics.ErrorTypeSlippageExceeded
		case errors.Is(err, monaco.ErrCollateralAccountEmpty):
			errorType = metrics.ErrorTypeCollateralEmpty
		}
		k.log.Error("Failed to run dca strategy", "deposit", j.deposit.PublicKey, "market", j.market.Name, "error", err)
		metrics.Errors.WithLabelValues(errorType).Inc()
		metrics.Executions.WithLabelValues(j.market.Name, metrics.ResultFailure).Inc()
		return false
	}

	k.executed.Set(j.cacheKey, sig, ttlcache.DefaultTTL)
	metrics.Executions.WithLabelValues(j.market.Name, metrics.ResultSuccess).Inc()
	for _, ev := range events {
		metrics.SwappedAmount.WithLabelValues(j.market.Name).Add(float64(ev.ToAmount))
		k.log.Info("Swapped", "deposit", j.deposit.PublicKey, "market", j.market.Name,
			"from", ev.FromAmount, "to", ev.ToAmount, "spill", ev.SpillAmount, "sig", sig)
	}
	if len(events) == 0 {
		k.log.Info("Ran dca strategy", "deposit", j.deposit.PublicKey, "market", j.market.Name, "sig", sig)
	}
	return true
}

// buildRunConfig fills the run_dca_strategy accounts for a deposit. The
// admin signs and the transfer authority is derived from its key. A deposit
// without an open orders account takes the market's on its first run.
func (k *Keeper) buildRunConfig(deposit monaco.DepositAccount, market *Market) (monaco.RunDcaStrategyInstructionConfig, error) {
	admin := k.cfg.AdminPK
	_, nonce, err := monaco.FindTransferAuthority(k.cfg.Client.ProgramID(), admin, market.Lending.Reserve)
	if err != nil {
		return monaco.RunDcaStrategyInstructionConfig{}, fmt.Errorf("failed to derive transfer authority: %w", err)
	}

	serum := market.Serum
	var ooa *solana.PublicKey
	if deposit.State.Ooa != nil {
		serum.OpenOrders = *deposit.State.Ooa
	} else {
		openOrders := market.Serum.OpenOrders
		ooa = &openOrders
	}

	config := monaco.RunDcaStrategyInstructionConfig{
		DepositState:          deposit.PublicKey,
		UserAuthority:         admin,
		SourceCollateral:      deposit.State.CollateralAccountKey,
		SerumRecipient:        market.SerumRecipient,
		Lending:               market.Lending,
		Market:                serum,
		DcaRecipient:          deposit.State.DcaRecipient,
		DexProgram:            k.cfg.DexProgramID,
		Nonce:                 nonce,
		Side:                  market.Side,
		MinExpectedSwapAmount: market.MinExpectedSwapAmount,
		Ooa:                   ooa,
	}
	if err := config.Validate(); err != nil {
		return monaco.RunDcaStrategyInstructionConfig{}, err
	}
	return config, nil
}

func (k *Keeper) getDepositStatesWithRetry(ctx context.Context) ([]monaco.DepositAccount, error) {
	attempt := 0
	deposits, err := backoff.Retry(ctx, func() ([]monaco.DepositAccount, error) {
		if attempt > 1 {
			k.log.Warn("Failed to get deposit states, retrying", "attempt", attempt)
		}
		attempt++
		deposits, err := k.cfg.Client.GetDepositStates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return deposits, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(k.cfg.FetchMaxElapsed))
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit states: %w", err)
	}
	return deposits, nil
}
