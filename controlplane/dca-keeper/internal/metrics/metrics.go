package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Metrics names.
	MetricNameBuildInfo         = "monaco_dca_keeper_build_info"
	MetricNameErrors            = "monaco_dca_keeper_errors_total"
	MetricNameDepositsScanned   = "monaco_dca_keeper_deposits_scanned"
	MetricNameDepositsDue       = "monaco_dca_keeper_deposits_due"
	MetricNameExecutions        = "monaco_dca_keeper_executions_total"
	MetricNameExecutionDuration = "monaco_dca_keeper_execution_duration_seconds"
	MetricNameSwappedAmount     = "monaco_dca_keeper_swapped_amount_total"

	// Labels.
	LabelVersion   = "version"
	LabelCommit    = "commit"
	LabelDate      = "date"
	LabelErrorType = "error_type"
	LabelMarket    = "market"
	LabelResult    = "result"

	// Execution results.
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Error types.
	ErrorTypeGetDepositStates = "get_deposit_states"
	ErrorTypeUnknownMarket    = "unknown_market"
	ErrorTypeBuildExecution   = "build_execution"
	ErrorTypeRunDcaStrategy   = "run_dca_strategy"
	ErrorTypeSlippageExceeded = "slippage_exceeded"
	ErrorTypeCollateralEmpty  = "collateral_account_empty"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the dca keeper",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelErrorType},
	)

	DepositsScanned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDepositsScanned,
			Help: "Number of deposit state accounts seen in the last tick",
		},
	)

	DepositsDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDepositsDue,
			Help: "Number of deposits due for a DCA run in the last tick",
		},
	)

	Executions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameExecutions,
			Help: "Number of run_dca_strategy executions by market and result",
		},
		[]string{LabelMarket, LabelResult},
	)

	ExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameExecutionDuration,
			Help:    "Time to send and confirm a run_dca_strategy transaction",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{LabelMarket},
	)

	SwappedAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSwappedAmount,
			Help: "Sum of DidSwap to_amount by market, in base units of the dca mint",
		},
		[]string{LabelMarket},
	)
)
