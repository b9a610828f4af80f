package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/monaco-dca/monaco/config"
	"github.com/monaco-dca/monaco/controlplane/dca-keeper/internal/keeper"
	"github.com/monaco-dca/monaco/controlplane/dca-keeper/internal/metrics"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
)

const (
	defaultInterval         = 1 * time.Minute
	defaultMaxConcurrency   = 4
	defaultExecutedCacheTTL = 10 * time.Minute
)

var (
	env              = flag.String("env", config.EnvDevnet, "the environment to run the keeper in (mainnet-beta, devnet, localnet)")
	rpcURL           = flag.String("rpc-url", "", "the solana rpc url, overrides the environment default")
	programID        = flag.String("program-id", "", "the monaco program id, overrides the environment default")
	dexProgramID     = flag.String("dex-program-id", "", "the serum dex program id, overrides the environment default")
	keypairPath      = flag.String("keypair", "", "the path to the admin keypair")
	marketsPath      = flag.String("markets", "", "the path to the markets YAML file")
	interval         = flag.Duration("interval", defaultInterval, "the interval to check deposits")
	maxConcurrency   = flag.Int("max-concurrency", defaultMaxConcurrency, "the maximum number of strategies run at once")
	executedCacheTTL = flag.Duration("executed-cache-ttl", defaultExecutedCacheTTL, "how long an executed deposit run is not retried")
	verbose          = flag.Bool("verbose", false, "enable verbose logging")
	showVersion      = flag.Bool("version", false, "Print the version of the dca-keeper and exit")
	metricsEnable    = flag.Bool("metrics-enable", false, "Enable prometheus metrics")
	metricsAddr      = flag.String("metrics-addr", ":8080", "Address to listen on for prometheus metrics")

	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	}))

	networkConfig, err := config.NetworkConfigForEnv(*env)
	if err != nil {
		log.Error("Failed to get network config", "error", err)
		flag.Usage()
		os.Exit(1)
	}
	if *rpcURL != "" {
		networkConfig.SolanaRPCURL = *rpcURL
	}
	if *programID != "" {
		pk, err := solana.PublicKeyFromBase58(*programID)
		if err != nil {
			log.Error("Failed to parse program ID", "error", err)
			os.Exit(1)
		}
		networkConfig.MonacoProgramID = pk
	}
	if *dexProgramID != "" {
		pk, err := solana.PublicKeyFromBase58(*dexProgramID)
		if err != nil {
			log.Error("Failed to parse dex program ID", "error", err)
			os.Exit(1)
		}
		networkConfig.DexProgramID = pk
	}

	// Validate required flags.
	if *keypairPath == "" {
		*keypairPath = os.Getenv(config.EnvVarAnchorWallet)
	}
	if *keypairPath == "" {
		log.Error("Missing required flag", "flag", "keypair")
		flag.Usage()
		os.Exit(1)
	}
	if *marketsPath == "" {
		log.Error("Missing required flag", "flag", "markets")
		flag.Usage()
		os.Exit(1)
	}

	// Set up prometheus metrics server if enabled.
	if *metricsEnable {
		metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", *metricsAddr)
			if err != nil {
				log.Error("Failed to start prometheus metrics server listener", "error", err)
				return
			}
			log.Info("Prometheus metrics server listening", "address", listener.Addr().String())
			http.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, nil); err != nil {
				log.Error("Failed to start prometheus metrics server", "error", err)
			}
		}()
	}

	keypair, err := config.LoadPrivateKeyFile(*keypairPath)
	if err != nil {
		log.Error("Failed to load admin keypair", "error", err)
		os.Exit(1)
	}

	markets, err := keeper.LoadMarketsFromYAMLFile(*marketsPath, networkConfig.LendingProgramID)
	if err != nil {
		log.Error("Failed to load markets", "error", err)
		os.Exit(1)
	}
	log.Info("Loaded markets", "count", len(markets))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rpcClient := solanarpc.New(networkConfig.SolanaRPCURL)
	client := monaco.New(log, rpcClient, &keypair, networkConfig.MonacoProgramID)

	k, err := keeper.New(keeper.Config{
		Logger:           log,
		Client:           client,
		Markets:          markets,
		AdminPK:          networkConfig.AdminPK,
		DexProgramID:     networkConfig.DexProgramID,
		Interval:         *interval,
		MaxConcurrency:   *maxConcurrency,
		ExecutedCacheTTL: *executedCacheTTL,
	})
	if err != nil {
		log.Error("Failed to create dca keeper", "error", err)
		os.Exit(1)
	}

	log.Info("Starting dca keeper",
		"version", version,
		"env", networkConfig.Moniker,
		"rpcURL", networkConfig.SolanaRPCURL,
		"programID", networkConfig.MonacoProgramID,
	)

	if err := k.Run(ctx); err != nil {
		log.Error("Dca keeper exited with error", "error", err)
		os.Exit(1)
	}
}
