package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/lmittmann/tint"
	"github.com/monaco-dca/monaco/config"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo) ExitCode {
	if err := NewRootCmd(info).Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// RPCFactory opens an RPC client for the resolved RPC URL.
type RPCFactory func(url string) monaco.RPCClient

func newSolanaRPC(url string) monaco.RPCClient {
	return solanarpc.New(url)
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	return NewRootCmdWithRPC(info, newSolanaRPC)
}

// NewRootCmdWithRPC builds the command tree with every network command
// talking to the RPC client returned by newRPC.
func NewRootCmdWithRPC(info BuildInfo, newRPC RPCFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "monaco-cli",
		Short:        "CLI for the monaco DCA program.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "set debug logging level")
	flags.StringP("env", "e", config.EnvDevnet, "The network environment (mainnet-beta, devnet, localnet)")
	flags.String("rpc-url", "", "Solana RPC URL override")
	flags.String("program-id", "", "Monaco program ID override")
	flags.StringP("keypair", "k", "", "Signer keypair: keygen file path, JSON byte array or base58 (default: $ANCHOR_WALLET or ~/.config/solana/id.json)")
	flags.String("idl", "", "Path to the program IDL (default: $MONACO_IDL_PATH, target/idl/monaco.json, then the bundled IDL)")

	rootCmd.AddCommand(
		NewIDLCmd().Command(),
		NewInitializeCmd(newRPC).Command(),
		NewInvokeCmd(newRPC).Command(),
		NewDepositCmd(newRPC).Command(),
		NewAddToDepositCmd(newRPC).Command(),
		NewCloseCmd(newRPC).Command(),
		NewDepositStateCmd(newRPC).Command(),
		NewDepositsCmd(newRPC).Command(),
		NewTransferAuthorityCmd().Command(),
		NewVersionCmd(info).Command(),
	)

	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose   bool
	env       string
	rpcURL    string
	programID string
	keypair   string
	idlPath   string
}

func readGlobalFlags(cmd *cobra.Command) (*globalFlags, error) {
	flags := cmd.Root().PersistentFlags()
	var g globalFlags
	var err error
	if g.verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if g.env, err = flags.GetString("env"); err != nil {
		return nil, fmt.Errorf("failed to get env flag: %w", err)
	}
	if g.rpcURL, err = flags.GetString("rpc-url"); err != nil {
		return nil, fmt.Errorf("failed to get rpc-url flag: %w", err)
	}
	if g.programID, err = flags.GetString("program-id"); err != nil {
		return nil, fmt.Errorf("failed to get program-id flag: %w", err)
	}
	if g.keypair, err = flags.GetString("keypair"); err != nil {
		return nil, fmt.Errorf("failed to get keypair flag: %w", err)
	}
	if g.idlPath, err = flags.GetString("idl"); err != nil {
		return nil, fmt.Errorf("failed to get idl flag: %w", err)
	}
	return &g, nil
}

// network resolves the network config with the flag overrides applied.
func (g *globalFlags) network() (*config.NetworkConfig, error) {
	net, err := config.NetworkConfigForEnv(g.env)
	if err != nil {
		return nil, err
	}
	if g.rpcURL != "" {
		net.SolanaRPCURL = g.rpcURL
	}
	if g.programID != "" {
		pk, err := solana.PublicKeyFromBase58(g.programID)
		if err != nil {
			return nil, fmt.Errorf("invalid program id: %w", err)
		}
		net.MonacoProgramID = pk
	}
	return net, nil
}

// signer loads the keypair from the flag, then the Anchor wallet env, then
// the Solana CLI default.
func (g *globalFlags) signer() (*solana.PrivateKey, error) {
	source := g.keypair
	if source == "" {
		source = os.Getenv(config.EnvVarAnchorWallet)
	}
	if source == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		source = filepath.Join(home, config.DefaultWalletPath)
	}
	key, err := config.ParsePrivateKey(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair: %w", err)
	}
	return &key, nil
}

// loadIDL loads the IDL from the flag or environment, falling back to the
// bundled copy when no local build exists.
func (g *globalFlags) loadIDL() (*idl.IDL, error) {
	if g.idlPath != "" {
		return idl.Load(g.idlPath)
	}
	program, err := idl.Load(config.IDLPathFromEnv())
	if err == nil {
		return program, nil
	}
	if !errors.Is(err, idl.ErrIDLNotFound) {
		return nil, err
	}
	return monaco.DefaultIDL()
}

func (g *globalFlags) newClient(log *slog.Logger, newRPC RPCFactory, withSigner bool) (*monaco.Client, *config.NetworkConfig, error) {
	net, err := g.network()
	if err != nil {
		return nil, nil, err
	}
	var signer *solana.PrivateKey
	if withSigner {
		signer, err = g.signer()
		if err != nil {
			return nil, nil, err
		}
		log.Debug("Loaded signer", "pubkey", signer.PublicKey())
	}
	rpcClient := newRPC(net.SolanaRPCURL)
	log.Debug("Using network", "env", net.Moniker, "rpc", net.SolanaRPCURL, "program", net.MonacoProgramID)
	return monaco.New(log, rpcClient, signer, net.MonacoProgramID), net, nil
}

func pubkeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if value == "" {
		return solana.PublicKey{}, nil
	}
	pk, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return pk, nil
}

func requiredPubkeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	pk, err := pubkeyFlag(cmd, name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if pk.IsZero() {
		return solana.PublicKey{}, fmt.Errorf("--%s is required", name)
	}
	return pk, nil
}
