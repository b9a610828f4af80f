package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

const (
	EnvMainnetBeta = "mainnet-beta"
	EnvMainnet     = "mainnet"
	EnvDevnet      = "devnet"
	EnvLocalnet    = "localnet"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
)

type NetworkConfig struct {
	Moniker          string
	SolanaRPCURL     string
	SolanaWSURL      string
	MonacoProgramID  solana.PublicKey
	AdminPK          solana.PublicKey
	LendingProgramID solana.PublicKey
	DexProgramID     solana.PublicKey
}

type networkConstants struct {
	moniker          string
	rpcURL           string
	wsURL            string
	monacoProgramID  string
	adminPK          string
	lendingProgramID string
	dexProgramID     string
}

func NetworkConfigForEnv(env string) (*NetworkConfig, error) {
	var c networkConstants
	switch env {
	case EnvMainnetBeta, EnvMainnet:
		c = networkConstants{EnvMainnetBeta, MainnetSolanaRPCURL, MainnetSolanaWSURL, MainnetMonacoProgramID, MainnetAdminPK, MainnetLendingProgramID, MainnetDexProgramID}
	case EnvDevnet:
		c = networkConstants{EnvDevnet, DevnetSolanaRPCURL, DevnetSolanaWSURL, DevnetMonacoProgramID, DevnetAdminPK, DevnetLendingProgramID, DevnetDexProgramID}
	case EnvLocalnet:
		c = networkConstants{EnvLocalnet, LocalnetSolanaRPCURL, LocalnetSolanaWSURL, LocalnetMonacoProgramID, LocalnetAdminPK, LocalnetLendingProgramID, LocalnetDexProgramID}
	default:
		// We intentionally do not include localnet in the error message.
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s", ErrInvalidEnvironment, env, EnvMainnetBeta, EnvDevnet)
	}

	monacoProgramID, err := solana.PublicKeyFromBase58(c.monacoProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse monaco program ID: %w", err)
	}
	adminPK, err := solana.PublicKeyFromBase58(c.adminPK)
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin PK: %w", err)
	}
	lendingProgramID, err := solana.PublicKeyFromBase58(c.lendingProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lending program ID: %w", err)
	}
	dexProgramID, err := solana.PublicKeyFromBase58(c.dexProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dex program ID: %w", err)
	}
	config := &NetworkConfig{
		Moniker:          c.moniker,
		SolanaRPCURL:     c.rpcURL,
		SolanaWSURL:      c.wsURL,
		MonacoProgramID:  monacoProgramID,
		AdminPK:          adminPK,
		LendingProgramID: lendingProgramID,
		DexProgramID:     dexProgramID,
	}

	if rpcURL := os.Getenv(EnvVarSolanaRPCURL); rpcURL != "" {
		config.SolanaRPCURL = rpcURL
	}
	if wsURL := os.Getenv(EnvVarSolanaWSURL); wsURL != "" {
		config.SolanaWSURL = wsURL
	}
	if programID := os.Getenv(EnvVarMonacoProgramID); programID != "" {
		pk, err := solana.PublicKeyFromBase58(programID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", EnvVarMonacoProgramID, err)
		}
		config.MonacoProgramID = pk
	}

	return config, nil
}

// IDLPathFromEnv returns the IDL path set in the environment, or the
// default Anchor build location.
func IDLPathFromEnv() string {
	if path := os.Getenv(EnvVarMonacoIDLPath); path != "" {
		return path
	}
	return DefaultIDLPath
}
