package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

var ErrNoProviderURL = errors.New(EnvVarAnchorProviderURL + " is not set")

// Provider is the cluster connection and wallet an Anchor workspace is
// configured with.
type Provider struct {
	URL        string
	WalletPath string
}

// ProviderFromEnv reads the provider the Anchor CLI exports to test runs.
// The wallet defaults to the Solana CLI keypair.
func ProviderFromEnv() (*Provider, error) {
	url := os.Getenv(EnvVarAnchorProviderURL)
	if url == "" {
		return nil, ErrNoProviderURL
	}
	walletPath := os.Getenv(EnvVarAnchorWallet)
	if walletPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		walletPath = filepath.Join(home, DefaultWalletPath)
	}
	return &Provider{URL: url, WalletPath: walletPath}, nil
}

func (p *Provider) LoadWallet() (solana.PrivateKey, error) {
	return LoadPrivateKeyFile(p.WalletPath)
}
