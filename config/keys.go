package config

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidPrivateKey = errors.New("invalid private key")

// ParsePrivateKey accepts a keypair as a JSON byte array (the Solana CLI
// keygen format), a base58 string, or a path to a keygen file.
func ParsePrivateKey(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPrivateKey)
	}
	if strings.HasPrefix(s, "[") {
		key, err := solana.PrivateKeyFromSolanaKeygenFileBytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		return validatePrivateKey(key)
	}
	if _, err := os.Stat(s); err == nil {
		return LoadPrivateKeyFile(s)
	}
	key, err := solana.PrivateKeyFromBase58(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not a JSON array, file or base58 string: %v", ErrInvalidPrivateKey, err)
	}
	return validatePrivateKey(key)
}

// LoadPrivateKeyFile reads a Solana CLI keygen file.
func LoadPrivateKeyFile(path string) (solana.PrivateKey, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read keypair file: %w", err)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return validatePrivateKey(key)
}

// validatePrivateKey checks the length and that the trailing public half
// matches the seed.
func validatePrivateKey(key solana.PrivateKey) (solana.PrivateKey, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, ed25519.PrivateKeySize, len(key))
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived, key) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidPrivateKey)
	}
	return key, nil
}
