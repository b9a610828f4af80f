//go:build e2e

package e2e_test

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/monaco-dca/monaco/config"
)

const (
	// envE2EEnv selects the cluster the scenarios run against.
	envE2EEnv = "MONACO_E2E_ENV"
	// envE2EDepositFixture points at the deposit accounts fixture.
	envE2EDepositFixture = "MONACO_E2E_DEPOSIT_FIXTURE"
)

var (
	verbose bool
	logger  *slog.Logger
)

// TestMain is the entry point for the test suite. It runs before all tests and is used to
// initialize the logger.
func TestMain(m *testing.M) {
	flag.Parse()
	if vFlag := flag.Lookup("test.v"); vFlag != nil && vFlag.Value.String() == "true" {
		verbose = true
	}

	if verbose {
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	os.Exit(m.Run())
}

// idlPath is the IDL the scenarios load: $MONACO_IDL_PATH, or the anchor
// build output at the repository root.
func idlPath() string {
	if path := os.Getenv(config.EnvVarMonacoIDLPath); path != "" {
		return path
	}
	return filepath.Join("..", config.DefaultIDLPath)
}

func e2eEnv() string {
	if env := os.Getenv(envE2EEnv); env != "" {
		return env
	}
	return config.EnvDevnet
}
