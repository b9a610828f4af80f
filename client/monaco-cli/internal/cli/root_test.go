package cli_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/client/monaco-cli/internal/cli"
	"github.com/monaco-dca/monaco/config"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2021-11-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMonacoCLI_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "monaco-cli 1.2.3 (commit: abc123, built: 2021-11-01)\n", out)
}

func TestMonacoCLI_IDL_FallsBackToBundled(t *testing.T) {
	t.Setenv(config.EnvVarMonacoIDLPath, filepath.Join(t.TempDir(), "missing.json"))

	out, err := execute(t, "idl")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "monaco 0.1.0\n"), out)
	require.Contains(t, out, "address: "+monaco.PROGRAM_ID_DECLARED)
	for _, name := range []string{"initialize", "deposit", "addToDeposit", "runDcaStrategy", "closeAccount"} {
		require.Contains(t, out, name)
	}
	require.Contains(t, out, "afaf6d1f0d989bed", "initialize discriminator")
}

func TestMonacoCLI_IDL_ExplicitPathMissing(t *testing.T) {
	_, err := execute(t, "idl", "--idl", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "idl file not found")
}

func TestMonacoCLI_TransferAuthority(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	reserve := solana.NewWallet().PublicKey()

	out, err := execute(t, "transfer-authority", "--env", config.EnvDevnet, "--user", user.String(), "--reserve", reserve.String())
	require.NoError(t, err)

	want, nonce, err := monaco.FindTransferAuthority(monaco.DevnetProgramID, user, reserve)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%s %d\n", want, nonce), out)

	_, err = execute(t, "transfer-authority", "--user", user.String())
	require.ErrorContains(t, err, "--reserve is required")
}

func TestMonacoCLI_InvalidEnv(t *testing.T) {
	_, err := execute(t, "transfer-authority", "--env", "testnet", "--user", solana.NewWallet().PublicKey().String(), "--reserve", solana.NewWallet().PublicKey().String())
	require.ErrorIs(t, err, config.ErrInvalidEnvironment)
}

func TestMonacoCLI_Invoke_BadAccountFlag(t *testing.T) {
	_, err := execute(t, "invoke", "initialize", "--account", "missing-separator")
	require.ErrorContains(t, err, "expected name=pubkey")
}
