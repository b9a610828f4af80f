package monaco_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/stretchr/testify/require"
)

func TestSDK_Monaco_FindTransferAuthority_MatchesDerive(t *testing.T) {
	t.Parallel()

	programID := monaco.DeclaredProgramID
	user := solana.NewWallet().PublicKey()
	reserve := solana.NewWallet().PublicKey()

	found, nonce, err := monaco.FindTransferAuthority(programID, user, reserve)
	require.NoError(t, err)
	require.False(t, found.IsOnCurve())

	derived, err := monaco.DeriveTransferAuthority(programID, user, reserve, nonce)
	require.NoError(t, err)
	require.Equal(t, found, derived)

	again, againNonce, err := monaco.FindTransferAuthority(programID, user, reserve)
	require.NoError(t, err)
	require.Equal(t, found, again)
	require.Equal(t, nonce, againNonce)
}

func TestSDK_Monaco_FindTransferAuthority_DependsOnInputs(t *testing.T) {
	t.Parallel()

	user := solana.NewWallet().PublicKey()
	reserve := solana.NewWallet().PublicKey()

	a, _, err := monaco.FindTransferAuthority(monaco.DeclaredProgramID, user, reserve)
	require.NoError(t, err)
	b, _, err := monaco.FindTransferAuthority(monaco.DevnetProgramID, user, reserve)
	require.NoError(t, err)
	c, _, err := monaco.FindTransferAuthority(monaco.DeclaredProgramID, reserve, user)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}

func TestSDK_Monaco_DeriveTransferAuthority_RequiresKeys(t *testing.T) {
	t.Parallel()

	_, err := monaco.DeriveTransferAuthority(monaco.DeclaredProgramID, solana.PublicKey{}, solana.NewWallet().PublicKey(), 255)
	require.ErrorContains(t, err, "user authority is required")

	_, _, err = monaco.FindTransferAuthority(monaco.DeclaredProgramID, solana.NewWallet().PublicKey(), solana.PublicKey{})
	require.ErrorContains(t, err, "reserve is required")
}
