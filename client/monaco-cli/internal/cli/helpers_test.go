package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
	"github.com/stretchr/testify/require"
)

func TestMonacoCLI_ParseAccountFlags(t *testing.T) {
	t.Parallel()

	user := solana.NewWallet().PublicKey()
	reserve := solana.NewWallet().PublicKey()

	accounts, err := parseAccountFlags([]string{"userAuthority=" + user.String(), " reserve = " + reserve.String()})
	require.NoError(t, err)
	require.Equal(t, map[string]solana.PublicKey{"userAuthority": user, "reserve": reserve}, accounts)

	_, err = parseAccountFlags([]string{"=" + user.String()})
	require.ErrorContains(t, err, "expected name=pubkey")

	_, err = parseAccountFlags([]string{"reserve=nope"})
	require.ErrorContains(t, err, `invalid pubkey for account "reserve"`)

	_, err = parseAccountFlags([]string{"a=" + user.String(), "a=" + reserve.String()})
	require.ErrorContains(t, err, "given more than once")
}

func TestMonacoCLI_RenderDeposits(t *testing.T) {
	t.Parallel()

	created := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	due := monaco.DepositAccount{
		PublicKey: solana.NewWallet().PublicKey(),
		State:     monaco.DepositState{Schedule: monaco.DcaScheduleDaily, CreatedAt: created.Unix(), LiquidityAmount: 111},
	}
	notDue := monaco.DepositAccount{
		PublicKey: solana.NewWallet().PublicKey(),
		State:     monaco.DepositState{Schedule: monaco.DcaScheduleQuarterly, CreatedAt: created.Unix(), LiquidityAmount: 222},
	}
	now := created.Add(48 * time.Hour)

	var all bytes.Buffer
	renderDeposits(&all, []monaco.DepositAccount{notDue, due}, now, false)
	require.Contains(t, all.String(), due.PublicKey.String())
	require.Contains(t, all.String(), notDue.PublicKey.String())
	require.Less(t, bytes.Index(all.Bytes(), []byte(due.PublicKey.String())), bytes.Index(all.Bytes(), []byte(notDue.PublicKey.String())), "sorted by next execution")

	var dueOnly bytes.Buffer
	renderDeposits(&dueOnly, []monaco.DepositAccount{notDue, due}, now, true)
	require.Contains(t, dueOnly.String(), due.PublicKey.String())
	require.NotContains(t, dueOnly.String(), notDue.PublicKey.String())
}

func TestMonacoCLI_PrintDepositState(t *testing.T) {
	t.Parallel()

	ooa := solana.NewWallet().PublicKey()
	state := &monaco.DepositState{
		Schedule:  monaco.DcaScheduleWeekly,
		CreatedAt: time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC).Unix(),
		Ooa:       &ooa,
		Counter:   1,
	}
	var out bytes.Buffer
	printDepositState(&out, solana.NewWallet().PublicKey(), state, time.Date(2021, 11, 20, 0, 0, 0, 0, time.UTC))
	require.Contains(t, out.String(), "weekly")
	require.Contains(t, out.String(), ooa.String())
	require.Contains(t, out.String(), "2021-11-15T00:00:00Z (due: true)")
}
