package monaco

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

var (
	// ErrInstructionHasArgs is returned when an IDL-driven call targets an
	// instruction that takes arguments; use the typed builders for those.
	ErrInstructionHasArgs = errors.New("instruction takes arguments")

	ErrMissingAccount = errors.New("missing account")
)

// wellKnownAccounts are filled in automatically when the caller omits them.
var wellKnownAccounts = map[string]solana.PublicKey{
	"systemProgram":  SystemProgramID,
	"clock":          SysVarClockPK,
	"rent":           SysVarRentPK,
	"tokenProgram":   TokenProgramID,
	"tokenProgramId": TokenProgramID,
}

// BuildIDLInstruction builds a zero-argument instruction from its IDL
// definition. Accounts are keyed by their IDL name; leaves of nested groups
// are keyed by their own name.
func BuildIDLInstruction(
	programID solana.PublicKey,
	program *idl.IDL,
	name string,
	accounts map[string]solana.PublicKey,
) (solana.Instruction, error) {
	if program == nil {
		return nil, fmt.Errorf("idl is required")
	}
	ix, err := program.Instruction(name)
	if err != nil {
		return nil, err
	}
	if len(ix.Args) > 0 {
		return nil, fmt.Errorf("%w: %s has %d", ErrInstructionHasArgs, ix.Name, len(ix.Args))
	}

	flat := ix.FlattenAccounts()
	metas := make([]*solana.AccountMeta, 0, len(flat))
	for _, acct := range flat {
		pk, ok := accounts[acct.Name]
		if !ok {
			pk, ok = accounts[idl.ToSnakeCase(acct.Name)]
		}
		if !ok {
			pk, ok = wellKnownAccounts[acct.Name]
		}
		if !ok || pk.IsZero() {
			if acct.IsOptional {
				pk = programID
			} else {
				return nil, fmt.Errorf("%w: %s", ErrMissingAccount, acct.Name)
			}
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  pk,
			IsSigner:   acct.IsSigner,
			IsWritable: acct.IsMut,
		})
	}

	disc := ix.Discriminator()
	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: metas,
		DataBytes:     disc[:],
	}, nil
}
