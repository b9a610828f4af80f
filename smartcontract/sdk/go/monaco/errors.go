package monaco

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// ProgramError is a custom error returned by the program.
type ProgramError struct {
	Code uint32
	Name string
	Msg  string
	// Instruction is the index of the failing instruction in the transaction.
	Instruction int
}

func (e *ProgramError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("program error %d (%s): %s", e.Code, e.Name, e.Msg)
	}
	return fmt.Sprintf("program error %d (%s)", e.Code, e.Name)
}

// Is matches program errors by code, so callers can compare against the
// sentinel values below with errors.Is.
func (e *ProgramError) Is(target error) bool {
	var t *ProgramError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidSomething        = &ProgramError{Code: AnchorErrorCodeOffset + 0, Name: "InvalidSomething", Msg: "Template Error"}
	ErrInvalidDerivedAuthority = &ProgramError{Code: AnchorErrorCodeOffset + 1, Name: "InvalidDerivedAuthority", Msg: "Invalid authority derivation"}
	ErrSwapTokensCannotMatch   = &ProgramError{Code: AnchorErrorCodeOffset + 2, Name: "SwapTokensCannotMatch", Msg: "The tokens being swapped must have different mints"}
	ErrSlippageExceeded        = &ProgramError{Code: AnchorErrorCodeOffset + 3, Name: "SlippageExceeded", Msg: "Slippage tolerance exceeded"}
	ErrInvalidAdmin            = &ProgramError{Code: AnchorErrorCodeOffset + 4, Name: "InvalidAdmin", Msg: "Privileged instruction called by incorrect admin"}
	ErrCollateralAccountEmpty  = &ProgramError{Code: AnchorErrorCodeOffset + 5, Name: "CollateralAccountIsEmpty", Msg: "Collateral account is already empty"}
)

var programErrors = map[uint32]*ProgramError{}

func init() {
	for _, e := range []*ProgramError{
		ErrInvalidSomething,
		ErrInvalidDerivedAuthority,
		ErrSwapTokensCannotMatch,
		ErrSlippageExceeded,
		ErrInvalidAdmin,
		ErrCollateralAccountEmpty,
	} {
		programErrors[e.Code] = e
	}
}

// ProgramErrorFromCode resolves a custom error code. Unknown codes still
// produce a ProgramError so callers can inspect the raw value.
func ProgramErrorFromCode(code uint32) *ProgramError {
	if known, ok := programErrors[code]; ok {
		e := *known
		return &e
	}
	return &ProgramError{Code: code, Name: "Custom"}
}

// ParseTransactionError extracts a program error from a transaction error
// value, as found in rpc error data or transaction meta:
// {"InstructionError": [idx, {"Custom": code}]}.
func ParseTransactionError(v any) (*ProgramError, bool) {
	data, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	ie, ok := data["InstructionError"].([]any)
	if !ok || len(ie) != 2 {
		return nil, false
	}
	custom, ok := ie[1].(map[string]any)
	if !ok {
		return nil, false
	}
	code, ok := toUint32(custom["Custom"])
	if !ok {
		return nil, false
	}
	perr := ProgramErrorFromCode(code)
	if idx, ok := toUint32(ie[0]); ok {
		perr.Instruction = int(idx)
	}
	return perr, true
}

// ParseRPCError extracts a program error from a failed preflight simulation.
func ParseRPCError(err error) (*ProgramError, bool) {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return nil, false
	}
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		return nil, false
	}
	return ParseTransactionError(data["err"])
}

func toUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(u), true
	case float64:
		if n < 0 || n != float64(uint32(n)) {
			return 0, false
		}
		return uint32(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case uint32:
		return n, true
	default:
		return 0, false
	}
}
