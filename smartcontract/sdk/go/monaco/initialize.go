package monaco

import (
	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

// BuildInitializeInstruction builds the program's no-op initialize call.
func BuildInitializeInstruction(programID solana.PublicKey) (solana.Instruction, error) {
	disc := idl.InstructionDiscriminator(InitializeInstructionName)
	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: solana.AccountMetaSlice{},
		DataBytes:     disc[:],
	}, nil
}
