package monaco

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Instruction names as the program registers them.
const (
	InitializeInstructionName     = "initialize"
	DepositInstructionName        = "deposit"
	AddToDepositInstructionName   = "add_to_deposit"
	RunDcaStrategyInstructionName = "run_dca_strategy"
	CloseAccountInstructionName   = "close_account"
)

// Monaco Program IDs
const (
	// PROGRAM_ID_DECLARED is the program ID compiled into the program binary.
	PROGRAM_ID_DECLARED = "BuYep31Y9ahB7qYPnTXY8zPVr4m341WPknmKj7RjGnaD"
	// PROGRAM_ID_DEVNET is the program ID deployed to devnet.
	PROGRAM_ID_DEVNET = "DXxoamtnFQ2Qg8WeSoF5ezgEZ6fST9iQTbpxkuFAr7Ld"
	// ADMIN_PK is the fee recipient, the only key allowed to run DCA strategies.
	ADMIN_PK = "rohanrAYfWTd7DtNHVtoJFxdLYspwToEr55BqFdfkZd"
)

const (
	// AccountNameDepositState is the Anchor account name of a deposit.
	AccountNameDepositState = "DepositState"
	// EventNameDidSwap is the Anchor event name emitted after a DCA swap.
	EventNameDidSwap = "DidSwap"

	// DepositStateMinSize is the allocated size of a deposit account: the
	// discriminator plus the default body, where the open orders account is None.
	DepositStateMinSize = 8 + 32 + 32 + 8 + 8 + 1 + 32 + 32 + 32 + 1 + 8 + 2 + 1

	// depositStateUserAuthorityOffset is where the user authority key starts
	// in raw account data; used for memcmp filters.
	depositStateUserAuthorityOffset = 8

	// AnchorErrorCodeOffset is the first custom error code the program returns.
	AnchorErrorCodeOffset = 300
)

const (
	DefaultWaitForVisibleTimeout = 3 * time.Second
)

var (
	// Sysvars and programs every instruction references.
	TokenProgramID    = solana.TokenProgramID
	SysVarClockPK     = solana.SysVarClockPubkey
	SysVarRentPK      = solana.SysVarRentPubkey
	SystemProgramID   = solana.SystemProgramID
	DeclaredProgramID = solana.MustPublicKeyFromBase58(PROGRAM_ID_DECLARED)
	DevnetProgramID   = solana.MustPublicKeyFromBase58(PROGRAM_ID_DEVNET)
	AdminPK           = solana.MustPublicKeyFromBase58(ADMIN_PK)
)
