package config

const (
	// Mainnet constants.
	MainnetSolanaRPCURL     = "https://api.mainnet-beta.solana.com"
	MainnetSolanaWSURL      = "wss://api.mainnet-beta.solana.com"
	MainnetMonacoProgramID  = "BuYep31Y9ahB7qYPnTXY8zPVr4m341WPknmKj7RjGnaD"
	MainnetAdminPK          = "rohanrAYfWTd7DtNHVtoJFxdLYspwToEr55BqFdfkZd"
	MainnetLendingProgramID = "So1endDq2YkqhipRh3WViPa8hdiSpxWy6z3Z6tMCpAo"
	MainnetDexProgramID     = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	// Devnet constants.
	DevnetSolanaRPCURL     = "https://api.devnet.solana.com"
	DevnetSolanaWSURL      = "wss://api.devnet.solana.com"
	DevnetMonacoProgramID  = "DXxoamtnFQ2Qg8WeSoF5ezgEZ6fST9iQTbpxkuFAr7Ld"
	DevnetAdminPK          = "rohanrAYfWTd7DtNHVtoJFxdLYspwToEr55BqFdfkZd"
	DevnetLendingProgramID = "ALend7Ketfx5bxh6ghsCDXAoDrhvEmsXT3cynB6aPLgx"
	DevnetDexProgramID     = "DESVgJVGajEgKGXhb6XmqDHGz3VjdgP7rEVESBgxmroY"

	// Localnet constants. Programs are deployed at their declared IDs.
	LocalnetSolanaRPCURL     = "http://127.0.0.1:8899"
	LocalnetSolanaWSURL      = "ws://127.0.0.1:8900"
	LocalnetMonacoProgramID  = "BuYep31Y9ahB7qYPnTXY8zPVr4m341WPknmKj7RjGnaD"
	LocalnetAdminPK          = "rohanrAYfWTd7DtNHVtoJFxdLYspwToEr55BqFdfkZd"
	LocalnetLendingProgramID = "ALend7Ketfx5bxh6ghsCDXAoDrhvEmsXT3cynB6aPLgx"
	LocalnetDexProgramID     = "DESVgJVGajEgKGXhb6XmqDHGz3VjdgP7rEVESBgxmroY"
)

const (
	// DefaultIDLPath is where an Anchor build writes the program IDL.
	DefaultIDLPath = "target/idl/monaco.json"

	// DefaultWalletPath is the Solana CLI's default keypair location,
	// relative to the home directory.
	DefaultWalletPath = ".config/solana/id.json"
)

// Environment variables read by ProviderFromEnv, NetworkConfigForEnv and
// IDLPathFromEnv.
const (
	EnvVarAnchorProviderURL = "ANCHOR_PROVIDER_URL"
	EnvVarAnchorWallet      = "ANCHOR_WALLET"
	EnvVarSolanaRPCURL      = "SOLANA_RPC_URL"
	EnvVarSolanaWSURL       = "SOLANA_WS_URL"
	EnvVarMonacoProgramID   = "MONACO_PROGRAM_ID"
	EnvVarMonacoIDLPath     = "MONACO_IDL_PATH"
)
