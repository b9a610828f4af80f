package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/monaco"
)

func main() {
	fmt.Println("Fetching deposits from the monaco program...")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rpcClient := rpc.New(rpc.LocalNet_RPC)
	client := monaco.New(logger, rpcClient, nil, monaco.DeclaredProgramID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deposits, err := client.GetDepositStates(ctx)
	if err != nil {
		log.Fatalf("error while loading deposits: %v", err)
	}

	fmt.Print("Deposits:\n")
	now := time.Now()
	for _, d := range deposits {
		fmt.Printf("%s %+v due=%t\n\n", d.PublicKey, d.State, d.State.IsDue(now))
	}
}
