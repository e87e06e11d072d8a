// One-off: read-only dump of the multisig wallet state as JSON.
// Usage: go run ./cmd/walletinfo
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"mwt/internal/client"
	"mwt/internal/config"
)

func main() {
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	if !common.IsHexAddress(cfg.MultisigAddress) {
		fmt.Fprintf(os.Stderr, "MULTISIG_ADDRESS %q is not a valid address\n", cfg.MultisigAddress)
		os.Exit(1)
	}

	// No signer: view calls only
	ethClient, err := client.NewEthClient(client.Options{
		RPCURL:           cfg.EthRPCURL,
		Contract:         common.HexToAddress(cfg.MultisigAddress),
		ChainID:          cfg.ChainID,
		StartBlock:       cfg.StartBlock,
		InclusionTimeout: time.Duration(cfg.InclusionTimeoutSeconds) * time.Second,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	state, err := ethClient.WalletInfo(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
