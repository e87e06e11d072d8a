package main

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mwt/internal/api"
	"mwt/internal/client"
	"mwt/internal/config"
	"mwt/internal/keystore"
	"mwt/internal/store"
	"mwt/multisig"
)

// @title        Multisig Wallet Coordinator API
// @version      1.0
// @description  Proposes, confirms and executes transactions through an on-chain multisig wallet and reconciles them with off-chain metadata.
// @BasePath     /
func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := config.Init(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.Get()

	if !common.IsHexAddress(cfg.MultisigAddress) {
		logger.Fatal("MULTISIG_ADDRESS is not a valid address",
			zap.String("address", cfg.MultisigAddress))
	}
	walletAddress := common.HexToAddress(cfg.MultisigAddress)

	if err := config.PromptForPassword(); err != nil {
		logger.Fatal("failed to read keystore password", zap.Error(err))
	}

	password, err := config.GetKeystorePasswordBytes()
	if err != nil {
		logger.Fatal("keystore password not available", zap.Error(err))
	}
	signer, err := keystore.Load(cfg.KeystorePath, password)
	clear(password)
	if err != nil {
		logger.Fatal("failed to load keystore", zap.Error(err))
	}

	ethClient, err := client.NewEthClient(client.Options{
		RPCURL:           cfg.EthRPCURL,
		Contract:         walletAddress,
		Signer:           signer,
		ChainID:          cfg.ChainID,
		StartBlock:       cfg.StartBlock,
		InclusionTimeout: time.Duration(cfg.InclusionTimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to create Ethereum client", zap.Error(err))
	}

	metadataStore, err := store.NewStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open metadata store", zap.Error(err))
	}

	service := multisig.NewService(ethClient, metadataStore, walletAddress, logger)
	router := api.SetupRouter(service)

	logger.Info("server listening",
		zap.String("port", cfg.Port),
		zap.String("wallet", walletAddress.Hex()),
		zap.String("owner", signer.Address().Hex()))

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
