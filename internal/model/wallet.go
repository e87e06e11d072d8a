package model

import "math/big"

// WalletState is the multisig wallet read fresh from the chain. Never
// cached beyond a single request.
type WalletState struct {
	Address               string
	Owners                []string
	RequiredConfirmations uint64
	TransactionCount      uint64
	Balance               *big.Int // wei
}

// WalletInfoResponse represents response for GET /wallet
type WalletInfoResponse struct {
	Address               string   `json:"address"`
	Owners                []string `json:"owners"`
	RequiredConfirmations uint64   `json:"requiredConfirmations"`
	TransactionCount      uint64   `json:"transactionCount"`
	Balance               string   `json:"balance"` // ether units
	DepositQR             string   `json:"depositQR"`
}
