package multisig

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"

	appcommon "mwt/internal/common"
	"mwt/internal/model"
)

// GetWalletInfo reads the wallet state fresh from the chain and attaches
// a deposit QR code for the wallet address.
func (s *Service) GetWalletInfo(ctx context.Context) (*model.WalletInfoResponse, error) {
	state, err := s.chain.WalletInfo(ctx)
	if err != nil {
		return nil, err
	}

	qr, err := generateQRCode(state.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate deposit QR: %w", err)
	}

	return &model.WalletInfoResponse{
		Address:               state.Address,
		Owners:                state.Owners,
		RequiredConfirmations: state.RequiredConfirmations,
		TransactionCount:      state.TransactionCount,
		Balance:               appcommon.WeiToEther(state.Balance),
		DepositQR:             qr,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
