package multisig

import (
	"context"

	"go.uber.org/zap"

	"mwt/internal/model"
)

// Confirm adds the signing owner's confirmation to a pending transaction
// and returns the freshly reconciled view. Confirming an id this owner
// already confirmed is rejected by the contract and surfaced as
// model.ErrNoOpRejected.
func (s *Service) Confirm(ctx context.Context, id uint64) (*model.Transaction, error) {
	if err := s.chain.ConfirmTransaction(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("transaction confirmed", zap.Uint64("id", id))

	return s.Reconcile(ctx, id)
}

// Revoke withdraws the signing owner's confirmation and returns the
// freshly reconciled view. Revoking a confirmation that does not exist is
// rejected by the contract and surfaced as model.ErrNoOpRejected.
func (s *Service) Revoke(ctx context.Context, id uint64) (*model.Transaction, error) {
	if err := s.chain.RevokeConfirmation(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("confirmation revoked", zap.Uint64("id", id))

	return s.Reconcile(ctx, id)
}
