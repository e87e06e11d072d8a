package multisig

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mwt/internal/model"
)

// Execute triggers on-chain execution of a confirmed transaction.
// Preconditions are checked against a fresh reconciliation:
//
//   - already EXECUTED: returns the view immediately without issuing a
//     second chain call
//   - PENDING: fails with model.ErrInsufficientConfirmations, no chain call
//   - FAILED: retryable while the confirmation threshold is still met;
//     the contract resets executed when the inner call reverts
//
// An ExecutionFailure outcome means the proposed call itself reverted
// when the multisig ran it, surfaced as model.ErrExecutionReverted next
// to the reconciled view. It is not a coordinator fault.
func (s *Service) Execute(ctx context.Context, id uint64) (*model.Transaction, error) {
	view, err := s.Reconcile(ctx, id)
	if err != nil {
		return nil, err
	}

	switch view.Status {
	case model.StatusExecuted:
		return view, nil
	case model.StatusPending:
		return nil, fmt.Errorf("%d of %d confirmations: %w",
			view.Confirmations, view.RequiredConfirmations, model.ErrInsufficientConfirmations)
	case model.StatusFailed:
		if view.Confirmations < view.RequiredConfirmations {
			return nil, fmt.Errorf("%d of %d confirmations: %w",
				view.Confirmations, view.RequiredConfirmations, model.ErrInsufficientConfirmations)
		}
	}

	receipt, err := s.chain.ExecuteTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if receipt.SawFailure {
		s.logger.Warn("proposed call reverted on execution",
			zap.Uint64("id", id), zap.String("tx", receipt.TxHash))

		view, err = s.Reconcile(ctx, id)
		if err != nil {
			return nil, err
		}
		return view, fmt.Errorf("tx %s: %w", receipt.TxHash, model.ErrExecutionReverted)
	}

	s.logger.Info("transaction executed",
		zap.Uint64("id", id), zap.String("tx", receipt.TxHash))

	return s.Reconcile(ctx, id)
}
