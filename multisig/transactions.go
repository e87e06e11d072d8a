package multisig

import (
	"context"

	"mwt/internal/model"
)

// GetTransaction returns the canonical reconciled view of one transaction.
func (s *Service) GetTransaction(ctx context.Context, id uint64) (*model.Transaction, error) {
	return s.Reconcile(ctx, id)
}

// ListTransactions reconciles every transaction the contract knows about,
// ordered by descending id (newest first), with optional status and type
// filtering.
func (s *Service) ListTransactions(ctx context.Context, req *model.ListRequest) (*model.ListResponse, error) {
	if req == nil {
		req = &model.ListRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	count, err := s.chain.TransactionCount(ctx)
	if err != nil {
		return nil, err
	}

	transactions := make([]model.Transaction, 0, count)
	for i := count; i > 0; i-- {
		view, err := s.Reconcile(ctx, i-1)
		if err != nil {
			return nil, err
		}

		if req.Status != nil && view.Status != *req.Status {
			continue
		}
		if req.Type != nil && view.Type != *req.Type {
			continue
		}

		transactions = append(transactions, *view)
	}

	return &model.ListResponse{
		Total:        len(transactions),
		Transactions: transactions,
	}, nil
}
