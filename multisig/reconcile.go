package multisig

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"mwt/internal/classify"
	appcommon "mwt/internal/common"
	"mwt/internal/model"
	"mwt/internal/store"
)

// deriveStatus computes the canonical status from on-chain state. Status
// is a pure projection: it is recomputed on every read and never trusted
// from the cache.
func deriveStatus(tx *model.ChainTransaction, sawExecution, sawFailure bool) model.TransactionStatus {
	switch {
	case tx.Executed:
		// The executed flag only flips when the inner call succeeded, so
		// it is authoritative even if log filtering missed the event.
		return model.StatusExecuted
	case sawFailure:
		return model.StatusFailed
	case tx.Confirmations >= tx.RequiredConfirmations:
		return model.StatusConfirmed
	default:
		return model.StatusPending
	}
}

// Reconcile builds the canonical view of one transaction: fresh chain
// read, status derivation, metadata merge (chain fields win), and a
// write-back of the merged view to the store. Running it twice against
// unchanged chain state stores the identical row.
//
// A metadata store failure does not fail the read: the chain-derived view
// is still returned and the store failure is logged separately.
func (s *Service) Reconcile(ctx context.Context, id uint64) (*model.Transaction, error) {
	chainTx, err := s.chain.TransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sawExecution, sawFailure, err := s.chain.ExecutionEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	status := deriveStatus(chainTx, sawExecution, sawFailure)

	view := &model.Transaction{
		ID:                    id,
		Destination:           chainTx.Destination,
		Value:                 appcommon.WeiToEther(chainTx.Value),
		Data:                  hexutil.Encode(chainTx.Data),
		Executed:              chainTx.Executed,
		Confirmations:         chainTx.Confirmations,
		RequiredConfirmations: chainTx.RequiredConfirmations,
		Status:                status,
	}

	meta, metaErr := s.store.Get(id)
	if metaErr != nil {
		s.logger.Warn("metadata read failed, falling back to classifier",
			zap.Uint64("id", id), zap.Error(metaErr))
	}

	if meta != nil {
		view.Type = model.TransactionType(meta.Type)
		view.TypeInferred = meta.TypeInferred
		view.Description = meta.Description
		view.CreatedAt = meta.CreatedAt
	} else {
		// Proposal bypassed the coordinator (or the store is down): the
		// classifier reconstructs a best-effort type, labeled as inferred.
		view.Type = classify.Classify(
			common.HexToAddress(chainTx.Destination), chainTx.Value, chainTx.Data, s.wallet)
		view.TypeInferred = true
	}

	row := &store.TransactionMeta{
		TransactionID: id,
		Destination:   chainTx.Destination,
		Value:         chainTx.Value.String(),
		Data:          view.Data,
		Type:          string(view.Type),
		TypeInferred:  view.TypeInferred,
		Description:   view.Description,
		Status:        string(status),
	}
	if err := s.store.Upsert(row); err != nil {
		// Non-fatal: the cache is advisory, the chain view above is complete.
		s.logger.Warn("metadata upsert failed", zap.Uint64("id", id), zap.Error(err))
	}

	return view, nil
}
