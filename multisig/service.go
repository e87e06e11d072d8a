// Package multisig coordinates privileged operations through an on-chain
// multisig wallet: proposing, collecting confirmations, executing, and
// reconciling the on-chain truth with the off-chain metadata record.
package multisig

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"mwt/internal/model"
	"mwt/internal/store"
)

// ChainClient is the contract surface the coordinator consumes. Reads are
// idempotent and side-effect free; writes block until inclusion or the
// inclusion timeout.
type ChainClient interface {
	WalletInfo(ctx context.Context) (*model.WalletState, error)
	TransactionCount(ctx context.Context) (uint64, error)
	TransactionByID(ctx context.Context, id uint64) (*model.ChainTransaction, error)
	ExecutionEvents(ctx context.Context, id uint64) (sawExecution, sawFailure bool, err error)
	SubmitTransaction(ctx context.Context, destination common.Address, value *big.Int, data []byte) (uint64, error)
	ConfirmTransaction(ctx context.Context, id uint64) error
	RevokeConfirmation(ctx context.Context, id uint64) error
	ExecuteTransaction(ctx context.Context, id uint64) (*model.ExecutionReceipt, error)
}

// MetadataStore is the off-chain enrichment store, keyed by on-chain
// transaction id.
type MetadataStore interface {
	Upsert(meta *store.TransactionMeta) error
	Get(transactionID uint64) (*store.TransactionMeta, error)
}

// Service is the coordinator. It holds no mutable state of its own and is
// safe for concurrent owner sessions; the contract arbitrates conflicting
// writes and the metadata upsert is commutative.
type Service struct {
	chain  ChainClient
	store  MetadataStore
	wallet common.Address // the multisig contract's own address
	logger *zap.Logger
}

// NewService wires a coordinator from its collaborators. The chain client
// and store are passed in explicitly; nothing here is a process-wide
// singleton.
func NewService(chain ChainClient, metadata MetadataStore, wallet common.Address, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chain:  chain,
		store:  metadata,
		wallet: wallet,
		logger: logger,
	}
}
