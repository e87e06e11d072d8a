package multisig

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"mwt/internal/classify"
	appcommon "mwt/internal/common"
	"mwt/internal/model"
	"mwt/internal/store"
)

// Propose submits a new transaction to the multisig contract, waits for
// inclusion, and records the enrichment metadata under the id the
// contract assigned. The caller-supplied type and description are
// optional; an empty type is inferred from the call data and labeled as
// such.
func (s *Service) Propose(ctx context.Context, req *model.ProposeRequest) (*model.ProposeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(req.Destination) {
		return nil, fmt.Errorf("invalid destination address %q", req.Destination)
	}
	destination := common.HexToAddress(req.Destination)

	value := big.NewInt(0)
	if req.Value != "" {
		var err error
		value, err = appcommon.EtherToWei(req.Value)
		if err != nil {
			return nil, err
		}
	}

	var data []byte
	if req.Data != "" {
		var err error
		data, err = hexutil.Decode(req.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid call data: %w", err)
		}
	}

	txType := req.Type
	inferred := false
	if txType == "" {
		txType = classify.Classify(destination, value, data, s.wallet)
		inferred = true
	}

	id, err := s.chain.SubmitTransaction(ctx, destination, value, data)
	if err != nil {
		return nil, err
	}

	row := &store.TransactionMeta{
		TransactionID: id,
		Destination:   destination.Hex(),
		Value:         value.String(),
		Data:          hexutil.Encode(data),
		Type:          string(txType),
		TypeInferred:  inferred,
		Description:   req.Description,
		Status:        string(model.StatusPending),
	}
	if err := s.store.Upsert(row); err != nil {
		// The proposal is tracked on-chain by its id; the enrichment row
		// will be recreated on the next reconciliation.
		s.logger.Warn("metadata write failed after submission",
			zap.Uint64("id", id), zap.Error(err))
	}

	s.logger.Info("transaction proposed",
		zap.Uint64("id", id),
		zap.String("destination", destination.Hex()),
		zap.String("type", string(txType)))

	return &model.ProposeResponse{
		ID:           id,
		Type:         txType,
		TypeInferred: inferred,
		Status:       model.StatusPending,
	}, nil
}
