package model

import (
	"fmt"
	"math/big"
	"time"
)

// TransactionType is the semantic action a multisig transaction performs.
type TransactionType string

const (
	TypeTransferFunds     TransactionType = "TRANSFER_FUNDS"
	TypeUpgradeContract   TransactionType = "UPGRADE_CONTRACT"
	TypeChangeParameter   TransactionType = "CHANGE_PARAMETER"
	TypeAddOwner          TransactionType = "ADD_OWNER"
	TypeRemoveOwner       TransactionType = "REMOVE_OWNER"
	TypeChangeRequirement TransactionType = "CHANGE_REQUIREMENT"
	TypeOther             TransactionType = "OTHER"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeTransferFunds, TypeUpgradeContract, TypeChangeParameter,
		TypeAddOwner, TypeRemoveOwner, TypeChangeRequirement, TypeOther:
		return true
	}
	return false
}

// TransactionStatus is derived from on-chain state on every read. The
// metadata store keeps a cached copy for display only; it is never
// treated as ground truth.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusExecuted  TransactionStatus = "EXECUTED"
	StatusFailed    TransactionStatus = "FAILED"
)

// ChainTransaction is the raw on-chain tuple for one multisig transaction
// plus its confirmation state. Value is in wei.
type ChainTransaction struct {
	ID                    uint64
	Destination           string
	Value                 *big.Int
	Data                  []byte
	Executed              bool
	Confirmations         uint64
	RequiredConfirmations uint64
}

// Transaction is the canonical reconciled view: on-chain fields merged
// with the metadata enrichment layer. On-chain fields always win.
type Transaction struct {
	ID                    uint64            `json:"id"`
	Destination           string            `json:"destination"`
	Value                 string            `json:"value"` // ether units, decimal string
	Data                  string            `json:"data"`  // 0x-prefixed hex
	Executed              bool              `json:"executed"`
	Confirmations         uint64            `json:"confirmations"`
	RequiredConfirmations uint64            `json:"requiredConfirmations"`
	Type                  TransactionType   `json:"type"`
	TypeInferred          bool              `json:"typeInferred"` // heuristic classification, no metadata record
	Status                TransactionStatus `json:"status"`
	Description           string            `json:"description"`
	CreatedAt             time.Time         `json:"createdAt"`
}

// ListRequest represents filter parameters for GET /transactions
type ListRequest struct {
	Status *TransactionStatus `form:"status"`
	Type   *TransactionType   `form:"type"`
}

// Validate validates ListRequest filter parameters.
func (r *ListRequest) Validate() error {
	if r.Status != nil {
		switch *r.Status {
		case StatusPending, StatusConfirmed, StatusExecuted, StatusFailed:
		default:
			return fmt.Errorf("status must be PENDING, CONFIRMED, EXECUTED or FAILED")
		}
	}
	if r.Type != nil && !r.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", *r.Type)
	}
	return nil
}

// ListResponse represents response for GET /transactions
type ListResponse struct {
	Total        int           `json:"total"`
	Transactions []Transaction `json:"transactions"`
}
