package store

import "time"

// TransactionMeta is the off-chain enrichment record for one on-chain
// multisig transaction. The status column is a display cache of the
// derived status; the chain remains authoritative for everything except
// type, description and created_at.
//
// No UpdatedAt column: reconciliation with unchanged chain state must
// leave the row byte-identical.
type TransactionMeta struct {
	ID            uint   `gorm:"primarykey"`
	TransactionID uint64 `gorm:"uniqueIndex"`
	Destination   string
	Value         string // wei, decimal string
	Data          string // 0x-prefixed hex
	Type          string
	TypeInferred  bool
	Description   string
	Status        string
	CreatedAt     time.Time
}
