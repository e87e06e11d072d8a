package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the metadata store adapter, keyed by on-chain transaction id.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the sqlite metadata database at dbPath and
// migrates the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&TransactionMeta{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert writes a metadata record. On conflict with an existing row for
// the same transaction id, only the chain-owned columns and the status
// cache are overwritten with the freshly computed values; type,
// description and created_at keep their stored values. The write is a
// plain "set to value", so concurrent reconcilers for the same id
// converge on the final chain state instead of racing.
func (s *Store) Upsert(meta *TransactionMeta) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"destination", "value", "data", "status",
		}),
	}).Create(meta).Error
	if err != nil {
		return fmt.Errorf("failed to upsert transaction metadata: %w", err)
	}
	return nil
}

// Get returns the metadata record for a transaction id, or nil if no
// record exists (proposal made directly on-chain, bypassing the
// coordinator).
func (s *Store) Get(transactionID uint64) (*TransactionMeta, error) {
	var meta TransactionMeta
	err := s.db.Where("transaction_id = ?", transactionID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction metadata: %w", err)
	}
	return &meta, nil
}
