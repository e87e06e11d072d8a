package model

import "fmt"

// ProposeRequest represents request for POST /transactions
type ProposeRequest struct {
	Destination string `json:"destination" binding:"required"`
	Value       string `json:"value"` // ether units, decimal string, defaults to 0
	Data        string `json:"data"`  // 0x-prefixed hex, optional
	// Type and Description are optional enrichment. An empty Type is
	// inferred from the call data by the classifier.
	Type        TransactionType `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Validate validates ProposeRequest fields that do not need chain access.
func (r *ProposeRequest) Validate() error {
	if r.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if r.Type != "" && !r.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", r.Type)
	}
	return nil
}

// ProposeResponse represents response for POST /transactions
type ProposeResponse struct {
	ID           uint64            `json:"id"`
	Type         TransactionType   `json:"type"`
	TypeInferred bool              `json:"typeInferred"`
	Status       TransactionStatus `json:"status"`
}
