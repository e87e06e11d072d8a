// Package classify maps a multisig transaction's call parameters to a
// semantic action type. It is a pure function of its inputs: no network,
// no store.
package classify

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"mwt/internal/model"
)

// 4-byte selectors of the multisig wallet's own administrative methods.
var (
	AddOwnerSelector          = Selector("addOwner(address)")
	RemoveOwnerSelector       = Selector("removeOwner(address)")
	ChangeRequirementSelector = Selector("changeRequirement(uint256)")
)

// Selector returns the 4-byte function selector for a canonical method
// signature, e.g. "addOwner(address)".
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// Classify determines the transaction type from destination, value and
// call data. selfAddress is the multisig wallet's own address.
//
// Self-targeted administrative calls are checked first: they win over the
// value/data heuristic even when they also carry value.
func Classify(destination common.Address, value *big.Int, data []byte, selfAddress common.Address) model.TransactionType {
	if destination == selfAddress && len(data) >= 4 {
		switch {
		case bytes.HasPrefix(data, AddOwnerSelector[:]):
			return model.TypeAddOwner
		case bytes.HasPrefix(data, RemoveOwnerSelector[:]):
			return model.TypeRemoveOwner
		case bytes.HasPrefix(data, ChangeRequirementSelector[:]):
			return model.TypeChangeRequirement
		}
	}

	if value != nil && value.Sign() > 0 && len(data) == 0 {
		return model.TypeTransferFunds
	}

	return model.TypeOther
}
