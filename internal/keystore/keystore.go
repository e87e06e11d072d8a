// Package keystore loads the owner's signing key from a geth keystore
// JSON file (the standard encrypted key format).
package keystore

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

// Signer is the owner identity used to sign state-changing contract calls.
type Signer struct {
	key *gethkeystore.Key
}

// Load decrypts the keystore file at path with the given password.
// password must be []byte for security (caller should zero it after use)
func Load(path string, password []byte) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	key, err := gethkeystore.DecryptKey(raw, string(password))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}

	return &Signer{key: key}, nil
}

// Address returns the owner address of the signing key.
func (s *Signer) Address() common.Address {
	return s.key.Address
}

// TransactOpts builds signing options for state-changing calls on the
// given chain.
func (s *Signer) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key.PrivateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return opts, nil
}
