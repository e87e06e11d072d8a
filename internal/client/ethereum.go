package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"mwt/internal/keystore"
	"mwt/internal/model"
)

// errReverted marks a contract-level revert detected at the RPC boundary.
// Public methods map it to the operation-specific rejection error.
var errReverted = errors.New("contract call reverted")

// Options configures an EthClient. Signer may be nil for read-only use.
type Options struct {
	RPCURL           string
	Contract         common.Address
	Signer           *keystore.Signer
	ChainID          int64
	StartBlock       uint64
	InclusionTimeout time.Duration
}

// EthClient is a client for working with the multisig contract over
// Ethereum RPC. It is safe for concurrent use; construct one and pass it
// into the components that need it.
type EthClient struct {
	rpc              *ethclient.Client
	contract         common.Address
	contractABI      abi.ABI
	bound            *bind.BoundContract
	signer           *keystore.Signer
	chainID          *big.Int
	startBlock       uint64
	inclusionTimeout time.Duration
}

// NewEthClient dials the RPC endpoint and binds the multisig contract.
func NewEthClient(opts Options) (*EthClient, error) {
	parsed, err := parseMultisigABI()
	if err != nil {
		return nil, err
	}

	rpcClient, err := ethclient.Dial(opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	return &EthClient{
		rpc:              rpcClient,
		contract:         opts.Contract,
		contractABI:      parsed,
		bound:            bind.NewBoundContract(opts.Contract, parsed, rpcClient, rpcClient, rpcClient),
		signer:           opts.Signer,
		chainID:          big.NewInt(opts.ChainID),
		startBlock:       opts.StartBlock,
		inclusionTimeout: opts.InclusionTimeout,
	}, nil
}

// call performs a view call against the contract.
func (c *EthClient) call(ctx context.Context, results *[]interface{}, method string, args ...interface{}) error {
	err := c.bound.Call(&bind.CallOpts{Context: ctx}, results, method, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrChainUnavailable, method, err)
	}
	return nil
}

// WalletInfo reads the multisig wallet state fresh from the chain.
func (c *EthClient) WalletInfo(ctx context.Context) (*model.WalletState, error) {
	var out []interface{}
	if err := c.call(ctx, &out, "getOwners"); err != nil {
		return nil, err
	}
	rawOwners := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)

	out = nil
	if err := c.call(ctx, &out, "required"); err != nil {
		return nil, err
	}
	required := out[0].(*big.Int)

	count, err := c.TransactionCount(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := c.rpc.BalanceAt(ctx, c.contract, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %v", model.ErrChainUnavailable, err)
	}

	owners := make([]string, 0, len(rawOwners))
	for _, o := range rawOwners {
		owners = append(owners, o.Hex())
	}

	return &model.WalletState{
		Address:               c.contract.Hex(),
		Owners:                owners,
		RequiredConfirmations: required.Uint64(),
		TransactionCount:      count,
		Balance:               balance,
	}, nil
}

// TransactionCount reads the total number of proposed transactions.
func (c *EthClient) TransactionCount(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := c.call(ctx, &out, "transactionCount"); err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

// TransactionByID reads the raw on-chain tuple for one transaction plus
// its confirmation count and the current required threshold.
func (c *EthClient) TransactionByID(ctx context.Context, id uint64) (*model.ChainTransaction, error) {
	count, err := c.TransactionCount(ctx)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, fmt.Errorf("%w: id %d, transaction count %d", model.ErrNotFound, id, count)
	}

	idArg := new(big.Int).SetUint64(id)

	var out []interface{}
	if err := c.call(ctx, &out, "transactions", idArg); err != nil {
		return nil, err
	}
	destination := out[0].(common.Address)
	value := out[1].(*big.Int)
	data := out[2].([]byte)
	executed := out[3].(bool)

	out = nil
	if err := c.call(ctx, &out, "getConfirmationCount", idArg); err != nil {
		return nil, err
	}
	confirmations := out[0].(*big.Int)

	out = nil
	if err := c.call(ctx, &out, "required"); err != nil {
		return nil, err
	}
	required := out[0].(*big.Int)

	return &model.ChainTransaction{
		ID:                    id,
		Destination:           destination.Hex(),
		Value:                 value,
		Data:                  data,
		Executed:              executed,
		Confirmations:         confirmations.Uint64(),
		RequiredConfirmations: required.Uint64(),
	}, nil
}

// ExecutionEvents reports whether an Execution or ExecutionFailure event
// has been emitted for a transaction id.
func (c *EthClient) ExecutionEvents(ctx context.Context, id uint64) (sawExecution, sawFailure bool, err error) {
	execID := c.contractABI.Events["Execution"].ID
	failID := c.contractABI.Events["ExecutionFailure"].ID
	idTopic := common.BigToHash(new(big.Int).SetUint64(id))

	logs, err := c.rpc.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(c.startBlock),
		Addresses: []common.Address{c.contract},
		Topics: [][]common.Hash{
			{execID, failID},
			{idTopic},
		},
	})
	if err != nil {
		return false, false, fmt.Errorf("%w: filter logs: %v", model.ErrChainUnavailable, err)
	}

	for _, l := range logs {
		switch l.Topics[0] {
		case execID:
			sawExecution = true
		case failID:
			sawFailure = true
		}
	}
	return sawExecution, sawFailure, nil
}

// transact signs, sends and waits for inclusion of a state-changing call.
// Returns errReverted for contract-level rejection, model.ErrUnknownOutcome
// when the inclusion wait times out.
func (c *EthClient) transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("client is read-only: no signer configured")
	}

	opts, err := c.signer.TransactOpts(c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		if isRevertError(err) {
			return nil, fmt.Errorf("%w: %s: %v", errReverted, method, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", model.ErrChainUnavailable, method, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.inclusionTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.rpc, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s tx %s", model.ErrUnknownOutcome, method, tx.Hash().Hex())
		}
		return nil, fmt.Errorf("%w: waiting for %s: %v", model.ErrChainUnavailable, method, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("%w: %s tx %s", errReverted, method, tx.Hash().Hex())
	}
	return receipt, nil
}

// SubmitTransaction proposes a new transaction and returns the id the
// contract assigned to it, extracted from the Submission event.
func (c *EthClient) SubmitTransaction(ctx context.Context, destination common.Address, value *big.Int, data []byte) (uint64, error) {
	receipt, err := c.transact(ctx, "submitTransaction", destination, value, data)
	if err != nil {
		if errors.Is(err, errReverted) {
			return 0, fmt.Errorf("%w: %v", model.ErrSubmissionRejected, err)
		}
		return 0, err
	}

	submissionID := c.contractABI.Events["Submission"].ID
	for _, l := range receipt.Logs {
		if l.Address == c.contract && len(l.Topics) == 2 && l.Topics[0] == submissionID {
			return l.Topics[1].Big().Uint64(), nil
		}
	}
	// The submission was mined but cannot be tracked without its id.
	return 0, fmt.Errorf("%w: no Submission event in receipt %s", model.ErrIDExtractionFailed, receipt.TxHash.Hex())
}

// ConfirmTransaction confirms a pending transaction as the signing owner.
func (c *EthClient) ConfirmTransaction(ctx context.Context, id uint64) error {
	_, err := c.transact(ctx, "confirmTransaction", new(big.Int).SetUint64(id))
	if errors.Is(err, errReverted) {
		return fmt.Errorf("%w: confirm %d: %v", model.ErrNoOpRejected, id, err)
	}
	return err
}

// RevokeConfirmation revokes the signing owner's confirmation.
func (c *EthClient) RevokeConfirmation(ctx context.Context, id uint64) error {
	_, err := c.transact(ctx, "revokeConfirmation", new(big.Int).SetUint64(id))
	if errors.Is(err, errReverted) {
		return fmt.Errorf("%w: revoke %d: %v", model.ErrNoOpRejected, id, err)
	}
	return err
}

// ExecuteTransaction triggers execution of a confirmed transaction and
// reports which lifecycle event the receipt carries. An ExecutionFailure
// event means the proposed call reverted inside the multisig; the execute
// transaction itself was mined successfully.
func (c *EthClient) ExecuteTransaction(ctx context.Context, id uint64) (*model.ExecutionReceipt, error) {
	receipt, err := c.transact(ctx, "executeTransaction", new(big.Int).SetUint64(id))
	if err != nil {
		if errors.Is(err, errReverted) {
			return nil, fmt.Errorf("%w: execute %d: %v", model.ErrNoOpRejected, id, err)
		}
		return nil, err
	}

	execID := c.contractABI.Events["Execution"].ID
	failID := c.contractABI.Events["ExecutionFailure"].ID

	result := &model.ExecutionReceipt{TxHash: receipt.TxHash.Hex()}
	for _, l := range receipt.Logs {
		if l.Address != c.contract || len(l.Topics) == 0 {
			continue
		}
		switch l.Topics[0] {
		case execID:
			result.SawExecution = true
		case failID:
			result.SawFailure = true
		}
	}
	return result, nil
}

// isRevertError distinguishes a contract-level revert from transport
// failures at the RPC boundary.
func isRevertError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "always failing transaction") ||
		strings.Contains(msg, "gas required exceeds allowance")
}
