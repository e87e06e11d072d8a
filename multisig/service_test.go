package multisig

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"mwt/internal/model"
	"mwt/internal/store"
)

var (
	walletAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient  = common.HexToAddress("0x9999999999999999999999999999999999999999")
	ownerA     = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	ownerB     = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
	ownerC     = common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC")
	ownerD     = common.HexToAddress("0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD")
	stranger   = common.HexToAddress("0xEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEEE")
)

// fakeTx mirrors one transaction slot in the contract's storage.
type fakeTx struct {
	destination  common.Address
	value        *big.Int
	data         []byte
	executed     bool
	confirmed    map[common.Address]bool
	sawExecution bool
	sawFailure   bool
	innerReverts bool // the proposed call reverts when the multisig runs it
}

// fakeContract simulates the on-chain multisig. It is the sole arbiter of
// confirmation counting and execution, exactly like the real contract.
type fakeContract struct {
	mu       sync.Mutex
	owners   []common.Address
	isOwner  map[common.Address]bool
	required uint64
	balance  *big.Int
	txs      []*fakeTx
}

func newFakeContract(required uint64, owners ...common.Address) *fakeContract {
	isOwner := make(map[common.Address]bool, len(owners))
	for _, o := range owners {
		isOwner[o] = true
	}
	return &fakeContract{
		owners:   owners,
		isOwner:  isOwner,
		required: required,
		balance:  new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)),
	}
}

// addTx registers a transaction as if it was proposed directly on-chain,
// bypassing the coordinator (no metadata row is written).
func (c *fakeContract) addTx(destination common.Address, value *big.Int, data []byte, proposer common.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txs = append(c.txs, &fakeTx{
		destination: destination,
		value:       value,
		data:        data,
		confirmed:   map[common.Address]bool{proposer: true},
	})
	return uint64(len(c.txs) - 1)
}

// fakeChain implements ChainClient for one owner identity.
type fakeChain struct {
	contract     *fakeContract
	owner        common.Address
	executeCalls int
}

func (f *fakeChain) WalletInfo(ctx context.Context) (*model.WalletState, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	owners := make([]string, 0, len(f.contract.owners))
	for _, o := range f.contract.owners {
		owners = append(owners, o.Hex())
	}
	return &model.WalletState{
		Address:               walletAddr.Hex(),
		Owners:                owners,
		RequiredConfirmations: f.contract.required,
		TransactionCount:      uint64(len(f.contract.txs)),
		Balance:               new(big.Int).Set(f.contract.balance),
	}, nil
}

func (f *fakeChain) TransactionCount(ctx context.Context) (uint64, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	return uint64(len(f.contract.txs)), nil
}

func (f *fakeChain) TransactionByID(ctx context.Context, id uint64) (*model.ChainTransaction, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	if id >= uint64(len(f.contract.txs)) {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	tx := f.contract.txs[id]
	return &model.ChainTransaction{
		ID:                    id,
		Destination:           tx.destination.Hex(),
		Value:                 new(big.Int).Set(tx.value),
		Data:                  append([]byte(nil), tx.data...),
		Executed:              tx.executed,
		Confirmations:         uint64(len(tx.confirmed)),
		RequiredConfirmations: f.contract.required,
	}, nil
}

func (f *fakeChain) ExecutionEvents(ctx context.Context, id uint64) (bool, bool, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	if id >= uint64(len(f.contract.txs)) {
		return false, false, nil
	}
	tx := f.contract.txs[id]
	return tx.sawExecution, tx.sawFailure, nil
}

func (f *fakeChain) SubmitTransaction(ctx context.Context, destination common.Address, value *big.Int, data []byte) (uint64, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	if !f.contract.isOwner[f.owner] {
		return 0, fmt.Errorf("%w: %s is not an owner", model.ErrSubmissionRejected, f.owner.Hex())
	}
	// The contract confirms on behalf of the proposer as part of submission.
	f.contract.txs = append(f.contract.txs, &fakeTx{
		destination: destination,
		value:       new(big.Int).Set(value),
		data:        append([]byte(nil), data...),
		confirmed:   map[common.Address]bool{f.owner: true},
	})
	return uint64(len(f.contract.txs) - 1), nil
}

func (f *fakeChain) ConfirmTransaction(ctx context.Context, id uint64) error {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	if !f.contract.isOwner[f.owner] || id >= uint64(len(f.contract.txs)) {
		return fmt.Errorf("%w: confirm %d", model.ErrNoOpRejected, id)
	}
	tx := f.contract.txs[id]
	if tx.executed || tx.confirmed[f.owner] {
		return fmt.Errorf("%w: confirm %d", model.ErrNoOpRejected, id)
	}
	tx.confirmed[f.owner] = true
	return nil
}

func (f *fakeChain) RevokeConfirmation(ctx context.Context, id uint64) error {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	if id >= uint64(len(f.contract.txs)) {
		return fmt.Errorf("%w: revoke %d", model.ErrNoOpRejected, id)
	}
	tx := f.contract.txs[id]
	if tx.executed || !tx.confirmed[f.owner] {
		return fmt.Errorf("%w: revoke %d", model.ErrNoOpRejected, id)
	}
	delete(tx.confirmed, f.owner)
	return nil
}

func (f *fakeChain) ExecuteTransaction(ctx context.Context, id uint64) (*model.ExecutionReceipt, error) {
	f.contract.mu.Lock()
	defer f.contract.mu.Unlock()
	f.executeCalls++
	receipt := &model.ExecutionReceipt{TxHash: fmt.Sprintf("0xe%063d", id)}
	if id >= uint64(len(f.contract.txs)) {
		return receipt, nil
	}
	tx := f.contract.txs[id]
	if tx.executed || uint64(len(tx.confirmed)) < f.contract.required {
		return receipt, nil
	}
	if tx.innerReverts {
		tx.sawFailure = true
		receipt.SawFailure = true
		return receipt, nil
	}
	tx.executed = true
	tx.sawExecution = true
	receipt.SawExecution = true
	return receipt, nil
}

// fakeStore mimics the sqlite adapter, including the conflict column set:
// only chain-owned columns and the status cache are overwritten.
type fakeStore struct {
	mu         sync.Mutex
	rows       map[uint64]store.TransactionMeta
	failWrites bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uint64]store.TransactionMeta)}
}

func (f *fakeStore) Upsert(meta *store.TransactionMeta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return fmt.Errorf("store unavailable")
	}
	if existing, ok := f.rows[meta.TransactionID]; ok {
		existing.Destination = meta.Destination
		existing.Value = meta.Value
		existing.Data = meta.Data
		existing.Status = meta.Status
		f.rows[meta.TransactionID] = existing
		return nil
	}
	row := *meta
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	f.rows[meta.TransactionID] = row
	return nil
}

func (f *fakeStore) Get(transactionID uint64) (*store.TransactionMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[transactionID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeStore) snapshot(transactionID uint64) store.TransactionMeta {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[transactionID]
}

// fixture wires one shared contract and store with per-owner services.
type fixture struct {
	contract *fakeContract
	store    *fakeStore
	chains   map[common.Address]*fakeChain
}

func newFixture(required uint64, owners ...common.Address) *fixture {
	f := &fixture{
		contract: newFakeContract(required, owners...),
		store:    newFakeStore(),
		chains:   make(map[common.Address]*fakeChain),
	}
	for _, o := range owners {
		f.chains[o] = &fakeChain{contract: f.contract, owner: o}
	}
	f.chains[stranger] = &fakeChain{contract: f.contract, owner: stranger}
	return f
}

func (f *fixture) service(owner common.Address) *Service {
	return NewService(f.chains[owner], f.store, walletAddr, nil)
}

func TestLifecycleTwoOfThree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB, ownerC)

	// Owner A proposes a transfer of 1.5 native-currency units.
	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1.5",
		Description: "ops payout",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.ID)
	require.Equal(t, model.StatusPending, resp.Status)
	require.Equal(t, model.TypeTransferFunds, resp.Type)
	require.True(t, resp.TypeInferred)

	view, err := f.service(ownerA).GetTransaction(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, view.Status)
	require.Equal(t, uint64(1), view.Confirmations)
	require.Equal(t, "1.5", view.Value)
	require.Equal(t, "ops payout", view.Description)

	// Owner B confirms: PENDING -> CONFIRMED.
	view, err = f.service(ownerB).Confirm(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, view.Status)
	require.Equal(t, uint64(2), view.Confirmations)

	// Owner C executes: CONFIRMED -> EXECUTED.
	view, err = f.service(ownerC).Execute(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, model.StatusExecuted, view.Status)
	require.True(t, view.Executed)
	require.True(t, f.contract.txs[0].executed)

	// The metadata cache follows, with the enrichment preserved.
	row := f.store.snapshot(0)
	require.Equal(t, string(model.StatusExecuted), row.Status)
	require.Equal(t, "ops payout", row.Description)
}

func TestProposeWithExplicitType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "0",
		Data:        "0xdeadbeef",
		Type:        model.TypeChangeParameter,
		Description: "set fee to 2%",
	})
	require.NoError(t, err)
	require.Equal(t, model.TypeChangeParameter, resp.Type)
	require.False(t, resp.TypeInferred)

	view, err := f.service(ownerA).GetTransaction(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, model.TypeChangeParameter, view.Type)
	require.False(t, view.TypeInferred)
}

func TestProposeRejectedForNonOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	_, err := f.service(stranger).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.ErrorIs(t, err, model.ErrSubmissionRejected)
}

func TestExecuteInsufficientConfirmations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, ownerA, ownerB, ownerC)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)
	_, err = f.service(ownerB).Confirm(ctx, resp.ID)
	require.NoError(t, err)

	// 2 of 3: must fail precondition and must not touch the chain.
	_, err = f.service(ownerC).Execute(ctx, resp.ID)
	require.ErrorIs(t, err, model.ErrInsufficientConfirmations)
	require.Equal(t, 0, f.chains[ownerC].executeCalls)
}

func TestExecuteIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)
	_, err = f.service(ownerB).Confirm(ctx, resp.ID)
	require.NoError(t, err)
	_, err = f.service(ownerB).Execute(ctx, resp.ID)
	require.NoError(t, err)

	// Executing again returns success without a second on-chain call.
	view, err := f.service(ownerA).Execute(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusExecuted, view.Status)
	require.Equal(t, 0, f.chains[ownerA].executeCalls)
}

func TestExecuteInnerRevert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "100", // more than the wallet holds
	})
	require.NoError(t, err)
	f.contract.txs[resp.ID].innerReverts = true

	_, err = f.service(ownerB).Confirm(ctx, resp.ID)
	require.NoError(t, err)

	view, err := f.service(ownerA).Execute(ctx, resp.ID)
	require.ErrorIs(t, err, model.ErrExecutionReverted)
	require.NotNil(t, view)
	require.Equal(t, model.StatusFailed, view.Status)
	// The inner call reverted; executed stays false on-chain.
	require.False(t, view.Executed)
	require.False(t, f.contract.txs[resp.ID].executed)
}

func TestConfirmTwiceRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)

	// The proposer is already confirmed by submission.
	_, err = f.service(ownerA).Confirm(ctx, resp.ID)
	require.ErrorIs(t, err, model.ErrNoOpRejected)

	view, err := f.service(ownerA).GetTransaction(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), view.Confirmations)
}

func TestRevokeRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	resp, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)

	view, err := f.service(ownerB).Confirm(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, view.Status)

	view, err = f.service(ownerB).Revoke(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, view.Status)
	require.Equal(t, uint64(1), view.Confirmations)

	// Revoking a confirmation that no longer exists is rejected.
	_, err = f.service(ownerB).Revoke(ctx, resp.ID)
	require.ErrorIs(t, err, model.ErrNoOpRejected)
}

func TestConcurrentConfirmations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(4, ownerA, ownerB, ownerC, ownerD)

	resp, err := f.service(ownerD).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 3)
	for _, o := range []common.Address{ownerA, ownerB, ownerC} {
		wg.Add(1)
		go func(owner common.Address) {
			defer wg.Done()
			_, err := f.service(owner).Confirm(ctx, resp.ID)
			errCh <- err
		}(o)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// Exactly the distinct confirming owners are counted: no double
	// count, no lost update.
	view, err := f.service(ownerD).GetTransaction(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(4), view.Confirmations)
	require.Equal(t, model.StatusConfirmed, view.Status)
}

func TestListTransactionsDescending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)
	svc := f.service(ownerA)

	for i := 0; i < 3; i++ {
		_, err := svc.Propose(ctx, &model.ProposeRequest{
			Destination: recipient.Hex(),
			Value:       "1",
		})
		require.NoError(t, err)
	}

	list, err := svc.ListTransactions(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	require.Len(t, list.Transactions, 3)
	for i, tx := range list.Transactions {
		require.Equal(t, uint64(2-i), tx.ID)
	}
}

func TestListTransactionsStatusFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	first, err := f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1",
	})
	require.NoError(t, err)
	_, err = f.service(ownerA).Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "2",
	})
	require.NoError(t, err)

	_, err = f.service(ownerB).Confirm(ctx, first.ID)
	require.NoError(t, err)

	confirmed := model.StatusConfirmed
	list, err := f.service(ownerA).ListTransactions(ctx, &model.ListRequest{Status: &confirmed})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	require.Equal(t, first.ID, list.Transactions[0].ID)
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)
	svc := f.service(ownerA)

	resp, err := svc.Propose(ctx, &model.ProposeRequest{
		Destination: recipient.Hex(),
		Value:       "1.5",
		Description: "ops payout",
	})
	require.NoError(t, err)

	_, err = svc.Reconcile(ctx, resp.ID)
	require.NoError(t, err)
	first := f.store.snapshot(resp.ID)

	_, err = svc.Reconcile(ctx, resp.ID)
	require.NoError(t, err)
	second := f.store.snapshot(resp.ID)

	require.Equal(t, first, second)
}

func TestClassifierFallbackWithoutMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	// Proposal made directly on-chain, bypassing the coordinator: no
	// metadata row exists, the classifier reconstructs a best-effort type.
	id := f.contract.addTx(recipient, big.NewInt(1e18), nil, ownerA)

	view, err := f.service(ownerB).GetTransaction(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.TypeTransferFunds, view.Type)
	require.True(t, view.TypeInferred)
	require.Empty(t, view.Description)
}

func TestStoreFailureStillReturnsChainView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)
	f.store.failWrites = true

	id := f.contract.addTx(recipient, big.NewInt(1e18), nil, ownerA)

	view, err := f.service(ownerA).GetTransaction(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, view.Status)
	require.Equal(t, "1", view.Value)
}

func TestGetTransactionNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB)

	_, err := f.service(ownerA).GetTransaction(ctx, 42)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetWalletInfo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2, ownerA, ownerB, ownerC)

	info, err := f.service(ownerA).GetWalletInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, walletAddr.Hex(), info.Address)
	require.Len(t, info.Owners, 3)
	require.Equal(t, uint64(2), info.RequiredConfirmations)
	require.Equal(t, uint64(0), info.TransactionCount)
	require.Equal(t, "10", info.Balance)
	require.NotEmpty(t, info.DepositQR)
}
