package model

// ExecutionReceipt is the decoded outcome of an executeTransaction call.
// SawFailure means the proposed call itself reverted inside the multisig;
// the execute transaction was still mined successfully.
type ExecutionReceipt struct {
	TxHash       string
	SawExecution bool
	SawFailure   bool
}
