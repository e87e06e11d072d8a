package model

import "errors"

// Closed error taxonomy for coordinator operations. Callers branch with
// errors.Is instead of inspecting error strings or response shapes.
var (
	// ErrChainUnavailable means the RPC endpoint could not be reached.
	// Retryable with backoff by the caller.
	ErrChainUnavailable = errors.New("chain unavailable")

	// ErrNotFound means the requested transaction id is >= transactionCount.
	ErrNotFound = errors.New("transaction not found")

	// ErrSubmissionRejected means the contract reverted submitTransaction
	// (e.g. the signer is not an owner). Not retryable with the same inputs.
	ErrSubmissionRejected = errors.New("submission rejected by contract")

	// ErrNoOpRejected means the contract rejected a redundant confirm or
	// revoke (already confirmed / nothing to revoke). Expected under
	// concurrent owners, not a coordinator fault.
	ErrNoOpRejected = errors.New("rejected by contract as a no-op")

	// ErrInsufficientConfirmations means execute was requested while the
	// transaction is still short of the required confirmations.
	ErrInsufficientConfirmations = errors.New("insufficient confirmations")

	// ErrIDExtractionFailed means submitTransaction was mined but the
	// Submission event is missing from the receipt. The transaction exists
	// on-chain but cannot be tracked; this is fatal and never swallowed.
	ErrIDExtractionFailed = errors.New("transaction id extraction failed")

	// ErrExecutionReverted means the proposed call itself reverted when the
	// multisig executed it. The coordinator worked correctly.
	ErrExecutionReverted = errors.New("proposed call reverted on execution")

	// ErrUnknownOutcome means the inclusion wait timed out. The underlying
	// transaction may still land; the caller must re-run reconciliation
	// rather than assume failure.
	ErrUnknownOutcome = errors.New("inclusion timeout, outcome unknown")
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorCode maps a coordinator error to its stable API code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrChainUnavailable):
		return "CHAIN_UNAVAILABLE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrSubmissionRejected):
		return "SUBMISSION_REJECTED"
	case errors.Is(err, ErrNoOpRejected):
		return "NOOP_REJECTED"
	case errors.Is(err, ErrInsufficientConfirmations):
		return "INSUFFICIENT_CONFIRMATIONS"
	case errors.Is(err, ErrIDExtractionFailed):
		return "ID_EXTRACTION_FAILED"
	case errors.Is(err, ErrExecutionReverted):
		return "EXECUTION_REVERTED"
	case errors.Is(err, ErrUnknownOutcome):
		return "UNKNOWN_OUTCOME"
	default:
		return ""
	}
}
