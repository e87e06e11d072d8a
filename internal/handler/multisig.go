package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mwt/internal/model"
	"mwt/multisig"
)

// MultisigHandler exposes the coordinator over HTTP
type MultisigHandler struct {
	service *multisig.Service
}

// NewMultisigHandler creates a new MultisigHandler around the coordinator
func NewMultisigHandler(service *multisig.Service) *MultisigHandler {
	return &MultisigHandler{service: service}
}

// GetWalletInfo handles GET /wallet
// @Summary      Get multisig wallet info
// @Description  Gets owners, required confirmations, transaction count and balance, read fresh from the chain
// @Tags         multisig
// @Produce      json
// @Success      200  {object}  model.WalletInfoResponse
// @Router       /wallet [get]
func (h *MultisigHandler) GetWalletInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetWalletInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ListTransactions handles GET /transactions
// @Summary      List multisig transactions
// @Description  Reconciles and returns all transactions, newest first, with optional filtering
// @Tags         multisig
// @Produce      json
// @Param        status  query     string  false  "Filter by status: PENDING, CONFIRMED, EXECUTED or FAILED"
// @Param        type    query     string  false  "Filter by transaction type"
// @Success      200  {object}  model.ListResponse
// @Router       /transactions [get]
func (h *MultisigHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var req model.ListRequest

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := model.TransactionStatus(statusStr)
		req.Status = &status
	}
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	list, err := h.service.ListTransactions(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetTransaction handles GET /transactions/{id}
// @Summary      Get one multisig transaction
// @Description  Returns the canonical reconciled view of a transaction
// @Tags         multisig
// @Produce      json
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  model.Transaction
// @Router       /transactions/{id} [get]
func (h *MultisigHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Propose handles POST /transactions
// @Summary      Propose a transaction
// @Description  Submits a new transaction to the multisig contract and records its metadata
// @Tags         multisig
// @Accept       json
// @Produce      json
// @Param        request  body      model.ProposeRequest  true  "Proposal data"
// @Success      201      {object}  model.ProposeResponse
// @Router       /transactions [post]
func (h *MultisigHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req model.ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Propose(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Confirm handles POST /transactions/{id}/confirm
// @Summary      Confirm a transaction
// @Description  Adds the signing owner's confirmation and returns the reconciled view
// @Tags         multisig
// @Produce      json
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  model.Transaction
// @Router       /transactions/{id}/confirm [post]
func (h *MultisigHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Revoke handles POST /transactions/{id}/revoke
// @Summary      Revoke a confirmation
// @Description  Withdraws the signing owner's confirmation and returns the reconciled view
// @Tags         multisig
// @Produce      json
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  model.Transaction
// @Router       /transactions/{id}/revoke [post]
func (h *MultisigHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.service.Revoke(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Execute handles POST /transactions/{id}/execute
// @Summary      Execute a confirmed transaction
// @Description  Triggers on-chain execution; idempotent for already executed transactions
// @Tags         multisig
// @Produce      json
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  model.Transaction
// @Router       /transactions/{id}/execute [post]
func (h *MultisigHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.service.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// pathID parses the {id} path segment; writes a 400 response on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid transaction id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the coordinator error taxonomy onto HTTP statuses. The
// code field lets clients branch without parsing error strings.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInsufficientConfirmations),
		errors.Is(err, model.ErrNoOpRejected),
		errors.Is(err, model.ErrExecutionReverted):
		status = http.StatusConflict
	case errors.Is(err, model.ErrSubmissionRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrChainUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, model.ErrUnknownOutcome):
		status = http.StatusGatewayTimeout
	case model.ErrorCode(err) == "":
		status = http.StatusBadRequest
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: model.ErrorCode(err)})
}
