package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finance-api/internal/middleware"
	"finance-api/internal/model"
	"finance-api/pkg/apierror"
)

type transactionService interface {
	Create(ctx context.Context, actorID string, in model.TransactionRequest) (model.Transaction, error)
	Update(ctx context.Context, actorID string, id string, in model.TransactionRequest) (model.Transaction, error)
	Delete(ctx context.Context, actorID string, id string) (model.Transaction, error)
	Get(ctx context.Context, actorID string, id string) (model.Transaction, error)
	List(ctx context.Context, actorID string, f model.TransactionFilterRequest) (model.TransactionList, error)
}

type TransactionHandler struct {
	service transactionService
}

func NewTransactionHandler(service transactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

func actor(r *http.Request) (string, error) {
	identity, found := middleware.IdentityFromContext(r.Context())
	if !found || identity.SubjectID == "" {
		return "", apierror.Auth("", "Authorization token is required")
	}
	return identity.SubjectID, nil
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.TransactionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.service.Create(r.Context(), actorID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.TransactionResponse{APIResponse: ok("Transaction added successfully"), Transaction: txn})
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.TransactionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.service.Update(r.Context(), actorID, chi.URLParam(r, "transactionId"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TransactionResponse{APIResponse: ok("Transaction updated successfully"), Transaction: txn})
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.service.Delete(r.Context(), actorID, chi.URLParam(r, "transactionId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TransactionResponse{APIResponse: ok("Transaction deleted successfully"), Transaction: txn})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.service.Get(r.Context(), actorID, chi.URLParam(r, "transactionId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TransactionResponse{APIResponse: ok("Transaction retrieved successfully"), Transaction: txn})
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.TransactionFilterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.service.List(r.Context(), actorID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TransactionListResponse{APIResponse: ok("Transactions retrieved successfully"), TransactionList: list})
}
