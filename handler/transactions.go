package handler

import (
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
)

func (h *Handler) showTransactionHandler(w http.ResponseWriter, r *http.Request) {
	transactionID, err := h.readIDParam(r, "transactionId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	txn, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "transaction retrieved successfully", txn, nil, nil)
}

func (h *Handler) listTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListTransactions
	v := validator.New()
	qs := r.URL.Query()
	qsInput.ReaderID = h.readUUID(qs, "reader", v)
	qsInput.BookID = h.readUUID(qs, "book", v)
	qsInput.Type = h.readString(qs, "type", "")
	qsInput.Filters = h.readFilters(qs, v, "transaction_date", "transaction_date", "amount", "created_at")
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	txns, metadata, err := h.service.ListTransactions(r.Context(), qsInput)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "transactions retrieved successfully", txns, &metadata, nil)
}
