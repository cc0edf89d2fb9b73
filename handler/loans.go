package handler

import (
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
)

// BorrowBook godoc
// @Summary Lend a book to a reader
// @Tags loans
// @Accept  json
// @Produce json
// @Param readerId path string true "Reader ID"
// @Param body body dto.BorrowBookRequestBody true "Book to lend"
// @Param token header string true "Bearer token"
// @Success 201 {object} data.Receipt
// @Failure 400
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/readers/{readerId}/loans [post]
func (h *Handler) borrowBookHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.BorrowBookRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	receipt, err := h.service.BorrowBook(r.Context(), readerID, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusCreated, "book borrowed successfully", receipt, nil, nil)
}

// ReturnBook godoc
// @Summary Return a borrowed book
// @Description Closes the borrow entry and charges any overdue fine. The body is optional.
// @Tags loans
// @Accept  json
// @Produce json
// @Param readerId path string true "Reader ID"
// @Param entryId path string true "Borrow entry ID"
// @Param token header string true "Bearer token"
// @Success 200 {object} data.Receipt
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/readers/{readerId}/loans/{entryId}/return [post]
func (h *Handler) returnBookHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	entryID, err := h.readIDParam(r, "entryId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.ReturnBookRequestBody
	if r.ContentLength > 0 {
		err = h.decodeJSON(w, r, &requestBody)
		if err != nil {
			h.requestErrorResponse(w, r, err)
			return
		}
	}
	receipt, err := h.service.ReturnBook(r.Context(), readerID, entryID, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "book returned successfully", receipt, nil, nil)
}

func (h *Handler) payFineHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.PayFineRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	receipt, err := h.service.PayFine(r.Context(), readerID, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusCreated, "fine payment recorded successfully", receipt, nil, nil)
}
