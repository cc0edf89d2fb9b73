package handler

import (
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
)

// CreateReader godoc
// @Summary Register a reader
// @Tags readers
// @Accept  json
// @Produce json
// @Param body body dto.CreateReaderRequestBody true "Reader"
// @Param token header string true "Bearer token"
// @Success 201 {object} data.Reader
// @Failure 400
// @Failure 500
// @Router /v1/readers [post]
func (h *Handler) createReaderHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateReaderRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	reader, err := h.service.CreateReader(r.Context(), requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/readers/%s", reader.ID))
	h.successResponse(w, r, http.StatusCreated, "reader created successfully", reader, nil, headers)
}

func (h *Handler) showReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reader, err := h.service.GetReader(r.Context(), readerID)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "reader retrieved successfully", reader, nil, nil)
}

func (h *Handler) listReadersHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListReaders
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.MembershipType = h.readString(qs, "membership_type", "")
	qsInput.IsActive = h.readBool(qs, "is_active", v)
	qsInput.IsBlacklisted = h.readBool(qs, "is_blacklisted", v)
	qsInput.Filters = h.readFilters(qs, v, "created_at", "first_name", "last_name", "email", "membership_id", "total_fine", "created_at", "updated_at")
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	readers, metadata, err := h.service.ListReaders(r.Context(), qsInput)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "readers retrieved successfully", readers, &metadata, nil)
}

// UpdateReader godoc
// @Summary Update a reader
// @Description Partially updates a reader. Address fields are merged one by one.
// @Tags readers
// @Accept  json
// @Produce json
// @Param readerId path string true "Reader ID"
// @Param body body dto.UpdateReaderRequestBody true "Changes"
// @Param token header string true "Bearer token"
// @Success 200 {object} data.Reader
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 500
// @Router /v1/readers/{readerId} [patch]
func (h *Handler) updateReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateReaderRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	reader, err := h.service.UpdateReader(r.Context(), readerID, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "reader updated successfully", reader, nil, nil)
}

func (h *Handler) deleteReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := h.readIDParam(r, "readerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteReader(r.Context(), readerID)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "reader deleted successfully", nil, nil, nil)
}
