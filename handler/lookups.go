package handler

import (
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
)

// readKindParam resolves the :kind segment of the lookup routes.
func (h *Handler) readKindParam(r *http.Request) (data.LookupKind, bool) {
	return data.ParseLookupKind(h.readParam(r, "kind"))
}

// CreateLookup godoc
// @Summary Create an author, genre, category or publisher
// @Tags lookups
// @Accept  json
// @Produce json
// @Param kind path string true "authors, genres, categories or publishers"
// @Param body body dto.CreateLookupRequestBody true "Lookup"
// @Param token header string true "Bearer token"
// @Success 201 {object} data.Lookup
// @Failure 400
// @Failure 404
// @Failure 500
// @Router /v1/lookups/{kind} [post]
func (h *Handler) createLookupHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.readKindParam(r)
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.CreateLookupRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	lookup, err := h.service.CreateLookup(r.Context(), kind, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/lookups/%s/%s", kind, lookup.ID))
	h.successResponse(w, r, http.StatusCreated, kind.Singular()+" created successfully", lookup, nil, headers)
}

// ShowLookup godoc
// @Summary Show a lookup by id or alias
// @Tags lookups
// @Produce json
// @Param kind path string true "authors, genres, categories or publishers"
// @Param lookupId path string true "ID or name alias"
// @Param token header string true "Bearer token"
// @Success 200 {object} data.Lookup
// @Failure 404
// @Failure 500
// @Router /v1/lookups/{kind}/{lookupId} [get]
func (h *Handler) showLookupHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.readKindParam(r)
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	lookup, err := h.service.GetLookup(r.Context(), kind, h.readParam(r, "lookupId"))
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, kind.Singular()+" retrieved successfully", lookup, nil, nil)
}

func (h *Handler) listLookupsHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.readKindParam(r)
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	var qsInput dto.QsListLookups
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Category = h.readUUID(qs, "category", v)
	qsInput.Filters = h.readFilters(qs, v, "name", "name", "name_alias", "created_at", "updated_at")
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	lookups, metadata, err := h.service.ListLookups(r.Context(), kind, qsInput)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, string(kind)+" retrieved successfully", lookups, &metadata, nil)
}

func (h *Handler) updateLookupHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.readKindParam(r)
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	id, err := h.readIDParam(r, "lookupId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateLookupRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	lookup, err := h.service.UpdateLookup(r.Context(), kind, id, requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, kind.Singular()+" updated successfully", lookup, nil, nil)
}

func (h *Handler) deleteLookupHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.readKindParam(r)
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	id, err := h.readIDParam(r, "lookupId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteLookup(r.Context(), kind, id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, kind.Singular()+" deleted successfully", nil, nil, nil)
}
