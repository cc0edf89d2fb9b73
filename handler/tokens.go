package handler

import (
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
)

// CreateAuthenticationToken godoc
// @Summary Login
// @Description This endpoint logs in a staff member by creating an authentication token
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.CreateAuthenticationTokenRequestBody true "JSON payload required to create an authentication token"
// @Success 201 {object} data.Token
// @Failure 400
// @Failure 401
// @Failure 500
// @Router /v1/tokens/authentication [post]
func (h *Handler) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateAuthenticationTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	token, err := h.service.CreateAuthenticationToken(r.Context(), requestBody.Email, requestBody.Password)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusCreated, "logged in successfully", envelope{"authentication_token": token}, nil, nil)
}

// DeleteAuthenticationToken godoc
// @Summary Logout
// @Description This endpoint logs out a staff member by deleting their authentication tokens
// @Tags tokens
// @Produce json
// @Param token header string true "Bearer token"
// @Success 200
// @Failure 401
// @Failure 500
// @Router /v1/tokens/authentication [delete]
func (h *Handler) deleteAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	admin := h.contextGetAdmin(r)
	err := h.service.DeleteAuthenticationToken(r.Context(), admin.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "authentication token successfully deleted", nil, nil, nil)
}

// createAdminHandler lets an admin add staff accounts.
func (h *Handler) createAdminHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateAdminRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	admin, err := h.service.CreateAdmin(r.Context(), requestBody)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/admins/%s", admin.ID))
	h.successResponse(w, r, http.StatusCreated, "staff account created successfully", admin, nil, headers)
}
