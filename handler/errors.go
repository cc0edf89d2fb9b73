package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/service"
)

// borrowRuleErrors are the loan rejections reported as 422.
var borrowRuleErrors = []error{
	service.ErrBookUnavailable,
	service.ErrReferenceOnly,
	service.ErrReaderInactive,
	service.ErrReaderBlacklisted,
	service.ErrMembershipExpired,
	service.ErrLoanLimitReached,
	service.ErrAlreadyBorrowed,
	service.ErrAlreadyReturned,
	service.ErrInvalidFinePayment,
}

func (h *Handler) logError(r *http.Request, err error) {
	h.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

// errorResponse writes the error envelope. detail is omitted when nil.
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, detail any) {
	env := envelope{"success": false, "message": message}
	if detail != nil {
		env["error"] = detail
	}
	err := h.encodeJSON(w, status, env, nil)
	if err != nil {
		h.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	h.errorResponse(w, r, http.StatusInternalServerError, message, nil)
}

func (h *Handler) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	h.errorResponse(w, r, http.StatusNotFound, message, nil)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (h *Handler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, "the request could not be processed", err.Error())
}

func (h *Handler) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	h.errorResponse(w, r, http.StatusBadRequest, "the request failed validation", errors)
}

func (h *Handler) duplicateRecordResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, "a record with these details already exists", err.Error())
}

func (h *Handler) referenceNotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, "a referenced record could not be found", err.Error())
}

func (h *Handler) contentTooLargeResponse(w http.ResponseWriter, r *http.Request) {
	message := "the request body is too large"
	h.errorResponse(w, r, http.StatusRequestEntityTooLarge, message, nil)
}

func (h *Handler) unsupportedMediaTypeResponse(w http.ResponseWriter, r *http.Request) {
	message := "the file type is not supported for this resource"
	h.errorResponse(w, r, http.StatusUnsupportedMediaType, message, nil)
}

func (h *Handler) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	h.errorResponse(w, r, http.StatusConflict, message, nil)
}

func (h *Handler) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusConflict, "the request conflicts with the current state of the record", err.Error())
}

func (h *Handler) ruleViolationResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusUnprocessableEntity, "the request breaks a borrowing rule", err.Error())
}

func (h *Handler) assetStoreErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "the image store could not process the request"
	h.errorResponse(w, r, http.StatusInternalServerError, message, nil)
}

func (h *Handler) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	h.errorResponse(w, r, http.StatusTooManyRequests, message, nil)
}

func (h *Handler) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "invalid authentication credentials"
	h.errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

func (h *Handler) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	message := "invalid or missing authentication token"
	h.errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

func (h *Handler) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	h.errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

func (h *Handler) inactiveAccountResponse(w http.ResponseWriter, r *http.Request) {
	message := "your staff account must be activated to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message, nil)
}

func (h *Handler) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your role does not have the necessary permissions to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message, nil)
}

// serviceErrorResponse maps a service error to its response.
func (h *Handler) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.failedValidationResponse(w, r, validationErr.Errors)
	case errors.Is(err, service.ErrRecordNotFound):
		h.notFoundResponse(w, r)
	case errors.Is(err, service.ErrDuplicateRecord):
		h.duplicateRecordResponse(w, r, err)
	case errors.Is(err, service.ErrReferenceNotFound):
		h.referenceNotFoundResponse(w, r, err)
	case errors.Is(err, service.ErrEditConflict):
		h.editConflictResponse(w, r)
	case errors.Is(err, service.ErrLookupInUse), errors.Is(err, service.ErrOutstandingLoans):
		h.conflictResponse(w, r, err)
	case errors.Is(err, service.ErrUnsupportedMediaType):
		h.unsupportedMediaTypeResponse(w, r)
	case errors.Is(err, service.ErrAssetStore):
		h.assetStoreErrorResponse(w, r, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.invalidCredentialsResponse(w, r)
	case isBorrowRuleError(err):
		h.ruleViolationResponse(w, r, err)
	default:
		h.serverErrorResponse(w, r, err)
	}
}

func isBorrowRuleError(err error) bool {
	for _, target := range borrowRuleErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// requestErrorResponse reports a body that could not be read.
func (h *Handler) requestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errContentTooLarge) {
		h.contentTooLargeResponse(w, r)
		return
	}
	h.badRequestResponse(w, r, err)
}
