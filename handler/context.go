package handler

import (
	"context"
	"net/http"

	"github.com/emzola/athenaeum/data"
)

// Type contextKey is a custom contextKey type, with the underlying type string.
// This is necessary to prevent name collisions with external packages.
type contextKey string

const adminContextKey = contextKey("admin")

// contextSetAdmin returns a new copy of the request with the provided Admin
// added to the context.
func (h *Handler) contextSetAdmin(r *http.Request, admin *data.Admin) *http.Request {
	ctx := context.WithValue(r.Context(), adminContextKey, admin)
	return r.WithContext(ctx)
}

// contextGetAdmin retrieves the Admin from the request context. It is only
// called behind the authenticate middleware, so a missing value is a bug.
func (h *Handler) contextGetAdmin(r *http.Request) *data.Admin {
	admin, ok := r.Context().Value(adminContextKey).(*data.Admin)
	if !ok {
		panic("missing admin value in request context")
	}
	return admin
}
