package handler

import (
	"expvar"
	"net/http"

	"github.com/emzola/athenaeum/data"
	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	staff := func(next http.HandlerFunc) http.HandlerFunc {
		return h.requireRole(next, data.RoleLibrarian)
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return h.requireRole(next, data.RoleAdmin)
	}

	router.HandlerFunc(http.MethodGet, "/v1/books", staff(h.listBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books", staff(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", staff(h.showBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", staff(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", admin(h.deleteBookHandler))

	router.HandlerFunc(http.MethodGet, "/v1/lookups/:kind", staff(h.listLookupsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/lookups/:kind", staff(h.createLookupHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lookups/:kind/:lookupId", staff(h.showLookupHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/lookups/:kind/:lookupId", staff(h.updateLookupHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/lookups/:kind/:lookupId", admin(h.deleteLookupHandler))

	router.HandlerFunc(http.MethodGet, "/v1/readers", staff(h.listReadersHandler))
	router.HandlerFunc(http.MethodPost, "/v1/readers", staff(h.createReaderHandler))
	router.HandlerFunc(http.MethodGet, "/v1/readers/:readerId", staff(h.showReaderHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/readers/:readerId", staff(h.updateReaderHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/readers/:readerId", admin(h.deleteReaderHandler))

	router.HandlerFunc(http.MethodPost, "/v1/readers/:readerId/loans", staff(h.borrowBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/readers/:readerId/loans/:entryId/return", staff(h.returnBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/readers/:readerId/fines", staff(h.payFineHandler))

	router.HandlerFunc(http.MethodGet, "/v1/transactions", staff(h.listTransactionsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/transactions/:transactionId", staff(h.showTransactionHandler))

	router.HandlerFunc(http.MethodPost, "/v1/admins", admin(h.createAdminHandler))
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedAdmin(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.metrics(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
