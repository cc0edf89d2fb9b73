package handler

import (
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
)

// CreateBook godoc
// @Summary Create a book
// @Description Creates a book. Send multipart/form-data with the book JSON in "data" and up to 5 files in "images", or a plain JSON body.
// @Tags books
// @Accept  json,mpfd
// @Produce json
// @Param data formData string true "Book JSON (dto.CreateBookRequestBody)"
// @Param images formData file false "Cover images"
// @Param token header string true "Bearer token"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 413
// @Failure 415
// @Failure 500
// @Router /v1/books [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateBookRequestBody
	files, _, err := h.readBookForm(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	book, err := h.service.CreateBook(r.Context(), requestBody, files)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%s", book.ID))
	h.successResponse(w, r, http.StatusCreated, "book created successfully", book, nil, headers)
}

// ShowBook godoc
// @Summary Show a book
// @Tags books
// @Produce json
// @Param bookId path string true "Book ID"
// @Param token header string true "Bearer token"
// @Success 200 {object} data.Book
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "book retrieved successfully", book, nil, nil)
}

func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Genre = h.readUUID(qs, "genre", v)
	qsInput.Category = h.readUUID(qs, "category", v)
	qsInput.Publisher = h.readUUID(qs, "publisher", v)
	qsInput.Author = h.readUUID(qs, "author", v)
	qsInput.Language = h.readString(qs, "language", "")
	qsInput.Filters = h.readFilters(qs, v, "created_at", "title", "isbn", "publication_year", "available_copies", "created_at", "updated_at")
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	books, metadata, err := h.service.ListBooks(r.Context(), qsInput)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "books retrieved successfully", books, &metadata, nil)
}

// UpdateBook godoc
// @Summary Update a book
// @Description Partially updates a book. Multipart requests may add images and name the storage ids to remove in "images_to_delete".
// @Tags books
// @Accept  json,mpfd
// @Produce json
// @Param bookId path string true "Book ID"
// @Param data formData string false "Book JSON (dto.UpdateBookRequestBody)"
// @Param images formData file false "New images"
// @Param images_to_delete formData string false "JSON array of storage ids"
// @Param token header string true "Bearer token"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 500
// @Router /v1/books/{bookId} [patch]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateBookRequestBody
	files, imagesToDelete, err := h.readBookForm(w, r, &requestBody)
	if err != nil {
		h.requestErrorResponse(w, r, err)
		return
	}
	book, err := h.service.UpdateBook(r.Context(), bookID, requestBody, files, imagesToDelete)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "book updated successfully", book, nil, nil)
}

func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteBook(r.Context(), bookID)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "book deleted successfully", nil, nil, nil)
}
