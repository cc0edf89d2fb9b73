package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/storage"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const (
	maxJSONBytes   = 1_048_576
	maxUploadBytes = 26_214_400
)

var errContentTooLarge = errors.New("request body too large")

type envelope map[string]any

// readIDParam pulls the named url parameter from the request and parses it as
// an ID.
func (h *Handler) readIDParam(r *http.Request, name string) (uuid.UUID, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := uuid.Parse(params.ByName(name))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (h *Handler) readParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// encodeJSON serializes data to JSON and writes the appropriate HTTP status code and headers if necessary.
func (h *Handler) encodeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')
	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// successResponse writes the success envelope. Pagination fields are added
// when metadata is given.
func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, status int, message string, payload any, metadata *data.Metadata, headers http.Header) {
	env := envelope{
		"success": true,
		"message": message,
	}
	if payload != nil {
		env["data"] = payload
	}
	if metadata != nil {
		env["total_records"] = metadata.TotalRecords
		env["total_pages"] = metadata.TotalPages
		env["current_page"] = metadata.CurrentPage
	}
	err := h.encodeJSON(w, status, env, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	return decodeJSONReader(r.Body, dst)
}

func decodeJSONReader(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("%w: must not be larger than %d bytes", errContentTooLarge, maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readBookForm decodes a book request. A multipart/form-data request carries
// the JSON document in the "data" field, image files in "images" and the
// storage ids to remove in "images_to_delete" (a JSON array or repeated
// values). Any other request is read as a plain JSON body.
func (h *Handler) readBookForm(w http.ResponseWriter, r *http.Request, dst any) ([]storage.File, []string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, nil, h.decodeJSON(w, r, dst)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, nil, fmt.Errorf("%w: must not be larger than %d bytes", errContentTooLarge, maxBytesError.Limit)
		}
		return nil, nil, err
	}
	defer r.MultipartForm.RemoveAll()
	if doc := r.MultipartForm.Value["data"]; len(doc) > 0 && strings.TrimSpace(doc[0]) != "" {
		err = decodeJSONReader(strings.NewReader(doc[0]), dst)
		if err != nil {
			return nil, nil, err
		}
	}
	files := make([]storage.File, 0, len(r.MultipartForm.File["images"]))
	for _, fileHeader := range r.MultipartForm.File["images"] {
		file, err := readFormFile(fileHeader)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, file)
	}
	imagesToDelete, err := readStorageIDs(r.MultipartForm.Value["images_to_delete"])
	if err != nil {
		return nil, nil, err
	}
	return files, imagesToDelete, nil
}

func readFormFile(fileHeader *multipart.FileHeader) (storage.File, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return storage.File{}, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return storage.File{}, err
	}
	return storage.File{Filename: fileHeader.Filename, Content: content}, nil
}

func readStorageIDs(values []string) ([]string, error) {
	var ids []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "[") {
			var batch []string
			err := json.Unmarshal([]byte(value), &batch)
			if err != nil {
				return nil, errors.New("images_to_delete must be a JSON array of strings")
			}
			ids = append(ids, batch...)
			continue
		}
		if value != "" {
			ids = append(ids, value)
		}
	}
	return ids, nil
}

// readString returns a string value from the query string, or the provided
// default value if no matching key could be found.
func (h *Handler) readString(qs url.Values, key string, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readCSV reads a string value from the query string and then splits it
// into a slice on the comma character.
func (h *Handler) readCSV(qs url.Values, key string, defaultValue []string) []string {
	csv := qs.Get(key)
	if csv == "" {
		return defaultValue
	}
	return strings.Split(csv, ",")
}

// readInt reads a string value from the query string and converts it to an
// integer before returning. Conversion failures are recorded in v.
func (h *Handler) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}

func (h *Handler) readBool(qs url.Values, key string, v *validator.Validator) *bool {
	s := qs.Get(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		v.AddError(key, "must be true or false")
		return nil
	}
	return &b
}

func (h *Handler) readUUID(qs url.Values, key string, v *validator.Validator) *uuid.UUID {
	s := qs.Get(key)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		v.AddError(key, "must be a valid id")
		return nil
	}
	return &id
}

// readFilters reads the pagination and sorting parameters shared by list
// endpoints.
func (h *Handler) readFilters(qs url.Values, v *validator.Validator, defaultSort string, safeList ...string) data.Filters {
	return data.Filters{
		Page:         h.readInt(qs, "page", 1, v),
		Limit:        h.readInt(qs, "limit", 10, v),
		SortField:    h.readString(qs, "sort_field", defaultSort),
		SortOrder:    strings.ToLower(h.readString(qs, "sort_order", data.SortAscending)),
		SortSafeList: safeList,
	}
}
