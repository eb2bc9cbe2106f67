package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// Machine-readable error codes.
const (
	CodeNotFound        = "not_found"
	CodeDuplicateRecord = "duplicate_record"
	CodeInvalidInput    = "invalid_input"
	CodeInternal        = "internal_error"
)

// --- Error Response Helpers ---

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message, Code: CodeNotFound})
}

// respondInvalid sends a 422 Unprocessable Entity response.
func respondInvalid(c *gin.Context, message string, details any) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: message, Code: CodeInvalidInput, Details: details})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log := requestLogger(c)
	log.Error().Err(err).Str("context", context).Msg("internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondCatalogError maps a catalog error kind onto a response. id is the
// book the request addressed, or 0.
func respondCatalogError(c *gin.Context, err error, id uint, context string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respondInvalid(c, "validation failed", verrs)
	case errors.Is(err, catalog.ErrInvalidInput):
		respondInvalid(c, err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, fmt.Sprintf("Book with ID %d not found", id))
	case errors.Is(err, catalog.ErrDuplicateRecord):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Book with this title and author already exists",
			Code:  CodeDuplicateRecord,
		})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 422 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondInvalid(c, "invalid "+paramName, []validation.FieldError{{Field: paramName, Error: "must be an unsigned integer"}})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter. A malformed value is
// appended to errs and nil is returned.
func queryInt(c *gin.Context, name string, errs *validation.Errors) *int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, validation.FieldError{Field: name, Error: "must be an integer"})
		return nil
	}
	return &v
}

// queryUint reads an optional unsigned integer query parameter.
func queryUint(c *gin.Context, name string, errs *validation.Errors) *uint {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		*errs = append(*errs, validation.FieldError{Field: name, Error: "must be an unsigned integer"})
		return nil
	}
	id := uint(v)
	return &id
}

// bodyErrors describes a JSON decoding failure without exposing decoder
// internals.
func bodyErrors(err error) validation.Errors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Errors{{Field: typeErr.Field, Error: "must be " + jsonKind(typeErr.Type)}}
	}
	return validation.Errors{{Field: "body", Error: "must be a valid JSON object"}}
}

func jsonKind(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	default:
		return "a valid value"
	}
}
