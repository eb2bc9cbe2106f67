package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestParseIDParam_Negative(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "-1"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRespondCatalogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		contains string
	}{
		{"not found", fmt.Errorf("book with ID 7: %w", catalog.ErrNotFound), http.StatusNotFound, CodeNotFound, "Book with ID 7 not found"},
		{"duplicate", catalog.ErrDuplicateRecord, http.StatusBadRequest, CodeDuplicateRecord, "already exists"},
		{"invalid input", fmt.Errorf("skip must be >= 0: %w", catalog.ErrInvalidInput), http.StatusUnprocessableEntity, CodeInvalidInput, "skip must be"},
		{"field errors", validation.Errors{{Field: "title", Error: "is required"}}, http.StatusUnprocessableEntity, CodeInvalidInput, `"field":"title"`},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondCatalogError(c, tt.err, 7, "test")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRespondInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondInternalError(c, errors.New("secret connection string"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *int
		invalid bool
	}{
		{"absent", "/", nil, false},
		{"valid", "/?n=42", intPtr(42), false},
		{"negative", "/?n=-3", intPtr(-3), false},
		{"not a number", "/?n=x", nil, true},
		{"empty", "/?n=", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.query, nil)
			var errs validation.Errors

			got := queryInt(c, "n", &errs)

			assert.Equal(t, tt.want, got)
			if tt.invalid {
				assert.Equal(t, validation.Errors{{Field: "n", Error: "must be an integer"}}, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestQueryUint(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?a=7&b=-1", nil)
	var errs validation.Errors

	a := queryUint(c, "a", &errs)
	b := queryUint(c, "b", &errs)

	if assert.NotNil(t, a) {
		assert.Equal(t, uint(7), *a)
	}
	assert.Nil(t, b)
	assert.Equal(t, validation.Errors{{Field: "b", Error: "must be an unsigned integer"}}, errs)
}

func TestBodyErrors(t *testing.T) {
	var target struct {
		Title string `json:"title"`
		Year  *int   `json:"year"`
	}

	t.Run("type mismatch names the field", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"year":"soon"}`), &target)
		assert.Equal(t, validation.Errors{{Field: "year", Error: "must be an integer"}}, bodyErrors(err))

		err = json.Unmarshal([]byte(`{"title":5}`), &target)
		assert.Equal(t, validation.Errors{{Field: "title", Error: "must be a string"}}, bodyErrors(err))
	})

	t.Run("syntax errors describe the body", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"title":`), &target)
		assert.Equal(t, validation.Errors{{Field: "body", Error: "must be a valid JSON object"}}, bodyErrors(err))
	})

	t.Run("non-JSON errors describe the body", func(t *testing.T) {
		errs := bodyErrors(errors.New("invalid request"))
		assert.Equal(t, "body", errs[0].Field)
	})
}

func intPtr(v int) *int { return &v }
