// Package validation checks the shape of catalog inputs before they reach a
// repository: title and author lengths and the year range.
//
// Rules are declared as validator/v10 struct tags and failures are reported
// as a list of field errors that unwraps to catalog.ErrInvalidInput.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// FieldError is a single rejected field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Errors is the set of field errors found in one input.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return catalog.ErrInvalidInput
}

// createRules and updateRules mirror catalog.NewBook and catalog.BookUpdate
// with pointers for presence, so omitempty skips absent fields. Lengths are
// checked on the value as it will be stored.
type createRules struct {
	Title  string `validate:"required,notblank,max=200"`
	Author string `validate:"required,notblank,max=100"`
	Year   *int   `validate:"omitempty,min=1000,max=2100"`
}

type updateRules struct {
	Title  *string `validate:"omitempty,notblank,max=200"`
	Author *string `validate:"omitempty,notblank,max=100"`
	Year   *int    `validate:"omitempty,min=1000,max=2100"`
}

type pageRules struct {
	Skip  int `validate:"min=0"`
	Limit int `validate:"min=0"`
}

// Validator is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	maxLimit int
}

// New returns a Validator. A positive maxLimit caps Page.Limit.
func New(maxLimit int) *Validator {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return &Validator{
		validate: validate,
		maxLimit: maxLimit,
	}
}

// notBlank fails strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// NewBook checks a create input.
func (v *Validator) NewBook(input catalog.NewBook) error {
	return v.check(createRules{
		Title:  input.Title,
		Author: input.Author,
		Year:   input.Year,
	})
}

// BookUpdate checks the supplied fields of an update. A supplied empty title
// or author is rejected; a supplied nil year (clear) is accepted.
func (v *Validator) BookUpdate(update catalog.BookUpdate) error {
	var rules updateRules
	if title, ok := update.Title.Get(); ok {
		rules.Title = &title
	}
	if author, ok := update.Author.Get(); ok {
		rules.Author = &author
	}
	if year, ok := update.Year.Get(); ok {
		rules.Year = year
	}
	return v.check(rules)
}

// Page checks pagination bounds.
func (v *Validator) Page(page catalog.Page) error {
	if err := v.check(pageRules{Skip: page.Skip, Limit: page.Limit}); err != nil {
		return err
	}
	if v.maxLimit > 0 && page.Limit > v.maxLimit {
		return Errors{{Field: "limit", Error: fmt.Sprintf("must be at most %d", v.maxLimit)}}
	}
	return nil
}

func (v *Validator) check(rules any) error {
	err := v.validate.Struct(rules)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: strings.ToLower(fe.Field()),
			Error: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty"
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
