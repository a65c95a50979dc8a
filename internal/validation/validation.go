// Package validation checks request payloads against the field rules
// declared in their struct tags and renders failures as field-keyed
// messages.
//
// Besides the built-in go-playground rules two catalog rules are
// registered: exists=<table>, which requires every referenced ID to name
// a row of <table> that is not soft-deleted, and year, which requires a
// four-digit year.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Message is the summary sent alongside field errors
const Message = "The given data was invalid."

// Error holds the failed rules of one payload, keyed by json field name
type Error struct {
	Fields map[string][]string
}

// Error implements error
func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *Error) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Validator validates payloads; the exists rule queries db
type Validator struct {
	validate *validator.Validate
	db       *gorm.DB
}

// New creates a validator whose exists rule looks rows up in db
func New(db *gorm.DB) *Validator {
	v := &Validator{
		validate: validator.New(),
		db:       db,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.validate.RegisterValidationCtx("exists", v.validateExists)
	_ = v.validate.RegisterValidation("year", validateYear)

	return v
}

// Struct validates s. It returns nil, an *Error describing every failed
// field, or another error when s cannot be validated at all.
func (v *Validator) Struct(ctx context.Context, s interface{}) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate payload: %w", err)
	}

	out := &Error{}
	for _, fe := range fieldErrs {
		out.add(fe.Field(), message(fe))
	}
	return out
}

// FromDecodeError converts a JSON type mismatch into a field error.
// It returns nil for errors that are not tied to a single field.
func FromDecodeError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil
	}

	field := strings.SplitN(typeErr.Field, ".", 2)[0]
	label := humanize(field)

	var msg string
	switch kind := typeErr.Type.Kind(); kind {
	case reflect.Bool:
		msg = fmt.Sprintf("The %s field must be true or false.", label)
	case reflect.Slice, reflect.Array:
		msg = fmt.Sprintf("The %s must be an array.", label)
	case reflect.String:
		msg = fmt.Sprintf("The %s must be a string.", label)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		msg = fmt.Sprintf("The %s must be an integer.", label)
	default:
		msg = fmt.Sprintf("The %s is invalid.", label)
	}

	out := &Error{}
	out.add(field, msg)
	return out
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	kind := fe.Kind()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "min":
		if kind == reflect.Slice || kind == reflect.Array {
			return fmt.Sprintf("The %s field is required.", label)
		}
		if kind == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", label, fe.Param())
	case "oneof", "exists":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "year":
		return fmt.Sprintf("The %s does not match the format Y.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// validateYear accepts four-digit years
func validateYear(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		y := field.Int()
		return y >= 1000 && y <= 9999
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		y := field.Uint()
		return y >= 1000 && y <= 9999
	default:
		return false
	}
}

// validateExists checks that every referenced ID names a live row.
// Format: validate:"exists=<table>"
func (v *Validator) validateExists(ctx context.Context, fl validator.FieldLevel) bool {
	table := fl.Param()
	if table == "" {
		return false
	}

	ids, ok := collectIDs(fl.Field())
	if !ok {
		return false
	}
	if len(ids) == 0 {
		return true
	}

	var count int64
	err := v.db.WithContext(ctx).
		Table(table).
		Where("id IN ?", ids).
		Where("deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("Failed to check referenced rows")
		return false
	}

	return count == int64(len(ids))
}

// collectIDs reads a single ID or a list of IDs, collapsing duplicates
func collectIDs(field reflect.Value) ([]uint64, bool) {
	seen := make(map[uint64]struct{})
	var ids []uint64

	push := func(v reflect.Value) bool {
		var id uint64
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			id = v.Uint()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.Int() < 0 {
				return false
			}
			id = uint64(v.Int())
		default:
			return false
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return true
	}

	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			if !push(field.Index(i)) {
				return nil, false
			}
		}
	default:
		if !push(field) {
			return nil, false
		}
	}
	return ids, true
}
