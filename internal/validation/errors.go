package validation

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"interviewprep/internal/domain"
)

// failedMessage is the top-level message of every field-level validation failure.
const failedMessage = "Validation failed"

// toDomainError converts ozzo validation errors into a *domain.ValidationError
// whose Fields are keyed by dotted path ("questions.0.question").
// Internal rule errors are returned unchanged.
func toDomainError(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &domain.ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string)
	flatten("", errs, fields)
	return &domain.ValidationError{Message: failedMessage, Fields: fields}
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(path, nested, out)
			continue
		}
		out[path] = err.Error()
	}
}

// FieldPaths returns the sorted field paths of a validation error. Used by logs.
func FieldPaths(err error) []string {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	paths := make([]string, 0, len(verr.Fields))
	for path := range verr.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// notBlank rejects strings that are empty after trimming whitespace.
// Nil pointers pass; presence is checked by other rules.
var notBlank = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
})
