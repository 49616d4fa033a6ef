package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of failures for a struct.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Validate checks the `validate` tags on data and returns nil when every
// constraint holds.
func Validate(data any) Errors {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return Errors{{Field: "", Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("field must satisfy %s constraint", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("field must satisfy %s=%s constraint", fe.Tag(), fe.Param())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// Struct is Validate collapsed into a plain error.
func Struct(data any) error {
	if errs := Validate(data); len(errs) > 0 {
		return errs
	}
	return nil
}
