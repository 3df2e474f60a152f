package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Money fields are decimals; compare them as floats for gt/gte/lte tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// Check validates s and converts a failure into an INVALID_INPUT AppError
// carrying per-field messages.
func Check(s any) error {
	err := Validate(s)
	if err == nil {
		return nil
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return apperrors.InvalidFields(valErr.Error(), valErr.Fields())
	}
	return apperrors.InvalidInput(err.Error())
}

// Field is a single value checked against a validator tag, reported under Name.
type Field struct {
	Name  string
	Value any
	Tag   string
}

// CheckFields validates each value on its own and converts failures into an
// INVALID_INPUT AppError carrying per-field messages. It suits partial
// updates where only some fields are present.
func CheckFields(fields ...Field) error {
	var msgs []string
	invalid := map[string]string{}
	for _, f := range fields {
		err := validate.Var(f.Value, f.Tag)
		if err == nil {
			continue
		}
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperrors.InvalidInput(err.Error())
		}
		for _, fe := range validationErrors {
			msg := msgForTag(fe)
			invalid[f.Name] = msg
			msgs = append(msgs, fmt.Sprintf("field '%s' %s", f.Name, msg))
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return apperrors.InvalidFields(strings.Join(msgs, "; "), invalid)
}

// ValidationError wraps validator.ValidationErrors with a user-friendly message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", err.Field(), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		fields[err.Field()] = msgForTag(err)
	}
	return fields
}

func msgForTag(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isText {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "dive":
		return "contains an invalid element"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return Check(dst)
}
