package param

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Warning is a non-fatal binding finding. The invocation continues and the
// remote service has the final say on whether the request is acceptable.
type Warning struct {
	Param  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("parameter %s: %s", w.Param, w.Reason)
}

const (
	ReasonMissing = "required parameter was not supplied"
	ReasonEmpty   = "required parameter was supplied empty"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	return v
}

// Check reports required parameters that are missing or empty. It never fails
// on missing values; an error means params is not a struct.
func Check(params any) ([]Warning, error) {
	specs, err := Describe(params)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if err := validate.Struct(params); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return nil, fmt.Errorf("failed to check parameters: %w", err)
		}
		for _, fe := range valErrs {
			reason := ReasonMissing
			if fe.Tag() != "required" {
				reason = fmt.Sprintf("failed %s rule", fe.Tag())
			}
			warnings = append(warnings, Warning{Param: fe.Field(), Reason: reason})
		}
	}

	v := reflect.Indirect(reflect.ValueOf(params))
	for _, s := range specs {
		if !s.Required || s.AllowEmpty {
			continue
		}
		if isEmpty(v.FieldByIndex(s.Index)) {
			warnings = append(warnings, Warning{Param: s.Name, Reason: ReasonEmpty})
		}
	}

	return warnings, nil
}

// isEmpty reports a supplied-but-empty value: a non-nil pointer to "",
// or a non-nil zero-length slice or map.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return false
		}
		e := v.Elem()
		return e.Kind() == reflect.String && e.Len() == 0
	case reflect.Slice, reflect.Map:
		return !v.IsNil() && v.Len() == 0
	}
	return false
}
