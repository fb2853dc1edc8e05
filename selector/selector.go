// Package selector implements the output projection applied to a service response.
//
// A Selector is a closed set of variants resolved once, when the invocation
// context is built:
//
//	Default         use the operation's own default
//	None            produce no output
//	Envelope        the whole response
//	Field(name)     one response field, dotted names descend into nested structs
//	Input(param)    reflect one of the bound input parameters back
//
// Expressions use the same short grammar as the command line: "" is Default,
// "*" is Envelope, "^Param" is Input(Param) and anything else is Field.
package selector

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gurre/awsbind/param"
)

// Kind identifies the selector variant.
type Kind int

const (
	KindDefault Kind = iota
	KindNone
	KindEnvelope
	KindField
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindNone:
		return "none"
	case KindEnvelope:
		return "envelope"
	case KindField:
		return "field"
	case KindInput:
		return "input"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Selector chooses which part of a response becomes the command's output.
// The zero value is Default.
type Selector struct {
	kind Kind
	name string
}

// Default defers to the operation's default selector.
func Default() Selector { return Selector{} }

// None discards the response.
func None() Selector { return Selector{kind: KindNone} }

// Envelope returns the full response.
func Envelope() Selector { return Selector{kind: KindEnvelope} }

// Field projects a single (possibly dotted) response field.
func Field(name string) Selector { return Selector{kind: KindField, name: name} }

// Input reflects the named input parameter.
func Input(paramName string) Selector { return Selector{kind: KindInput, name: paramName} }

// Parse turns a selector expression into a Selector.
func Parse(expr string) (Selector, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return Default(), nil
	case expr == "*":
		return Envelope(), nil
	case strings.HasPrefix(expr, "^"):
		name := strings.TrimPrefix(expr, "^")
		if name == "" {
			return Selector{}, fmt.Errorf("selector %q names no parameter", expr)
		}
		return Input(name), nil
	}
	for _, part := range strings.Split(expr, ".") {
		if part == "" {
			return Selector{}, fmt.Errorf("selector %q has an empty field name", expr)
		}
	}
	return Field(expr), nil
}

// Kind returns the variant.
func (s Selector) Kind() Kind { return s.kind }

// Name returns the field path or parameter name, empty for other kinds.
func (s Selector) Name() string { return s.name }

// String renders the selector in expression form.
func (s Selector) String() string {
	switch s.kind {
	case KindNone:
		return "<none>"
	case KindEnvelope:
		return "*"
	case KindField:
		return s.name
	case KindInput:
		return "^" + s.name
	}
	return ""
}

// Or returns def when s is Default, otherwise s.
func (s Selector) Or(def Selector) Selector {
	if s.kind == KindDefault {
		return def
	}
	return s
}

// Check validates the selector against the response and parameter types so
// a bad expression fails before any remote call.
func (s Selector) Check(responseType, paramsType reflect.Type) error {
	switch s.kind {
	case KindField:
		if _, err := fieldType(responseType, s.name); err != nil {
			return err
		}
	case KindInput:
		specs, err := param.DescribeType(paramsType)
		if err != nil {
			return err
		}
		if _, ok := param.Lookup(specs, s.name); !ok {
			return fmt.Errorf("selector ^%s does not name an input parameter", s.name)
		}
	}
	return nil
}

// Select applies the selector. response and params are pointers to structs.
// A Default selector selects nothing; callers resolve it with Or first.
func (s Selector) Select(response, params any) (any, error) {
	switch s.kind {
	case KindDefault, KindNone:
		return nil, nil
	case KindEnvelope:
		return response, nil
	case KindField:
		v, err := fieldValue(reflect.ValueOf(response), s.name)
		if err != nil {
			return nil, err
		}
		return v, nil
	case KindInput:
		v, ok := param.Value(params, s.name)
		if !ok {
			return nil, fmt.Errorf("selector ^%s does not name an input parameter", s.name)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown selector kind %s", s.kind)
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func fieldType(t reflect.Type, path string) (reflect.Type, error) {
	for _, part := range strings.Split(path, ".") {
		t = indirectType(t)
		if t == nil || t.Kind() != reflect.Struct {
			return nil, fmt.Errorf("selector %s: %s is not a structure", path, part)
		}
		f, ok := findField(t, part)
		if !ok {
			return nil, fmt.Errorf("selector %s: response has no field %s", path, part)
		}
		t = f.Type
	}
	return t, nil
}

func fieldValue(v reflect.Value, path string) (any, error) {
	for _, part := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("selector %s: %s is not a structure", path, part)
		}
		f, ok := findField(v.Type(), part)
		if !ok {
			return nil, fmt.Errorf("selector %s: response has no field %s", path, part)
		}
		v = v.FieldByIndex(f.Index)
	}
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
		return nil, nil
	}
	// scalars are returned by value, structures by pointer
	if v.Kind() == reflect.Pointer && v.Elem().Kind() != reflect.Struct {
		v = v.Elem()
	}
	return v.Interface(), nil
}
