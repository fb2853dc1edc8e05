// Package param describes and binds the parameter surface of a command.
//
// A command's parameters are the exported fields of a struct. Binding rules
// live in struct tags:
//
//	param:"Name"          canonical name, defaults to the field name
//	validate:"required"   the parameter is required (advisory, see Check)
//	position:"0"          positional index
//	pipeline:"value"      binds a bare pipeline record
//	pipeline:"property"   binds the same-named property of a pipeline record
//	alias:"A,B"           alternative names
//	emptyok:"true"        an empty string or collection counts as supplied
//
// Names are matched case-insensitively.
package param

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Pipeline describes whether a parameter accepts pipeline input.
type Pipeline int

const (
	PipelineNone     Pipeline = iota // Not bindable from pipeline records
	PipelineValue                    // Binds a bare record value
	PipelineProperty                 // Binds a record property by name
)

func (p Pipeline) String() string {
	switch p {
	case PipelineValue:
		return "value"
	case PipelineProperty:
		return "property"
	}
	return "none"
}

// Spec is the binding metadata of one parameter.
type Spec struct {
	Name       string       // Canonical parameter name
	Field      string       // Go field name
	Index      []int        // Field index for reflect.Value.FieldByIndex
	Type       reflect.Type // Field type
	Required   bool         // Advisory required flag
	Position   int          // Positional index, -1 when named only
	Pipeline   Pipeline     // Pipeline input eligibility
	Aliases    []string     // Alternative names
	AllowEmpty bool         // Empty values count as supplied
}

// Matches reports whether name refers to this parameter.
func (s Spec) Matches(name string) bool {
	if strings.EqualFold(s.Name, name) {
		return true
	}
	for _, a := range s.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

var specCache sync.Map // reflect.Type -> []Spec

// Describe returns the parameter specs of params, a pointer to a struct.
func Describe(params any) ([]Spec, error) {
	return DescribeType(reflect.TypeOf(params))
}

// DescribeType returns the parameter specs of a struct type or pointer to one.
// Specs are ordered by position first, then by declaration order.
func DescribeType(t reflect.Type) ([]Spec, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("parameters must be a struct, got %v", t)
	}
	if cached, ok := specCache.Load(t); ok {
		return cached.([]Spec), nil
	}

	specs := make([]Spec, 0, t.NumField())
	seen := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := tagName(f)
		if name == "" {
			continue
		}

		spec := Spec{
			Name:       name,
			Field:      f.Name,
			Index:      f.Index,
			Type:       f.Type,
			Required:   hasRule(f.Tag.Get("validate"), "required"),
			Position:   -1,
			AllowEmpty: f.Tag.Get("emptyok") == "true",
		}

		if pos := f.Tag.Get("position"); pos != "" {
			n, err := strconv.Atoi(pos)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%s.%s: invalid position %q", t.Name(), f.Name, pos)
			}
			spec.Position = n
		}

		switch f.Tag.Get("pipeline") {
		case "":
		case "value":
			spec.Pipeline = PipelineValue
		case "property":
			spec.Pipeline = PipelineProperty
		default:
			return nil, fmt.Errorf("%s.%s: invalid pipeline mode %q", t.Name(), f.Name, f.Tag.Get("pipeline"))
		}

		if aliases := f.Tag.Get("alias"); aliases != "" {
			for _, a := range strings.Split(aliases, ",") {
				if a = strings.TrimSpace(a); a != "" {
					spec.Aliases = append(spec.Aliases, a)
				}
			}
		}

		for _, n := range append([]string{spec.Name}, spec.Aliases...) {
			key := strings.ToLower(n)
			if other, dup := seen[key]; dup {
				return nil, fmt.Errorf("%s: name %s used by both %s and %s", t.Name(), n, other, f.Name)
			}
			seen[key] = f.Name
		}

		specs = append(specs, spec)
	}

	sort.SliceStable(specs, func(i, j int) bool {
		pi, pj := specs[i].Position, specs[j].Position
		if pi < 0 || pj < 0 {
			return pi >= 0 && pj < 0
		}
		return pi < pj
	})

	specCache.Store(t, specs)
	return specs, nil
}

// Lookup finds the spec that name refers to.
func Lookup(specs []Spec, name string) (Spec, bool) {
	for _, s := range specs {
		if s.Matches(name) {
			return s, true
		}
	}
	return Spec{}, false
}

// Value returns the current value of the named parameter with pointers
// dereferenced. A nil pointer yields nil.
func Value(params any, name string) (any, bool) {
	specs, err := Describe(params)
	if err != nil {
		return nil, false
	}
	spec, ok := Lookup(specs, name)
	if !ok {
		return nil, false
	}
	v := reflect.ValueOf(params)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}
	f := v.FieldByIndex(spec.Index)
	for f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil, true
		}
		f = f.Elem()
	}
	return f.Interface(), true
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("param"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}
