package param

import (
	"bytes"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("param")
	d.IgnoreUnknownKeys(false)
	return d
}

var stringPtrType = reflect.TypeOf((*string)(nil))

// Bind assigns positional and named command-line values to params, a pointer
// to a parameter struct. Named keys may use any alias and any letter case.
// Map-valued parameters take key=value entries and structured parameters
// take one JSON document per value.
func Bind(params any, positional []string, named map[string][]string) error {
	specs, err := Describe(params)
	if err != nil {
		return err
	}
	target := reflect.ValueOf(params)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("parameters must be a non-nil pointer to a struct")
	}
	target = target.Elem()

	values := make(map[string][]string)

	var slots []Spec
	for _, s := range specs {
		if s.Position >= 0 {
			slots = append(slots, s)
		}
	}
	if len(positional) > len(slots) {
		return fmt.Errorf("too many positional arguments: got %d, accepts %d", len(positional), len(slots))
	}
	for i, arg := range positional {
		values[slots[i].Name] = []string{arg}
	}

	for key, vals := range named {
		spec, ok := Lookup(specs, strings.TrimLeft(key, "-"))
		if !ok {
			return fmt.Errorf("unknown parameter %s", key)
		}
		if _, dup := values[spec.Name]; dup {
			return fmt.Errorf("parameter %s bound more than once", spec.Name)
		}
		values[spec.Name] = vals
	}

	form := url.Values{}
	for _, s := range specs {
		vals, ok := values[s.Name]
		if !ok {
			continue
		}
		field := target.FieldByIndex(s.Index)
		switch {
		case s.Type.Kind() == reflect.Map:
			m, err := parsePairs(s, vals)
			if err != nil {
				return err
			}
			field.Set(m)
		case needsJSON(s.Type):
			if err := assignJSONValues(field, s, vals); err != nil {
				return err
			}
		case s.Type == stringPtrType && len(vals) == 1 && vals[0] == "":
			// the form decoder skips empty values, so record the empty string here
			empty := ""
			field.Set(reflect.ValueOf(&empty))
		default:
			form[s.Name] = vals
		}
	}

	if len(form) == 0 {
		return nil
	}
	if err := decoder.Decode(params, form); err != nil {
		return fmt.Errorf("failed to bind parameters: %w", err)
	}
	return nil
}

// needsJSON reports structured parameters the form decoder cannot handle.
// Their command-line values are JSON documents, one per value.
func needsJSON(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func assignJSONValues(field reflect.Value, s Spec, vals []string) error {
	if s.Type.Kind() != reflect.Slice {
		if len(vals) != 1 {
			return fmt.Errorf("parameter %s takes a single value", s.Name)
		}
		return assignJSON(field, s, []byte(vals[0]))
	}
	list := reflect.MakeSlice(s.Type, 0, len(vals))
	for _, v := range vals {
		elem := reflect.New(s.Type.Elem())
		if err := json.Unmarshal([]byte(v), elem.Interface()); err != nil {
			return fmt.Errorf("parameter %s: %w", s.Name, err)
		}
		list = reflect.Append(list, elem.Elem())
	}
	field.Set(list)
	return nil
}

func parsePairs(s Spec, vals []string) (reflect.Value, error) {
	if s.Type.Key().Kind() != reflect.String || s.Type.Elem().Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("parameter %s: only string maps are supported", s.Name)
	}
	m := reflect.MakeMapWithSize(s.Type, len(vals))
	for _, kv := range vals {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return reflect.Value{}, fmt.Errorf("parameter %s: expected key=value, got %q", s.Name, kv)
		}
		m.SetMapIndex(reflect.ValueOf(k).Convert(s.Type.Key()), reflect.ValueOf(v).Convert(s.Type.Elem()))
	}
	return m, nil
}

// BindRecord assigns one JSON pipeline record to params. A JSON object binds
// each property to the parameter of the same name or alias, which must accept
// pipeline input. Any other JSON value binds to the pipeline:"value" parameter.
func BindRecord(params any, record []byte) error {
	specs, err := Describe(params)
	if err != nil {
		return err
	}
	target := reflect.ValueOf(params)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("parameters must be a non-nil pointer to a struct")
	}
	target = target.Elem()

	record = bytes.TrimSpace(record)
	if len(record) == 0 {
		return fmt.Errorf("empty pipeline record")
	}

	if record[0] != '{' {
		for _, s := range specs {
			if s.Pipeline == PipelineValue {
				return assignJSON(target.FieldByIndex(s.Index), s, record)
			}
		}
		return fmt.Errorf("no parameter accepts a bare pipeline value")
	}

	var props map[string]json.RawMessage
	if err := json.Unmarshal(record, &props); err != nil {
		return fmt.Errorf("failed to decode pipeline record: %w", err)
	}
	for key, raw := range props {
		s, ok := Lookup(specs, key)
		if !ok {
			return fmt.Errorf("unknown parameter %s in pipeline record", key)
		}
		if s.Pipeline == PipelineNone {
			return fmt.Errorf("parameter %s does not accept pipeline input", s.Name)
		}
		if err := assignJSON(target.FieldByIndex(s.Index), s, raw); err != nil {
			return err
		}
	}
	return nil
}

func assignJSON(field reflect.Value, s Spec, raw []byte) error {
	ptr := reflect.New(s.Type)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return fmt.Errorf("parameter %s: %w", s.Name, err)
	}
	field.Set(ptr.Elem())
	return nil
}
