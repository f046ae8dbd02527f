package schema

import (
	"reflect"
	"strings"
	"time"

	"github.com/vitalvas/kasper-swagger/coreapi"
)

var timeType = reflect.TypeOf(time.Time{})

// BodyFields returns one field per exported struct field of v, named after
// its json tag. Fields without omitempty or omitzero are required.
//
// The `openapi` struct tag refines a field:
//
//	Title string `json:"title" openapi:"description=Item title,enum=a|b"`
//
// Supported keys are description, title, format, enum (values separated by
// "|") and readOnly, which leaves the field out of request bodies.
//
// Embedded structs without a json name are inlined; fields of a pointer
// embedded struct are never required. BodyFields returns nil for values
// that are not structs or pointers to structs.
func BodyFields(v any) []coreapi.Field {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil
	}

	var fields []coreapi.Field
	collectFields(t, false, &fields)
	return fields
}

func collectFields(t reflect.Type, allOptional bool, out *[]coreapi.Field) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		jsonTag := sf.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts := parseJSONTag(jsonTag)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			isPtr := ft.Kind() == reflect.Pointer
			if isPtr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, allOptional || isPtr, out)
				continue
			}
		}

		if name == "" {
			name = sf.Name
		}

		s := typeSchema(sf.Type)
		if opts.stringEncode {
			s.Type = coreapi.TypeString
		}
		if readOnly := applyOpenAPITag(&s, sf.Tag.Get("openapi")); readOnly {
			continue
		}

		*out = append(*out, coreapi.Field{
			Name:     name,
			Required: !opts.omitempty && !allOptional,
			Schema:   &s,
		})
	}
}

// typeSchema maps a Go type to the closest Swagger 2.0 primitive type.
func typeSchema(t reflect.Type) coreapi.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return coreapi.Schema{Type: coreapi.TypeString, Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return coreapi.Schema{Type: coreapi.TypeBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return coreapi.Schema{Type: coreapi.TypeInteger}
	case reflect.Float32, reflect.Float64:
		return coreapi.Schema{Type: coreapi.TypeNumber}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return coreapi.Schema{Type: coreapi.TypeString, Format: "byte"}
		}
		return coreapi.Schema{Type: coreapi.TypeArray}
	case reflect.Array:
		return coreapi.Schema{Type: coreapi.TypeArray}
	case reflect.Map, reflect.Struct:
		return coreapi.Schema{Type: coreapi.TypeObject}
	}
	return coreapi.Schema{Type: coreapi.TypeString}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applyOpenAPITag applies the `openapi` tag to s and reports whether the
// field is read only.
func applyOpenAPITag(s *coreapi.Schema, tag string) (readOnly bool) {
	if tag == "" {
		return false
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "description":
			s.Description = value
		case "title":
			s.Title = value
		case "format":
			s.Format = value
		case "enum":
			s.Enum = strings.Split(value, "|")
		case "readOnly":
			readOnly = true
		}
	}
	return readOnly
}

// mergeFields returns fields followed by the body fields whose names are
// not already taken.
func mergeFields(fields []coreapi.Field, body []coreapi.Field) []coreapi.Field {
	if len(body) == 0 {
		return fields
	}

	taken := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		taken[f.Name] = struct{}{}
	}

	out := append([]coreapi.Field(nil), fields...)
	for _, f := range body {
		if _, ok := taken[f.Name]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}
