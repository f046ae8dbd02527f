package openapicodec

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vitalvas/kasper-swagger/coreapi"
)

// Codec converts an API description into an OpenAPI document.
type Codec interface {
	Encode(doc *coreapi.Document) (*Object, error)
}

// SwaggerVersion is the value of the "swagger" root key.
const SwaggerVersion = "2.0"

const (
	mediaTypeJSON       = "application/json"
	mediaTypeMultipart  = "multipart/form-data"
	mediaTypeURLEncoded = "application/x-www-form-urlencoded"
	mediaTypeOctet      = "application/octet-stream"
)

// SwaggerCodec encodes descriptions as Swagger 2.0 documents.
//
// Links are grouped by URL into path items. A link reached through keys
// [k0, k1, ...] gets operationId "k1_..." and tag k0; a link at the top
// level uses its own key as operationId and carries no tag.
//
// See: https://swagger.io/specification/v2/
type SwaggerCodec struct{}

// Encode implements Codec.
func (SwaggerCodec) Encode(doc *coreapi.Document) (*Object, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}

	parsed, err := url.Parse(doc.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: document url %q: %w", ErrInvalidDocument, doc.URL, err)
	}

	info := NewObject().
		Set("title", doc.Title).
		Set("description", doc.Description).
		Set("version", doc.Version)

	swagger := NewObject().
		Set("swagger", SwaggerVersion).
		Set("info", info)

	if parsed.Host != "" {
		swagger.Set("host", parsed.Host)
	}
	if parsed.Scheme != "" {
		swagger.Set("schemes", []string{parsed.Scheme})
	}

	paths, err := encodePaths(doc)
	if err != nil {
		return nil, err
	}
	swagger.Set("paths", paths)

	return swagger, nil
}

func encodePaths(doc *coreapi.Document) (*Object, error) {
	paths := NewObject()

	for _, kl := range doc.Links() {
		link := kl.Link
		if !strings.HasPrefix(link.URL, "/") {
			return nil, fmt.Errorf("%w: link %q has url %q, want an absolute path",
				ErrInvalidDocument, strings.Join(kl.Keys, "."), link.URL)
		}

		operationID, tag := operationKeys(kl.Keys)

		var item *Object
		if v, ok := paths.Get(link.URL); ok {
			item = v.(*Object)
		} else {
			item = NewObject()
			paths.Set(link.URL, item)
		}

		item.Set(linkMethod(link), encodeOperation(operationID, link, tag))
	}

	return paths, nil
}

func operationKeys(keys []string) (operationID, tag string) {
	if len(keys) > 1 {
		return strings.Join(keys[1:], "_"), keys[0]
	}
	return keys[0], ""
}

func encodeOperation(operationID string, link *coreapi.Link, tag string) *Object {
	encoding := linkEncoding(link)
	description := strings.TrimSpace(link.Description)

	op := NewObject().
		Set("operationId", operationID).
		Set("responses", encodeResponses(link)).
		Set("parameters", encodeParameters(link, encoding))

	if description != "" {
		op.Set("description", description)
		op.Set("summary", strings.SplitN(description, "\n", 2)[0])
	}
	if encoding != "" {
		op.Set("consumes", []string{encoding})
	}
	if tag != "" {
		op.Set("tags", []string{tag})
	}
	return op
}

func encodeResponses(link *coreapi.Link) *Object {
	status := "200"
	if linkMethod(link) == "delete" {
		status = "204"
	}
	return NewObject().Set(status, NewObject().Set("description", ""))
}

func encodeParameters(link *coreapi.Link, encoding string) []*Object {
	parameters := []*Object{}
	properties := NewObject()
	var required []string

	for _, field := range link.Fields {
		location := fieldLocation(link, field)
		description := field.Describe()
		fieldType := field.Type()

		switch location {
		case coreapi.LocationForm:
			if encoding == mediaTypeMultipart || encoding == mediaTypeURLEncoded {
				// formData parameters are only valid for these media types.
				param := NewObject().
					Set("name", field.Name).
					Set("required", field.Required).
					Set("in", coreapi.LocationFormData).
					Set("description", description).
					Set("type", typeOrString(fieldType))
				setArrayItems(param, fieldType)
				parameters = append(parameters, param)
				continue
			}

			// Other encodings fold form fields into one body schema.
			prop := NewObject().
				Set("description", description).
				Set("type", typeOrString(fieldType))
			setArrayItems(prop, fieldType)
			properties.Set(field.Name, prop)
			if field.Required {
				required = append(required, field.Name)
			}

		case coreapi.LocationBody:
			schema := NewObject()
			if encoding == mediaTypeOctet {
				schema.Set("type", "string").Set("format", "binary")
			}
			parameters = append(parameters, NewObject().
				Set("name", field.Name).
				Set("required", field.Required).
				Set("in", location).
				Set("description", description).
				Set("schema", schema))

		default:
			param := NewObject().
				Set("name", field.Name).
				Set("required", field.Required).
				Set("in", location).
				Set("description", description).
				Set("type", typeOrString(fieldType))
			if field.Schema != nil && field.Schema.Format != "" {
				param.Set("format", field.Schema.Format)
			}
			if field.Schema != nil && len(field.Schema.Enum) > 0 {
				param.Set("enum", field.Schema.Enum)
			}
			setArrayItems(param, fieldType)
			parameters = append(parameters, param)
		}
	}

	if properties.Len() > 0 {
		schema := NewObject().
			Set("type", coreapi.TypeObject).
			Set("properties", properties)
		if len(required) > 0 {
			schema.Set("required", required)
		}
		parameters = append(parameters, NewObject().
			Set("name", "data").
			Set("in", coreapi.LocationBody).
			Set("schema", schema))
	}

	return parameters
}

func setArrayItems(o *Object, fieldType string) {
	if fieldType == coreapi.TypeArray {
		o.Set("items", NewObject().Set("type", coreapi.TypeString))
	}
}

func typeOrString(t string) string {
	if t == "" {
		return coreapi.TypeString
	}
	return t
}

// linkMethod returns the lowercased HTTP method of the link, "get" when unset.
func linkMethod(link *coreapi.Link) string {
	if link.Action == "" {
		return "get"
	}
	return strings.ToLower(link.Action)
}

// linkEncoding returns the explicit encoding of the link or, when the link
// sends form or body fields, application/json.
func linkEncoding(link *coreapi.Link) string {
	if link.Encoding != "" {
		return link.Encoding
	}
	for _, field := range link.Fields {
		switch fieldLocation(link, field) {
		case coreapi.LocationForm, coreapi.LocationBody:
			return mediaTypeJSON
		}
	}
	return ""
}

// fieldLocation returns the explicit field location or infers it: path for
// template variables, query for GET and DELETE, form otherwise.
func fieldLocation(link *coreapi.Link, field coreapi.Field) string {
	if field.Location != "" {
		return field.Location
	}
	if strings.Contains(link.URL, "{"+field.Name+"}") {
		return coreapi.LocationPath
	}
	switch linkMethod(link) {
	case "get", "delete":
		return coreapi.LocationQuery
	}
	return coreapi.LocationForm
}
