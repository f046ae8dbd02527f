package coreapi

// Location of a link field in the HTTP request.
const (
	LocationPath     = "path"
	LocationQuery    = "query"
	LocationForm     = "form"
	LocationBody     = "body"
	LocationHeader   = "header"
	LocationFormData = "formData"
)

// Document is the root of an API description.
type Document struct {
	Title       string
	URL         string
	Description string
	// Version is the API version. It is optional in the description, but
	// OpenAPI consumers usually expect it.
	Version string
	Content []Item
}

// Item is a single keyed entry of a Document or a section. Exactly one of
// Link and Items is used: a non-nil Link makes the item a link, otherwise
// it is a section holding Items.
type Item struct {
	Key   string
	Link  *Link
	Items []Item
}

// IsLink reports whether the item holds a link.
func (i Item) IsLink() bool {
	return i.Link != nil
}

// Section returns a section item grouping the given items under key.
func Section(key string, items ...Item) Item {
	return Item{Key: key, Items: items}
}

// LinkItem returns an item holding a link under key.
func LinkItem(key string, link *Link) Item {
	return Item{Key: key, Link: link}
}

// Link describes a single API operation.
type Link struct {
	// URL is the path template, e.g. "/users/{id}/".
	URL string
	// Action is the HTTP method in any case; empty means GET.
	Action string
	// Encoding is the request media type; empty lets consumers infer it.
	Encoding    string
	Fields      []Field
	Description string
}

// Field is a single link parameter.
type Field struct {
	Name     string
	Required bool
	// Location is one of the Location* constants, or empty to infer it.
	Location    string
	Description string
	Schema      *Schema
}

// Schema types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema describes the value of a field.
type Schema struct {
	Type        string
	Title       string
	Description string
	Format      string
	// Enum lists allowed values for enum schemas.
	Enum []string
}

// Describe returns the schema description, or the field description when
// the schema has none.
func (f Field) Describe() string {
	if f.Schema != nil && f.Schema.Description != "" {
		return f.Schema.Description
	}
	return f.Description
}

// Type returns the schema type of the field, or "" when unknown.
func (f Field) Type() string {
	if f.Schema == nil {
		return ""
	}
	return f.Schema.Type
}
