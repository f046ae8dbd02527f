package renderers

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/kasper-swagger/coreapi"
	"github.com/vitalvas/kasper-swagger/openapicodec"
	"github.com/vitalvas/kasper-swagger/settings"
)

// securityDefinitionsKey is the Swagger 2.0 root key for security schemes.
const securityDefinitionsKey = "securityDefinitions"

// SpecRenderer renders an API description as an OpenAPI JSON document.
type SpecRenderer struct {
	codec               openapicodec.Codec
	securityDefinitions map[string]any
}

// NewSpecRenderer returns a SpecRenderer. A nil codec selects
// openapicodec.SwaggerCodec.
func NewSpecRenderer(cfg settings.Config, codec openapicodec.Codec) *SpecRenderer {
	if codec == nil {
		codec = openapicodec.SwaggerCodec{}
	}
	return &SpecRenderer{
		codec:               codec,
		securityDefinitions: cfg.SecurityDefinitions,
	}
}

func (r *SpecRenderer) MediaType() string { return MediaTypeOpenAPIJSON }
func (r *SpecRenderer) Format() string    { return "openapi" }
func (r *SpecRenderer) Charset() string   { return "" }

// Render encodes doc, adds securityDefinitions when configured and returns
// the JSON bytes. Errors are *EncodingError or *SerializationError.
func (r *SpecRenderer) Render(doc *coreapi.Document) ([]byte, error) {
	spec, err := encodeSpec(r.codec, doc, r.securityDefinitions)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return nil, &SerializationError{Format: "json", Err: err}
	}
	return data, nil
}

// YAMLSpecRenderer renders an API description as an OpenAPI YAML document.
type YAMLSpecRenderer struct {
	codec               openapicodec.Codec
	securityDefinitions map[string]any
}

// NewYAMLSpecRenderer returns a YAMLSpecRenderer. A nil codec selects
// openapicodec.SwaggerCodec.
func NewYAMLSpecRenderer(cfg settings.Config, codec openapicodec.Codec) *YAMLSpecRenderer {
	if codec == nil {
		codec = openapicodec.SwaggerCodec{}
	}
	return &YAMLSpecRenderer{
		codec:               codec,
		securityDefinitions: cfg.SecurityDefinitions,
	}
}

func (r *YAMLSpecRenderer) MediaType() string { return MediaTypeOpenAPIYAML }
func (r *YAMLSpecRenderer) Format() string    { return "openapi-yaml" }
func (r *YAMLSpecRenderer) Charset() string   { return "utf-8" }

// Render is the YAML counterpart of SpecRenderer.Render.
func (r *YAMLSpecRenderer) Render(doc *coreapi.Document) (data []byte, err error) {
	spec, err := encodeSpec(r.codec, doc, r.securityDefinitions)
	if err != nil {
		return nil, err
	}

	// yaml.v3 panics on some unsupported values instead of failing.
	defer func() {
		if rv := recover(); rv != nil {
			data, err = nil, &SerializationError{Format: "yaml", Err: panicError{rv}}
		}
	}()

	data, err = yaml.Marshal(spec)
	if err != nil {
		return nil, &SerializationError{Format: "yaml", Err: err}
	}
	return data, nil
}

// encodeSpec runs the codec and applies document customizations.
func encodeSpec(codec openapicodec.Codec, doc *coreapi.Document, securityDefinitions map[string]any) (*openapicodec.Object, error) {
	spec, err := codec.Encode(doc)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	if spec == nil {
		spec = openapicodec.NewObject()
	}

	if len(securityDefinitions) > 0 {
		spec.Set(securityDefinitionsKey, securityDefinitions)
	}
	return spec, nil
}

// CoreJSONRenderer renders the API description itself as Core JSON.
type CoreJSONRenderer struct{}

func (CoreJSONRenderer) MediaType() string { return MediaTypeCoreJSON }
func (CoreJSONRenderer) Format() string    { return "corejson" }
func (CoreJSONRenderer) Charset() string   { return "" }

// Render implements DocumentRenderer.
func (CoreJSONRenderer) Render(doc *coreapi.Document) ([]byte, error) {
	if doc == nil {
		return nil, &EncodingError{Err: openapicodec.ErrInvalidDocument}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, &SerializationError{Format: "corejson", Err: err}
	}
	return data, nil
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	if err, ok := p.value.(error); ok {
		return err.Error()
	}
	if s, ok := p.value.(string); ok {
		return s
	}
	return "panic during serialization"
}
