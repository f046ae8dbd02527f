// Package renderers turns API descriptions into OpenAPI documents and serves
// the interactive documentation page.
//
// SpecRenderer and YAMLSpecRenderer encode a coreapi.Document with an
// openapicodec.Codec, inject the configured securityDefinitions, and
// serialize the result. CoreJSONRenderer writes the description itself.
// DocsPageRenderer renders the Swagger UI page after adding the session
// authentication flag and login/logout redirect URLs to the render context.
//
// All renderers are safe for concurrent use: they only read the
// configuration they were built with.
package renderers

import (
	"net/http"

	"github.com/vitalvas/kasper-swagger/coreapi"
)

// Media types produced by the renderers.
const (
	MediaTypeOpenAPIJSON = "application/openapi+json"
	MediaTypeOpenAPIYAML = "application/openapi+yaml"
	MediaTypeCoreJSON    = "application/coreapi+json"
	MediaTypeHTML        = "text/html"
)

// Renderer describes what a renderer produces. Views use it for content
// negotiation.
type Renderer interface {
	// MediaType is the media type matched against the Accept header.
	MediaType() string
	// Format is the value matched against the ?format= query parameter.
	Format() string
	// Charset is appended to the Content-Type header when non-empty.
	Charset() string
}

// DocumentRenderer renders an API description.
type DocumentRenderer interface {
	Renderer
	Render(doc *coreapi.Document) ([]byte, error)
}

// PageRenderer renders an HTML page from a per-request render context.
type PageRenderer interface {
	Renderer
	Render(req *http.Request, ctx RenderContext) ([]byte, error)
}

// RenderContext holds the template variables of a single page render.
// Renderers extend it in place.
type RenderContext map[string]any

// ContentType returns the Content-Type header value for r.
func ContentType(r Renderer) string {
	if cs := r.Charset(); cs != "" {
		return r.MediaType() + "; charset=" + cs
	}
	return r.MediaType()
}
