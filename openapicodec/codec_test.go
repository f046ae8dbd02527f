package openapicodec

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/kasper-swagger/coreapi"
)

// encodeToMap encodes doc and round-trips it through JSON for comparison.
func encodeToMap(t *testing.T, doc *coreapi.Document) map[string]any {
	t.Helper()

	obj, err := SwaggerCodec{}.Encode(doc)
	require.NoError(t, err)

	data, err := json.Marshal(obj)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSwaggerCodecRoot(t *testing.T) {
	doc := &coreapi.Document{
		Title:       "Pets",
		URL:         "https://api.example.com/v1/",
		Description: "Pet store",
		Version:     "1.0.0",
	}

	obj, err := SwaggerCodec{}.Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"swagger", "info", "host", "schemes", "paths"}, obj.Keys())

	want := map[string]any{
		"swagger": "2.0",
		"info": map[string]any{
			"title":       "Pets",
			"description": "Pet store",
			"version":     "1.0.0",
		},
		"host":    "api.example.com",
		"schemes": []any{"https"},
		"paths":   map[string]any{},
	}
	if diff := cmp.Diff(want, encodeToMap(t, doc)); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSwaggerCodecRelativeURL(t *testing.T) {
	obj, err := SwaggerCodec{}.Encode(&coreapi.Document{Title: "T", URL: "/api/"})
	require.NoError(t, err)
	assert.False(t, obj.Has("host"))
	assert.False(t, obj.Has("schemes"))
}

func TestSwaggerCodecOperations(t *testing.T) {
	doc := &coreapi.Document{
		Title: "Pets",
		Content: []coreapi.Item{
			coreapi.Section("pets",
				coreapi.LinkItem("list", &coreapi.Link{
					URL:         "/pets/",
					Action:      "GET",
					Description: "List pets.\n\nSupports paging.",
					Fields: []coreapi.Field{
						{Name: "page", Schema: &coreapi.Schema{Type: coreapi.TypeInteger, Description: "Page number"}},
						{Name: "tags", Schema: &coreapi.Schema{Type: coreapi.TypeArray}},
					},
				}),
				coreapi.LinkItem("delete", &coreapi.Link{
					URL:    "/pets/{id}/",
					Action: "delete",
					Fields: []coreapi.Field{{Name: "id", Required: true}},
				}),
			),
			coreapi.LinkItem("health", &coreapi.Link{URL: "/health"}),
		},
	}

	want := map[string]any{
		"/pets/": map[string]any{
			"get": map[string]any{
				"operationId": "list",
				"responses":   map[string]any{"200": map[string]any{"description": ""}},
				"parameters": []any{
					map[string]any{"name": "page", "required": false, "in": "query", "description": "Page number", "type": "integer"},
					map[string]any{"name": "tags", "required": false, "in": "query", "description": "", "type": "array", "items": map[string]any{"type": "string"}},
				},
				"description": "List pets.\n\nSupports paging.",
				"summary":     "List pets.",
				"tags":        []any{"pets"},
			},
		},
		"/pets/{id}/": map[string]any{
			"delete": map[string]any{
				"operationId": "delete",
				"responses":   map[string]any{"204": map[string]any{"description": ""}},
				"parameters": []any{
					map[string]any{"name": "id", "required": true, "in": "path", "description": "", "type": "string"},
				},
				"tags": []any{"pets"},
			},
		},
		"/health": map[string]any{
			"get": map[string]any{
				"operationId": "health",
				"responses":   map[string]any{"200": map[string]any{"description": ""}},
				"parameters":  []any{},
			},
		},
	}

	got := encodeToMap(t, doc)["paths"]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestSwaggerCodecFormFields(t *testing.T) {
	fields := []coreapi.Field{
		{Name: "name", Required: true, Schema: &coreapi.Schema{Type: coreapi.TypeString, Description: "Pet name"}},
		{Name: "labels", Schema: &coreapi.Schema{Type: coreapi.TypeArray}},
	}

	t.Run("json body folds form fields", func(t *testing.T) {
		doc := &coreapi.Document{Content: []coreapi.Item{
			coreapi.Section("pets", coreapi.LinkItem("create", &coreapi.Link{URL: "/pets/", Action: "post", Fields: fields})),
		}}

		op := encodeToMap(t, doc)["paths"].(map[string]any)["/pets/"].(map[string]any)["post"].(map[string]any)
		assert.Equal(t, []any{"application/json"}, op["consumes"])

		want := []any{map[string]any{
			"name": "data",
			"in":   "body",
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":   map[string]any{"description": "Pet name", "type": "string"},
					"labels": map[string]any{"description": "", "type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []any{"name"},
			},
		}}
		if diff := cmp.Diff(want, op["parameters"]); diff != "" {
			t.Errorf("parameters mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("multipart uses formData", func(t *testing.T) {
		doc := &coreapi.Document{Content: []coreapi.Item{
			coreapi.LinkItem("upload", &coreapi.Link{URL: "/pets/", Action: "post", Encoding: "multipart/form-data", Fields: fields}),
		}}

		op := encodeToMap(t, doc)["paths"].(map[string]any)["/pets/"].(map[string]any)["post"].(map[string]any)
		params := op["parameters"].([]any)
		require.Len(t, params, 2)
		assert.Equal(t, "formData", params[0].(map[string]any)["in"])
		assert.Equal(t, true, params[0].(map[string]any)["required"])
		assert.Equal(t, map[string]any{"type": "string"}, params[1].(map[string]any)["items"])
		assert.Equal(t, []any{"multipart/form-data"}, op["consumes"])
	})

	t.Run("octet-stream body", func(t *testing.T) {
		doc := &coreapi.Document{Content: []coreapi.Item{
			coreapi.LinkItem("raw", &coreapi.Link{
				URL: "/raw", Action: "put", Encoding: "application/octet-stream",
				Fields: []coreapi.Field{{Name: "file", Location: coreapi.LocationBody, Required: true}},
			}),
		}}

		op := encodeToMap(t, doc)["paths"].(map[string]any)["/raw"].(map[string]any)["put"].(map[string]any)
		assert.Equal(t, []any{map[string]any{
			"name": "file", "required": true, "in": "body", "description": "",
			"schema": map[string]any{"type": "string", "format": "binary"},
		}}, op["parameters"])
	})
}

func TestSwaggerCodecErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  *coreapi.Document
	}{
		{"nil document", nil},
		{"bad url", &coreapi.Document{URL: "http://[::1"}},
		{"relative link", &coreapi.Document{Content: []coreapi.Item{
			coreapi.LinkItem("x", &coreapi.Link{URL: "pets/"}),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SwaggerCodec{}.Encode(tt.doc)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestSwaggerCodecDeterministic(t *testing.T) {
	doc := &coreapi.Document{Title: "T", Content: []coreapi.Item{
		coreapi.Section("a", coreapi.LinkItem("list", &coreapi.Link{URL: "/a/"})),
		coreapi.Section("b", coreapi.LinkItem("list", &coreapi.Link{URL: "/b/"})),
	}}

	first, err := SwaggerCodec{}.Encode(doc)
	require.NoError(t, err)
	second, err := SwaggerCodec{}.Encode(doc)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSwaggerCodecValidDocument(t *testing.T) {
	doc := &coreapi.Document{
		Title:   "Pets",
		URL:     "https://api.example.com/",
		Version: "1.0.0",
		Content: []coreapi.Item{
			coreapi.Section("pets",
				coreapi.LinkItem("list", &coreapi.Link{
					URL: "/pets/",
					Fields: []coreapi.Field{
						{Name: "page", Schema: &coreapi.Schema{Type: coreapi.TypeInteger}},
					},
				}),
				coreapi.LinkItem("read", &coreapi.Link{
					URL:    "/pets/{id}/",
					Fields: []coreapi.Field{{Name: "id", Required: true}},
				}),
				coreapi.LinkItem("delete", &coreapi.Link{
					URL:    "/pets/{id}/",
					Action: "delete",
					Fields: []coreapi.Field{{Name: "id", Required: true}},
				}),
			),
		},
	}

	obj, err := SwaggerCodec{}.Encode(doc)
	require.NoError(t, err)
	data, err := json.Marshal(obj)
	require.NoError(t, err)

	var doc2 openapi2.T
	require.NoError(t, json.Unmarshal(data, &doc2))
	assert.Equal(t, "2.0", doc2.Swagger)
	require.Contains(t, doc2.Paths, "/pets/{id}/")

	doc3, err := openapi2conv.ToV3(&doc2)
	require.NoError(t, err)
	assert.NoError(t, doc3.Validate(context.Background()))
}
