package schema

import (
	"github.com/vitalvas/kasper-swagger/coreapi"
	"github.com/vitalvas/kasper-swagger/mux"
)

// macroSchemas maps mux path macros to field schemas.
var macroSchemas = map[string]coreapi.Schema{
	"int":   {Type: coreapi.TypeInteger},
	"float": {Type: coreapi.TypeNumber},
	"uuid":  {Type: coreapi.TypeString, Format: "uuid"},
	"date":  {Type: coreapi.TypeString, Format: "date"},
	"slug":  {Type: coreapi.TypeString},
	"alpha": {Type: coreapi.TypeString},
	"hex":   {Type: coreapi.TypeString},
}

// linkFields returns the required path fields for vars followed by extra.
// An extra field sharing a name with a path variable replaces it in place.
func linkFields(vars []mux.PathVar, extra []coreapi.Field) []coreapi.Field {
	fields := make([]coreapi.Field, 0, len(vars)+len(extra))
	index := make(map[string]int, len(vars))

	for _, v := range vars {
		field := coreapi.Field{
			Name:     v.Name,
			Required: true,
			Location: coreapi.LocationPath,
		}
		if s, ok := macroSchemas[v.Macro]; ok {
			field.Schema = &s
		}
		index[v.Name] = len(fields)
		fields = append(fields, field)
	}

	for _, f := range extra {
		if i, ok := index[f.Name]; ok {
			f.Required = true
			f.Location = coreapi.LocationPath
			if f.Schema == nil {
				f.Schema = fields[i].Schema
			}
			fields[i] = f
			continue
		}
		fields = append(fields, f)
	}
	return fields
}
