package coreapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MarshalJSON encodes the document in Core JSON: a "_type": "document" object
// with a "_meta" entry followed by the content keys in order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.begin()
	w.field("_type", "document")

	var meta objectWriter
	meta.begin()
	meta.fieldIf("url", d.URL)
	meta.fieldIf("title", d.Title)
	meta.fieldIf("description", d.Description)
	meta.end()
	if meta.err != nil {
		return nil, meta.err
	}
	w.raw("_meta", meta.buf.Bytes())

	if err := writeItems(&w, d.Content); err != nil {
		return nil, err
	}
	w.end()
	return w.buf.Bytes(), w.err
}

func writeItems(w *objectWriter, items []Item) error {
	for _, item := range items {
		if item.IsLink() {
			data, err := json.Marshal(item.Link)
			if err != nil {
				return err
			}
			w.raw(item.Key, data)
			continue
		}

		var section objectWriter
		section.begin()
		if err := writeItems(&section, item.Items); err != nil {
			return err
		}
		section.end()
		if section.err != nil {
			return section.err
		}
		w.raw(item.Key, section.buf.Bytes())
	}
	return w.err
}

// MarshalJSON encodes the link in Core JSON.
func (l *Link) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.begin()
	w.field("_type", "link")
	w.fieldIf("url", l.URL)
	w.fieldIf("action", strings.ToLower(l.Action))
	w.fieldIf("encoding", l.Encoding)
	w.fieldIf("description", l.Description)
	if len(l.Fields) > 0 {
		fields := make([]json.RawMessage, 0, len(l.Fields))
		for _, f := range l.Fields {
			data, err := marshalField(f)
			if err != nil {
				return nil, err
			}
			fields = append(fields, data)
		}
		w.field("fields", fields)
	}
	w.end()
	return w.buf.Bytes(), w.err
}

func marshalField(f Field) ([]byte, error) {
	var w objectWriter
	w.begin()
	w.field("name", f.Name)
	if f.Required {
		w.field("required", true)
	}
	w.fieldIf("location", f.Location)
	w.fieldIf("description", f.Description)
	if f.Schema != nil {
		var s objectWriter
		s.begin()
		typ := f.Schema.Type
		if len(f.Schema.Enum) > 0 {
			typ = "enum"
		}
		if typ == "" {
			typ = "anything"
		}
		s.field("_type", typ)
		s.fieldIf("title", f.Schema.Title)
		s.fieldIf("description", f.Schema.Description)
		s.fieldIf("format", f.Schema.Format)
		if len(f.Schema.Enum) > 0 {
			s.field("enum", f.Schema.Enum)
		}
		s.end()
		if s.err != nil {
			return nil, s.err
		}
		w.raw("schema", s.buf.Bytes())
	}
	w.end()
	return w.buf.Bytes(), w.err
}

// objectWriter writes a JSON object with keys in call order. The first
// error is kept and further writes are skipped.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) begin() { w.buf.WriteByte('{') }
func (w *objectWriter) end()   { w.buf.WriteByte('}') }

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.raw(key, data)
}

func (w *objectWriter) fieldIf(key, v string) {
	if v != "" {
		w.field(key, v)
	}
}

func (w *objectWriter) raw(key string, data []byte) {
	if w.err != nil {
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(data)
	w.n++
}
