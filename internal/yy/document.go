// Package yy reads and writes the JSON documents used by GameMaker project files
// (.yy resource descriptions and the .yyp project file).
//
// A Document keeps its top-level keys in file order and keeps every value as the
// exact bytes it was read with. Only values replaced through Set are re-encoded, and
// an untouched document serialises back to the bytes it was parsed from.
package yy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField is returned when a requested key is absent.
var ErrMissingField = errors.New("missing field")

// FieldError describes a key whose value has the wrong JSON type.
type FieldError struct {
	Key  string
	Want string
	Err  error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %q: expected %s: %v", e.Key, e.Want, e.Err)
	}
	return fmt.Sprintf("field %q: expected %s", e.Key, e.Want)
}

func (e *FieldError) Unwrap() error { return e.Err }

type field struct {
	key string
	raw json.RawMessage
}

// Document is an ordered JSON object.
type Document struct {
	fields  []field
	index   map[string]int
	indent  string
	newline string
	trailer string
	orig    []byte
	changed bool
}

// New returns an empty document using the project format's layout (four-space
// indent, CRLF line endings).
func New() *Document {
	return &Document{
		index:   make(map[string]int),
		indent:  "    ",
		newline: "\r\n",
		changed: true,
	}
}

// Parse decodes a top-level JSON object.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse document: expected object, got %v", tok)
	}

	d := &Document{
		index:   make(map[string]int),
		indent:  detectIndent(data),
		newline: detectNewline(data),
		orig:    append([]byte(nil), data...),
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse document: expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse document: value for %q: %w", key, err)
		}
		if i, dup := d.index[key]; dup {
			d.fields[i].raw = raw
			continue
		}
		d.index[key] = len(d.fields)
		d.fields = append(d.fields, field{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	end := int(dec.InputOffset())
	rest := data[end:]
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, fmt.Errorf("parse document: trailing data after object")
	}
	d.trailer = string(rest)

	return d, nil
}

func detectIndent(data []byte) string {
	open := bytes.IndexByte(data, '{')
	if open < 0 {
		return "    "
	}
	rest := data[open+1:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return "    "
	}
	line := rest[nl+1:]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	if n == 0 {
		return "    "
	}
	return string(line[:n])
}

func detectNewline(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.key
	}
	return keys
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Raw returns the undecoded value for key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.fields[i].raw, true
}

// Changed reports whether any value was replaced since Parse.
func (d *Document) Changed() bool {
	return d.changed
}

// Decode unmarshals the value for key into v.
func (d *Document) Decode(key string, v any) error {
	raw, ok := d.Raw(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &FieldError{Key: key, Want: fmt.Sprintf("%T", v), Err: err}
	}
	return nil
}

// String returns a string-valued field.
func (d *Document) String(key string) (string, error) {
	raw, ok := d.Raw(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &FieldError{Key: key, Want: "string"}
	}
	return s, nil
}

// StringOr returns a string-valued field, or def when it is absent or not a string.
func (d *Document) StringOr(key, def string) string {
	s, err := d.String(key)
	if err != nil {
		return def
	}
	return s
}

// Int returns a numeric field truncated to int.
func (d *Document) Int(key string) (int, error) {
	raw, ok := d.Raw(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &FieldError{Key: key, Want: "number"}
	}
	return int(f), nil
}

// IntOr returns a numeric field, or def when it is absent or not a number.
func (d *Document) IntOr(key string, def int) int {
	n, err := d.Int(key)
	if err != nil {
		return def
	}
	return n
}

// BoolOr returns a boolean field, or def when it is absent or not a boolean.
func (d *Document) BoolOr(key string, def bool) bool {
	raw, ok := d.Raw(key)
	if !ok {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

// Set replaces the value for key, appending the key if it is new. The value is
// encoded with the document's indentation.
func (d *Document) Set(key string, v any) error {
	raw, err := encode(v, d.indent, d.indent)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if d.newline != "\n" {
		raw = bytes.ReplaceAll(raw, []byte("\n"), []byte(d.newline))
	}
	d.SetRaw(key, raw)
	return nil
}

// encode is json.MarshalIndent without HTML escaping; the IDE writes '&', '<'
// and '>' literally.
func encode(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SetRaw replaces the value for key with pre-encoded JSON.
func (d *Document) SetRaw(key string, raw json.RawMessage) {
	if i, ok := d.index[key]; ok {
		if bytes.Equal(d.fields[i].raw, raw) {
			return
		}
		d.fields[i].raw = raw
		d.changed = true
		return
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, field{key: key, raw: raw})
	d.changed = true
}

// Bytes serialises the document. An unchanged document returns the bytes it was
// parsed from.
func (d *Document) Bytes() []byte {
	if !d.changed && d.orig != nil {
		return append([]byte(nil), d.orig...)
	}

	var b strings.Builder
	if len(d.fields) == 0 {
		b.WriteString("{}")
		b.WriteString(d.trailer)
		return []byte(b.String())
	}

	b.WriteString("{")
	b.WriteString(d.newline)
	for i, f := range d.fields {
		key, _ := encode(f.key, "", "")
		b.WriteString(d.indent)
		b.Write(key)
		b.WriteString(": ")
		b.Write(f.raw)
		if i < len(d.fields)-1 {
			b.WriteString(",")
		}
		b.WriteString(d.newline)
	}
	b.WriteString("}")
	b.WriteString(d.trailer)
	return []byte(b.String())
}

// MarkSaved records the current serialisation as the on-disk state.
func (d *Document) MarkSaved() {
	d.orig = d.Bytes()
	d.changed = false
}
