// Package resource defines the records that make up a project: one Record per
// resource, carrying the common identity fields and a kind-specific payload.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// ParseError reports a structured record that could not be loaded.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	// ErrNotSavable is returned by Save for records that have no backing file of their own.
	ErrNotSavable = errors.New("record has no backing file")
	// ErrNullID is returned by Load for a document whose id is empty or the null sentinel.
	ErrNullID = errors.New("record id is null")
)

// Payload is the kind-specific part of a record. The set of payloads is closed:
// *Object, *Room, *Sprite, *Folder, *Script, *Instance, *Options, *IncludedFile
// and *Generic.
type Payload interface {
	load(r *Record, doc *yy.Document) error
	store(doc *yy.Document) error
	modified() bool
	markSaved()
}

// Record is one resource of a project.
type Record struct {
	id      ident.ID
	kind    Kind
	name    string
	path    string
	doc     *yy.Document
	payload Payload

	nameChanged bool
	subRecords  []*Record
}

// New creates an empty record of the given kind. relPath is the slash-separated
// path of the record's .yy file relative to the project root.
func New(kind Kind, relPath string) *Record {
	return &Record{
		kind:    kind,
		path:    filepath.ToSlash(relPath),
		payload: newPayload(kind),
	}
}

func newPayload(kind Kind) Payload {
	switch {
	case kind == KindObject:
		return &Object{}
	case kind == KindRoom:
		return &Room{}
	case kind == KindSprite:
		return &Sprite{}
	case kind == KindFolder:
		return &Folder{}
	case kind == KindScript:
		return &Script{}
	case kind == KindObjectInstance:
		return &Instance{}
	case kind == KindIncludedFile:
		return &IncludedFile{}
	case kind.IsOptions():
		return &Options{}
	default:
		return &Generic{}
	}
}

// Load populates the record from a parsed document. id and name are required and id
// must not be null; a document whose modelName disagrees with the record's kind is
// rejected. Fields the record does not know about are kept untouched for Save. On
// error the record may be partially populated.
func (r *Record) Load(doc *yy.Document) error {
	r.doc = doc
	r.subRecords = nil

	id, err := doc.String("id")
	if err != nil {
		return &ParseError{Path: r.path, Field: "id", Err: err}
	}
	if ident.IsNull(ident.ID(id)) {
		return &ParseError{Path: r.path, Field: "id", Err: ErrNullID}
	}
	r.id = ident.ID(id)

	if model, err := doc.String("modelName"); err == nil {
		if k := ParseKind(model); k != KindUnknown && r.kind != KindUnknown && k != r.kind {
			return &ParseError{Path: r.path, Field: "modelName",
				Err: fmt.Errorf("document is %s, expected %s", model, r.kind)}
		}
	}

	name, err := doc.String("name")
	if err != nil {
		return &ParseError{Path: r.path, Field: "name", Err: err}
	}
	r.name = name
	r.nameChanged = false

	if err := r.payload.load(r, doc); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return err
		}
		return &ParseError{Path: r.path, Err: err}
	}
	return nil
}

// ID returns the record's identifier.
func (r *Record) ID() ident.ID { return r.id }

// Kind returns the record's kind.
func (r *Record) Kind() Kind { return r.kind }

// Name returns the resource name.
func (r *Record) Name() string { return r.name }

// DisplayName returns the name shown to users. Folders are shown by folder name.
func (r *Record) DisplayName() string {
	if f, ok := r.payload.(*Folder); ok && f.folderName != "" {
		return f.folderName
	}
	return r.name
}

// Path returns the project-relative path of the record's .yy file.
func (r *Record) Path() string { return r.path }

// Dir returns the project-relative directory holding the record's files.
func (r *Record) Dir() string { return path.Dir(r.path) }

// Payload returns the kind-specific payload.
func (r *Record) Payload() Payload { return r.payload }

// Document returns the structured record the resource was loaded from.
func (r *Record) Document() *yy.Document { return r.doc }

// SubRecords returns records created while loading this one (a room's object
// instances). The loader registers them alongside their owner.
func (r *Record) SubRecords() []*Record { return r.subRecords }

// SetName renames the resource.
func (r *Record) SetName(name string) {
	if name == r.name {
		return
	}
	r.name = name
	r.nameChanged = true
}

// Modified reports whether the record has edits not yet written by Save.
func (r *Record) Modified() bool {
	return r.nameChanged || r.payload.modified()
}

// Object returns the object payload, if the record is an object.
func (r *Record) Object() (*Object, bool) {
	o, ok := r.payload.(*Object)
	return o, ok
}

// Room returns the room payload, if the record is a room.
func (r *Record) Room() (*Room, bool) {
	p, ok := r.payload.(*Room)
	return p, ok
}

// Sprite returns the sprite payload, if the record is a sprite.
func (r *Record) Sprite() (*Sprite, bool) {
	p, ok := r.payload.(*Sprite)
	return p, ok
}

// Folder returns the folder payload, if the record is a folder.
func (r *Record) Folder() (*Folder, bool) {
	p, ok := r.payload.(*Folder)
	return p, ok
}

// Instance returns the instance payload, if the record is a room object instance.
func (r *Record) Instance() (*Instance, bool) {
	p, ok := r.payload.(*Instance)
	return p, ok
}

// Encode writes the record's fields into its document and returns the serialised
// bytes.
func (r *Record) Encode() ([]byte, error) {
	if r.doc == nil {
		r.doc = yy.New()
	}
	if err := r.doc.Set("id", string(r.id)); err != nil {
		return nil, err
	}
	if !r.doc.Has("modelName") && r.kind != KindUnknown {
		if err := r.doc.Set("modelName", r.kind.String()); err != nil {
			return nil, err
		}
	}
	if err := r.doc.Set("name", r.name); err != nil {
		return nil, err
	}
	if err := r.payload.store(r.doc); err != nil {
		return nil, err
	}
	return r.doc.Bytes(), nil
}

// Save writes the record's own .yy file under root. Only fields owned by the record
// are written; event scripts and other companion files are not touched. A record with
// no pending edits whose file exists is left alone.
func (r *Record) Save(root string) error {
	if r.kind == KindObjectInstance {
		return ErrNotSavable
	}
	full := filepath.Join(root, filepath.FromSlash(r.path))
	if !r.Modified() && r.doc != nil && !r.doc.Changed() {
		if _, err := os.Stat(full); err == nil {
			return nil
		}
	}

	data, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", r.path, err)
	}
	if _, err := atomicfile.WriteIfChanged(full, data, 0); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}

	r.doc.MarkSaved()
	r.nameChanged = false
	r.payload.markSaved()
	return nil
}

// Create initialises a brand-new record with a fresh identifier.
func Create(kind Kind, relPath, name string) *Record {
	r := New(kind, relPath)
	r.id = ident.Generate()
	r.name = name
	r.doc = yy.New()
	r.nameChanged = true
	return r
}

func optionalID(doc *yy.Document, key string) (ident.ID, error) {
	raw, ok := doc.Raw(key)
	if !ok || string(raw) == "null" {
		return "", nil
	}
	s, err := doc.String(key)
	if err != nil {
		return "", err
	}
	if ident.IsNull(ident.ID(s)) {
		return "", nil
	}
	return ident.ID(s), nil
}
