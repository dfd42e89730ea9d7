// Package registry indexes the records of one open project by identifier and by kind.
//
// A Registry is owned by a project session and is not safe for concurrent use: every
// read and write happens on the caller's single editing loop.
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/logging"
	"github.com/aidanlsb/gmedit/internal/resource"
)

var (
	// ErrNotFound indicates the id is null or has no registered record.
	ErrNotFound = errors.New("resource not found")
	// ErrWrongKind indicates a typed lookup found a record of another kind.
	ErrWrongKind = errors.New("resource has unexpected kind")
	// ErrNoFolderRoot indicates the project has no folder scoping a kind.
	ErrNoFolderRoot = errors.New("no folder root for kind")
)

// Duplicate records a registration that replaced an existing record with the same id.
type Duplicate struct {
	ID       ident.ID
	Previous *resource.Record
	Current  *resource.Record
}

// Registry maps identifiers to records. Registering an id that is already present
// replaces the earlier record (last registration wins); the collision is logged
// and kept in Duplicates.
type Registry struct {
	records    map[ident.ID]*resource.Record
	byKind     map[resource.Kind][]ident.ID
	duplicates []Duplicate
	logger     *slog.Logger
}

// New creates an empty registry. A nil logger discards log output.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		records: make(map[ident.ID]*resource.Record),
		byKind:  make(map[resource.Kind][]ident.ID),
		logger:  logging.OrDiscard(logger),
	}
}

// Register adds rec under its id. It returns false when the id was already taken.
func (r *Registry) Register(rec *resource.Record) bool {
	id := rec.ID()
	prev, exists := r.records[id]
	r.records[id] = rec

	if !exists {
		r.byKind[rec.Kind()] = append(r.byKind[rec.Kind()], id)
		return true
	}
	if prev == rec {
		return true
	}

	r.logger.Warn("duplicate resource id, keeping last registration",
		"id", id,
		"previous", prev.Path(),
		"current", rec.Path())
	r.duplicates = append(r.duplicates, Duplicate{ID: id, Previous: prev, Current: rec})

	if prev.Kind() != rec.Kind() {
		r.byKind[prev.Kind()] = remove(r.byKind[prev.Kind()], id)
		r.byKind[rec.Kind()] = append(r.byKind[rec.Kind()], id)
	}
	return false
}

// Replace re-registers rec without reporting a duplicate. It is used when a record
// is reloaded from disk.
func (r *Registry) Replace(rec *resource.Record) {
	prev, exists := r.records[rec.ID()]
	if !exists {
		r.Register(rec)
		return
	}
	r.records[rec.ID()] = rec
	if prev.Kind() != rec.Kind() {
		r.byKind[prev.Kind()] = remove(r.byKind[prev.Kind()], rec.ID())
		r.byKind[rec.Kind()] = append(r.byKind[rec.Kind()], rec.ID())
	}
}

// Remove unregisters id. It reports whether a record was removed.
func (r *Registry) Remove(id ident.ID) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}
	delete(r.records, id)
	r.byKind[rec.Kind()] = remove(r.byKind[rec.Kind()], id)
	return true
}

func remove(ids []ident.ID, id ident.ID) []ident.ID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Get returns the record registered under id.
func (r *Registry) Get(id ident.ID) (*resource.Record, error) {
	if ident.IsNull(id) {
		return nil, fmt.Errorf("%w: null id", ErrNotFound)
	}
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id ident.ID) bool {
	_, ok := r.records[id]
	return ok
}

// GetAs returns the payload of the record registered under id, if it has type T.
func GetAs[T resource.Payload](r *Registry, id ident.ID) (T, error) {
	var zero T
	rec, err := r.Get(id)
	if err != nil {
		return zero, err
	}
	p, ok := rec.Payload().(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %s", ErrWrongKind, id, rec.Kind())
	}
	return p, nil
}

// FindAll returns the ids of every record of kind, in registration order.
func (r *Registry) FindAll(kind resource.Kind) []ident.ID {
	ids := r.byKind[kind]
	out := make([]ident.ID, len(ids))
	copy(out, ids)
	return out
}

// Records returns every record of kind, in registration order.
func (r *Registry) Records(kind resource.Kind) []*resource.Record {
	ids := r.byKind[kind]
	out := make([]*resource.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.records[id])
	}
	return out
}

// FindByName returns the records of kind whose name equals name. KindUnknown
// matches every kind.
func (r *Registry) FindByName(kind resource.Kind, name string) []*resource.Record {
	var out []*resource.Record
	kinds := []resource.Kind{kind}
	if kind == resource.KindUnknown {
		kinds = resource.Kinds()
	}
	for _, k := range kinds {
		for _, rec := range r.Records(k) {
			if rec.Name() == name {
				out = append(out, rec)
			}
		}
	}
	return out
}

// FindFolderRoot returns the folder that scopes selection of records of kind. When
// several folders filter on the same kind the outermost one (not itself a child
// of another folder of that kind) wins; ties go to the first registered.
func (r *Registry) FindFolderRoot(kind resource.Kind) (*resource.Record, error) {
	var candidates []*resource.Record
	for _, rec := range r.Records(resource.KindFolder) {
		if f, ok := rec.Folder(); ok && f.Filter() == kind {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFolderRoot, kind)
	}

	nested := make(map[ident.ID]bool)
	for _, rec := range candidates {
		f, _ := rec.Folder()
		for _, child := range f.Children() {
			nested[child] = true
		}
	}
	for _, rec := range candidates {
		if !nested[rec.ID()] {
			return rec, nil
		}
	}
	return candidates[0], nil
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Count returns the number of registered records of kind.
func (r *Registry) Count(kind resource.Kind) int {
	return len(r.byKind[kind])
}

// Duplicates returns the id collisions seen since the registry was created or
// last cleared.
func (r *Registry) Duplicates() []Duplicate {
	return r.duplicates
}

// Clear removes every record. It is called when the project closes.
func (r *Registry) Clear() {
	r.records = make(map[ident.ID]*resource.Record)
	r.byKind = make(map[resource.Kind][]ident.ID)
	r.duplicates = nil
}
