// Package resolve turns stored identifiers into live records.
//
// Nothing is cached: every call goes back to the registry, so a record replaced by a
// reload is seen immediately.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/logging"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/slugs"
)

// ErrAmbiguous indicates a name matched more than one record.
var ErrAmbiguous = errors.New("ambiguous reference")

// CycleError reports a parent chain that loops back on itself.
type CycleError struct {
	Start ident.ID
	Path  []ident.ID // ids visited before the repeat, starting at Start
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Path)+1)
	for _, id := range e.Path {
		parts = append(parts, string(id))
	}
	if len(e.Path) > 0 {
		parts = append(parts, string(e.Path[0]))
	}
	return fmt.Sprintf("parent cycle at %s: %s", e.Start, strings.Join(parts, " -> "))
}

// Resolver resolves identifiers against a registry.
type Resolver struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// New creates a resolver over reg. A nil logger discards log output.
func New(reg *registry.Registry, logger *slog.Logger) *Resolver {
	return &Resolver{reg: reg, logger: logging.OrDiscard(logger)}
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *registry.Registry { return r.reg }

// Resolve returns the record for id. Null ids resolve to nil without complaint; a
// non-null id with no record also resolves to nil and is logged as dangling.
func (r *Resolver) Resolve(id ident.ID) *resource.Record {
	if ident.IsNull(id) {
		return nil
	}
	rec, err := r.reg.Get(id)
	if err != nil {
		r.logger.Warn("dangling reference", "id", id)
		return nil
	}
	return rec
}

// Object resolves id and returns it only if it is an object.
func (r *Resolver) Object(id ident.ID) *resource.Record {
	return r.resolveKind(id, resource.KindObject)
}

// Sprite resolves id and returns it only if it is a sprite.
func (r *Resolver) Sprite(id ident.ID) *resource.Record {
	return r.resolveKind(id, resource.KindSprite)
}

func (r *Resolver) resolveKind(id ident.ID, kind resource.Kind) *resource.Record {
	rec := r.Resolve(id)
	if rec == nil {
		return nil
	}
	if rec.Kind() != kind {
		r.logger.Warn("reference has unexpected kind", "id", id, "kind", rec.Kind(), "want", kind)
		return nil
	}
	return rec
}

// InstanceObject returns the object placed by a room instance.
func (r *Resolver) InstanceObject(instanceID ident.ID) *resource.Record {
	rec := r.Resolve(instanceID)
	if rec == nil {
		return nil
	}
	inst, ok := rec.Instance()
	if !ok {
		return nil
	}
	return r.Object(inst.ObjectID())
}

// Lookup finds a record by id, then by exact name, then by case-insensitive name,
// then by slugged name ("big enemy" finds "Big_Enemy").
// Room instances only match by id.
func (r *Resolver) Lookup(ref string) (*resource.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", registry.ErrNotFound)
	}
	if rec, err := r.reg.Get(ident.ID(ref)); err == nil {
		return rec, nil
	}

	exact := r.byName(func(name string) bool { return name == ref })
	if len(exact) == 0 {
		exact = r.byName(func(name string) bool { return strings.EqualFold(name, ref) })
	}
	if len(exact) == 0 {
		exact = r.byName(func(name string) bool { return slugs.Match(name, ref) })
	}
	switch len(exact) {
	case 0:
		return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, ref)
	case 1:
		return exact[0], nil
	default:
		ids := make([]string, len(exact))
		for i, rec := range exact {
			ids[i] = fmt.Sprintf("%s (%s)", rec.ID(), rec.Kind().Short())
		}
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, ref, strings.Join(ids, ", "))
	}
}

func (r *Resolver) byName(match func(string) bool) []*resource.Record {
	var out []*resource.Record
	for _, kind := range resource.Kinds() {
		if kind == resource.KindObjectInstance {
			continue
		}
		for _, rec := range r.reg.Records(kind) {
			if match(rec.DisplayName()) || (rec.Kind() != resource.KindFolder && match(rec.Name())) {
				out = append(out, rec)
			}
		}
	}
	return out
}

func (r *Resolver) object(id ident.ID) (*resource.Record, *resource.Object, error) {
	rec, err := r.reg.Get(id)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := rec.Object()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s, not an object", registry.ErrWrongKind, id, rec.Kind())
	}
	return rec, obj, nil
}

// Ancestors returns the parent chain of the object id, nearest parent first. The
// walk stops at an unset or dangling parent. A chain that loops returns the ids
// walked so far and a *CycleError.
func (r *Resolver) Ancestors(id ident.ID) ([]ident.ID, error) {
	_, obj, err := r.object(id)
	if err != nil {
		return nil, err
	}

	seen := map[ident.ID]bool{id: true}
	path := []ident.ID{id}
	var chain []ident.ID
	for parent := obj.Parent(); !ident.IsNull(parent); {
		if seen[parent] {
			return chain, &CycleError{Start: parent, Path: cycleFrom(path, parent)}
		}
		rec := r.Object(parent)
		if rec == nil {
			break
		}
		seen[parent] = true
		path = append(path, parent)
		chain = append(chain, parent)
		next, _ := rec.Object()
		parent = next.Parent()
	}
	return chain, nil
}

func cycleFrom(path []ident.ID, start ident.ID) []ident.ID {
	for i, id := range path {
		if id == start {
			return append([]ident.ID(nil), path[i:]...)
		}
	}
	return append([]ident.ID(nil), path...)
}

// Children returns the objects whose parent is id, in registration order.
func (r *Resolver) Children(id ident.ID) []ident.ID {
	children := []ident.ID{}
	if ident.IsNull(id) {
		return children
	}
	for _, rec := range r.reg.Records(resource.KindObject) {
		if obj, ok := rec.Object(); ok && obj.Parent() == id {
			children = append(children, rec.ID())
		}
	}
	return children
}

// Descendants returns every object below id, breadth first. Reaching an object a
// second time means the parent links form a cycle; the walk stops and returns the
// ids collected so far with a *CycleError.
func (r *Resolver) Descendants(id ident.ID) ([]ident.ID, error) {
	if _, _, err := r.object(id); err != nil {
		return nil, err
	}

	seen := map[ident.ID]bool{id: true}
	var out []ident.ID
	queue := []ident.ID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range r.Children(current) {
			if seen[child] {
				return out, &CycleError{Start: child, Path: []ident.ID{child, current}}
			}
			seen[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out, nil
}

// CheckParent reports whether parent may become the parent of child. A null parent
// is always allowed.
func (r *Resolver) CheckParent(child, parent ident.ID) error {
	if ident.IsNull(parent) {
		return nil
	}
	if parent == child {
		return &CycleError{Start: child, Path: []ident.ID{child}}
	}
	if _, _, err := r.object(parent); err != nil {
		return err
	}
	chain, err := r.Ancestors(parent)
	if err != nil {
		return err
	}
	for i, id := range chain {
		if id == child {
			path := append([]ident.ID{child, parent}, chain[:i]...)
			return &CycleError{Start: child, Path: path}
		}
	}
	return nil
}

// Selectable lists the records of kind offered by a "choose resource" prompt: the
// contents of the kind's folder root, nested folders included, in folder order.
// exclude and, for objects, its descendants are left out so an object cannot be
// offered as its own ancestor.
func (r *Resolver) Selectable(kind resource.Kind, exclude ident.ID) ([]ident.ID, error) {
	root, err := r.reg.FindFolderRoot(kind)
	if err != nil {
		return nil, err
	}

	skip := map[ident.ID]bool{}
	if !ident.IsNull(exclude) {
		skip[exclude] = true
		if kind == resource.KindObject {
			desc, _ := r.Descendants(exclude)
			for _, id := range desc {
				skip[id] = true
			}
		}
	}

	out := []ident.ID{}
	visited := map[ident.ID]bool{}
	var walk func(folder *resource.Record)
	walk = func(folder *resource.Record) {
		if visited[folder.ID()] {
			return
		}
		visited[folder.ID()] = true
		f, _ := folder.Folder()
		for _, child := range f.Children() {
			rec := r.Resolve(child)
			if rec == nil {
				continue
			}
			if rec.Kind() == resource.KindFolder {
				walk(rec)
				continue
			}
			if rec.Kind() == kind && !skip[rec.ID()] {
				out = append(out, rec.ID())
			}
		}
	}
	walk(root)
	return out, nil
}
