package resolve

import (
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// Ref is one outgoing reference held by a record.
type Ref struct {
	Source ident.ID
	Field  string
	Target ident.ID
}

// References returns the non-null identifiers rec points at.
func References(rec *resource.Record) []Ref {
	var refs []Ref
	add := func(field string, target ident.ID) {
		if !ident.IsNull(target) {
			refs = append(refs, Ref{Source: rec.ID(), Field: field, Target: target})
		}
	}

	switch p := rec.Payload().(type) {
	case *resource.Object:
		add("parentObjectId", p.Parent())
		add("spriteId", p.Sprite())
		add("maskSpriteId", p.Mask())
		for _, ev := range p.EventRefs() {
			add("eventList.collisionObjectId", ev.CollisionObject)
		}
	case *resource.Instance:
		add("objId", p.ObjectID())
	case *resource.Room:
		for _, id := range p.InstanceIDs() {
			add("layers.instances", id)
		}
	case *resource.Folder:
		for _, id := range p.Children() {
			add("children", id)
		}
	case *resource.Sprite, *resource.Script, *resource.Options, *resource.IncludedFile, *resource.Generic:
	}
	return refs
}

// Dangling returns the references of rec whose target is not registered.
func (r *Resolver) Dangling(rec *resource.Record) []Ref {
	var out []Ref
	for _, ref := range References(rec) {
		if !r.reg.Has(ref.Target) {
			out = append(out, ref)
		}
	}
	return out
}
