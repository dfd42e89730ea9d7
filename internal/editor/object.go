package editor

import (
	"fmt"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// ObjectEditor edits an object: name, sprite, mask, parent and event scripts.
// Each event script is one subpart of the State.
type ObjectEditor struct {
	proj  *project.Project
	rec   *resource.Record
	obj   *resource.Object
	state State

	name     string
	sprite   ident.ID
	mask     ident.ID
	parent   ident.ID
	children []ident.ID
	events   []resource.Event
	code     []string
	onDisk   []bool
}

// NewObjectEditor opens rec, which must be an object, and loads its state.
func NewObjectEditor(p *project.Project, rec *resource.Record) (*ObjectEditor, error) {
	obj, ok := rec.Object()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not an object", registry.ErrWrongKind, rec.ID(), rec.Kind())
	}
	e := &ObjectEditor{proj: p, rec: rec, obj: obj}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Record returns the edited record.
func (e *ObjectEditor) Record() *resource.Record { return e.rec }

// State returns the dirty state.
func (e *ObjectEditor) State() *State { return &e.state }

// Dirty reports unsaved edits.
func (e *ObjectEditor) Dirty() bool { return e.state.Dirty() }

// Reset pulls every field and event script from the record.
func (e *ObjectEditor) Reset() error {
	evs := e.obj.Events()
	code := make([]string, len(evs))
	onDisk := make([]bool, len(evs))
	for i, ev := range evs {
		text, ok, err := readCompanion(e.proj, ev.Script)
		if err != nil {
			return err
		}
		code[i], onDisk[i] = text, ok
	}

	e.name = e.rec.Name()
	e.sprite = e.obj.Sprite()
	e.mask = e.obj.Mask()
	e.parent = e.obj.Parent()
	e.children = e.proj.Resolver().Children(e.rec.ID())
	e.events = evs
	e.code = code
	e.onDisk = onDisk

	e.state.Resize(len(evs))
	e.state.Clean()
	return nil
}

// Name returns the scratch name.
func (e *ObjectEditor) Name() string { return e.name }

// Sprite returns the scratch sprite id.
func (e *ObjectEditor) Sprite() ident.ID { return e.sprite }

// Mask returns the scratch mask sprite id.
func (e *ObjectEditor) Mask() ident.ID { return e.mask }

// Parent returns the scratch parent id.
func (e *ObjectEditor) Parent() ident.ID { return e.parent }

// Children returns the objects that had this object as parent at the last Reset.
func (e *ObjectEditor) Children() []ident.ID { return e.children }

// Events returns the object's events.
func (e *ObjectEditor) Events() []resource.Event { return e.events }

// EventCode returns the scratch script of event i.
func (e *ObjectEditor) EventCode(i int) (string, error) {
	if i < 0 || i >= len(e.code) {
		return "", fmt.Errorf("%w: index %d", ErrNoSuchEvent, i)
	}
	return e.code[i], nil
}

// SetName renames the object.
func (e *ObjectEditor) SetName(name string) {
	if name == e.name {
		return
	}
	e.name = name
	e.state.MarkDirty()
}

// SetSprite sets the sprite. A non-null id must name a sprite.
func (e *ObjectEditor) SetSprite(id ident.ID) error {
	return e.setSpriteRef(&e.sprite, id)
}

// SetMask sets the collision mask sprite. A non-null id must name a sprite.
func (e *ObjectEditor) SetMask(id ident.ID) error {
	return e.setSpriteRef(&e.mask, id)
}

func (e *ObjectEditor) setSpriteRef(field *ident.ID, id ident.ID) error {
	if ident.IsNull(id) {
		id = ""
	} else if e.proj.Resolver().Sprite(id) == nil {
		return fmt.Errorf("%w: %s is not a sprite", registry.ErrNotFound, id)
	}
	if *field == id {
		return nil
	}
	*field = id
	e.state.MarkDirty()
	return nil
}

// SetParent sets the parent object, refusing one that would create a cycle.
func (e *ObjectEditor) SetParent(id ident.ID) error {
	if ident.IsNull(id) {
		id = ""
	}
	if err := e.proj.Resolver().CheckParent(e.rec.ID(), id); err != nil {
		return err
	}
	if e.parent == id {
		return nil
	}
	e.parent = id
	e.state.MarkDirty()
	return nil
}

// SetEventCode replaces the script of event i.
func (e *ObjectEditor) SetEventCode(i int, code string) error {
	if i < 0 || i >= len(e.code) {
		return fmt.Errorf("%w: index %d", ErrNoSuchEvent, i)
	}
	if e.code[i] == code {
		return nil
	}
	e.code[i] = code
	e.state.MarkSubpart(i)
	return nil
}

// Save writes the event scripts, commits the scratch fields to the record and
// saves its .yy. Scripts are rewritten whole; an unedited script is written back
// with the bytes it was read with. With save.rewrite_events off only edited
// scripts are written. A script whose file did not exist is only created once
// edited.
func (e *ObjectEditor) Save() error {
	if e.parent != e.obj.Parent() {
		if err := e.proj.Resolver().CheckParent(e.rec.ID(), e.parent); err != nil {
			return err
		}
	}

	rewrite := e.proj.Config().RewritesEvents()
	for i, ev := range e.events {
		edited := e.state.Subpart(i)
		if !edited && (!e.onDisk[i] || !rewrite) {
			continue
		}
		if err := e.proj.WriteFile(ev.Script, []byte(e.code[i])); err != nil {
			return err
		}
		e.onDisk[i] = true
	}

	e.rec.SetName(e.name)
	e.obj.SetSprite(e.sprite)
	e.obj.SetMask(e.mask)
	e.obj.SetParent(e.parent)
	if err := e.rec.Save(e.proj.Root()); err != nil {
		return err
	}

	e.children = e.proj.Resolver().Children(e.rec.ID())
	e.state.Clean()
	e.proj.Logger().Debug("saved object", "id", e.rec.ID(), "name", e.name)
	return nil
}
