package resource

import (
	"encoding/json"
	"path"

	"github.com/aidanlsb/gmedit/internal/events"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// EventRef identifies one event handler attached to an object.
type EventRef struct {
	ID              ident.ID
	Type            events.Type
	Number          int
	CollisionObject ident.ID
}

// Event is an EventRef with its derived label and script path.
type Event struct {
	EventRef
	Label  string
	Script string // project-relative path of the backing .gml file
}

// Object is the payload of an object resource.
type Object struct {
	dir        string
	parent     ident.ID
	sprite     ident.ID
	mask       ident.ID
	persistent bool
	solid      bool
	visible    bool
	events     []EventRef
	dirty      bool
}

type eventEntry struct {
	ID                ident.ID `json:"id"`
	EventType         int      `json:"eventtype"`
	Enumb             int      `json:"enumb"`
	CollisionObjectID ident.ID `json:"collisionObjectId"`
}

func (o *Object) load(r *Record, doc *yy.Document) error {
	o.dir = r.Dir()

	var err error
	if o.parent, err = optionalID(doc, "parentObjectId"); err != nil {
		return &ParseError{Path: r.path, Field: "parentObjectId", Err: err}
	}
	if o.sprite, err = optionalID(doc, "spriteId"); err != nil {
		return &ParseError{Path: r.path, Field: "spriteId", Err: err}
	}
	if o.mask, err = optionalID(doc, "maskSpriteId"); err != nil {
		return &ParseError{Path: r.path, Field: "maskSpriteId", Err: err}
	}
	o.persistent = doc.BoolOr("persistent", false)
	o.solid = doc.BoolOr("solid", false)
	o.visible = doc.BoolOr("visible", true)

	o.events = nil
	if doc.Has("eventList") {
		var entries []eventEntry
		if err := doc.Decode("eventList", &entries); err != nil {
			return &ParseError{Path: r.path, Field: "eventList", Err: err}
		}
		for _, e := range entries {
			o.events = append(o.events, EventRef{
				ID:              e.ID,
				Type:            events.Type(e.EventType),
				Number:          e.Enumb,
				CollisionObject: e.CollisionObjectID,
			})
		}
	}
	o.dirty = false
	return nil
}

func (o *Object) store(doc *yy.Document) error {
	if !o.dirty {
		return nil
	}
	refs := []struct {
		key string
		id  ident.ID
	}{
		{"maskSpriteId", o.mask},
		{"parentObjectId", o.parent},
		{"spriteId", o.sprite},
	}
	for _, ref := range refs {
		if err := doc.Set(ref.key, string(ident.OrNull(ref.id))); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) modified() bool { return o.dirty }
func (o *Object) markSaved()     { o.dirty = false }

// Parent returns the parent object id, or "" when unset.
func (o *Object) Parent() ident.ID { return o.parent }

// Sprite returns the sprite id, or "" when unset.
func (o *Object) Sprite() ident.ID { return o.sprite }

// Mask returns the collision mask sprite id, or "" when unset.
func (o *Object) Mask() ident.ID { return o.mask }

// Persistent reports the object's persistent flag.
func (o *Object) Persistent() bool { return o.persistent }

// Solid reports the object's solid flag.
func (o *Object) Solid() bool { return o.solid }

// Visible reports the object's visible flag.
func (o *Object) Visible() bool { return o.visible }

// SetParent sets the parent object. Cycle checks are the caller's responsibility
// (see resolve.Resolver.CheckParent).
func (o *Object) SetParent(id ident.ID) {
	o.setRef(&o.parent, id)
}

// SetSprite sets the sprite.
func (o *Object) SetSprite(id ident.ID) {
	o.setRef(&o.sprite, id)
}

// SetMask sets the collision mask sprite.
func (o *Object) SetMask(id ident.ID) {
	o.setRef(&o.mask, id)
}

func (o *Object) setRef(field *ident.ID, id ident.ID) {
	if ident.IsNull(id) {
		id = ""
	}
	if *field == id {
		return
	}
	*field = id
	o.dirty = true
}

// EventRefs returns the object's events in file order.
func (o *Object) EventRefs() []EventRef {
	out := make([]EventRef, len(o.events))
	copy(out, o.events)
	return out
}

// Events returns the object's events with their labels and script paths.
func (o *Object) Events() []Event {
	out := make([]Event, len(o.events))
	for i, e := range o.events {
		out[i] = Event{
			EventRef: e,
			Label:    events.Name(e.Type, e.Number),
			Script:   events.ScriptPath(o.dir, e.Type, e.Number),
		}
	}
	return out
}

// FindEvent returns the index of the event with the given type and number.
func (o *Object) FindEvent(t events.Type, number int) (int, bool) {
	for i, e := range o.events {
		if e.Type == t && e.Number == number {
			return i, true
		}
	}
	return -1, false
}

// MarshalJSON renders the payload for --json output.
func (o *Object) MarshalJSON() ([]byte, error) {
	type eventJSON struct {
		Type   int    `json:"type"`
		Number int    `json:"number"`
		Label  string `json:"label"`
		Script string `json:"script"`
	}
	evs := make([]eventJSON, 0, len(o.events))
	for _, e := range o.Events() {
		evs = append(evs, eventJSON{Type: int(e.Type), Number: e.Number, Label: e.Label, Script: path.Base(e.Script)})
	}
	return json.Marshal(struct {
		Parent     ident.ID    `json:"parent,omitempty"`
		Sprite     ident.ID    `json:"sprite,omitempty"`
		Mask       ident.ID    `json:"mask,omitempty"`
		Persistent bool        `json:"persistent"`
		Solid      bool        `json:"solid"`
		Visible    bool        `json:"visible"`
		Events     []eventJSON `json:"events"`
	}{o.parent, o.sprite, o.mask, o.persistent, o.solid, o.visible, evs})
}
