package resource

import (
	"encoding/json"
	"fmt"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// Layer is one layer of a room. Instance layers list the ids of the object
// instances placed on them; the instances themselves are separate records.
type Layer struct {
	ID        ident.ID
	Name      string
	Model     string
	Depth     int
	Visible   bool
	Instances []ident.ID
	Layers    []Layer
}

// Room is the payload of a room resource.
type Room struct {
	layers        []Layer
	creationOrder []ident.ID
	width         int
	height        int
}

type roomSettings struct {
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

func (p *Room) load(r *Record, doc *yy.Document) error {
	p.layers = nil
	p.creationOrder = nil

	if doc.Has("roomSettings") {
		var rs roomSettings
		if err := doc.Decode("roomSettings", &rs); err == nil {
			p.width, p.height = rs.Width, rs.Height
		}
	}

	if doc.Has("instanceCreationOrderIDs") {
		if err := doc.Decode("instanceCreationOrderIDs", &p.creationOrder); err != nil {
			return &ParseError{Path: r.path, Field: "instanceCreationOrderIDs", Err: err}
		}
	}

	if !doc.Has("layers") {
		return nil
	}
	var raws []json.RawMessage
	if err := doc.Decode("layers", &raws); err != nil {
		return &ParseError{Path: r.path, Field: "layers", Err: err}
	}
	layers, err := loadLayers(r, raws)
	if err != nil {
		return err
	}
	p.layers = layers
	return nil
}

func loadLayers(r *Record, raws []json.RawMessage) ([]Layer, error) {
	layers := make([]Layer, 0, len(raws))
	for i, raw := range raws {
		ldoc, err := yy.Parse(raw)
		if err != nil {
			return nil, &ParseError{Path: r.path, Field: fmt.Sprintf("layers[%d]", i), Err: err}
		}
		layer := Layer{
			ID:      ident.ID(ldoc.StringOr("id", "")),
			Name:    ldoc.StringOr("name", ""),
			Model:   ldoc.StringOr("modelName", ""),
			Depth:   ldoc.IntOr("depth", 0),
			Visible: ldoc.BoolOr("visible", true),
		}

		if ldoc.Has("instances") {
			var instRaws []json.RawMessage
			if err := ldoc.Decode("instances", &instRaws); err != nil {
				return nil, &ParseError{Path: r.path, Field: fmt.Sprintf("layers[%d].instances", i), Err: err}
			}
			for j, instRaw := range instRaws {
				inst, err := loadInstance(r, instRaw)
				if err != nil {
					return nil, &ParseError{Path: r.path, Field: fmt.Sprintf("layers[%d].instances[%d]", i, j), Err: err}
				}
				r.subRecords = append(r.subRecords, inst)
				layer.Instances = append(layer.Instances, inst.ID())
			}
		}

		if ldoc.Has("layers") {
			var childRaws []json.RawMessage
			if err := ldoc.Decode("layers", &childRaws); err != nil {
				return nil, &ParseError{Path: r.path, Field: fmt.Sprintf("layers[%d].layers", i), Err: err}
			}
			children, err := loadLayers(r, childRaws)
			if err != nil {
				return nil, err
			}
			layer.Layers = children
		}

		layers = append(layers, layer)
	}
	return layers, nil
}

func loadInstance(room *Record, raw json.RawMessage) (*Record, error) {
	doc, err := yy.Parse(raw)
	if err != nil {
		return nil, err
	}
	inst := New(KindObjectInstance, room.path)
	if err := inst.Load(doc); err != nil {
		return nil, err
	}
	if p, ok := inst.Instance(); ok {
		p.room = room.id
	}
	return inst, nil
}

func (p *Room) store(doc *yy.Document) error { return nil }
func (p *Room) modified() bool                { return false }
func (p *Room) markSaved()                    {}

// Layers returns the room's top-level layers in file order.
func (p *Room) Layers() []Layer { return p.layers }

// Size returns the room's width and height.
func (p *Room) Size() (int, int) { return p.width, p.height }

// CreationOrder returns instance ids in the order the room creates them.
func (p *Room) CreationOrder() []ident.ID { return p.creationOrder }

// InstanceIDs returns every instance id placed in the room, depth-first by layer.
func (p *Room) InstanceIDs() []ident.ID {
	var ids []ident.ID
	var walk func(layers []Layer)
	walk = func(layers []Layer) {
		for _, l := range layers {
			ids = append(ids, l.Instances...)
			walk(l.Layers)
		}
	}
	walk(p.layers)
	return ids
}

// Instance is the payload of an object instance placed in a room.
type Instance struct {
	x, y   int
	object ident.ID
	room   ident.ID
}

func (p *Instance) load(r *Record, doc *yy.Document) error {
	p.x = doc.IntOr("x", 0)
	p.y = doc.IntOr("y", 0)
	obj, err := optionalID(doc, "objId")
	if err != nil {
		return &ParseError{Path: r.path, Field: "objId", Err: err}
	}
	p.object = obj
	return nil
}

func (p *Instance) store(doc *yy.Document) error { return nil }
func (p *Instance) modified() bool                { return false }
func (p *Instance) markSaved()                    {}

// Position returns the instance's placement in room coordinates.
func (p *Instance) Position() (x, y int) { return p.x, p.y }

// ObjectID returns the id of the object this instance places, or "" when unset.
// Use resolve.Resolver.InstanceObject to obtain the live record.
func (p *Instance) ObjectID() ident.ID { return p.object }

// RoomID returns the id of the room the instance belongs to.
func (p *Instance) RoomID() ident.ID { return p.room }
