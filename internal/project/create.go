package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/paths"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/slugs"
)

var (
	// ErrInvalidName indicates a name that cannot become a resource name.
	ErrInvalidName = errors.New("invalid resource name")
	// ErrExists indicates a resource with the same name already exists.
	ErrExists = errors.New("resource already exists")
)

// objectDefaults are the fields a fresh object .yy carries, in the order the IDE
// writes them after id, modelName, mvc and name.
var objectDefaults = []struct {
	key   string
	value any
}{
	{"eventList", []any{}},
	{"maskSpriteId", string(ident.Null)},
	{"overriddenProperties", nil},
	{"parentObjectId", string(ident.Null)},
	{"persistent", false},
	{"physicsAngularDamping", 0.1},
	{"physicsDensity", 0.5},
	{"physicsFriction", 0.2},
	{"physicsGroup", 0},
	{"physicsKinematic", false},
	{"physicsLinearDamping", 0.1},
	{"physicsObject", false},
	{"physicsRestitution", 0.1},
	{"physicsSensor", false},
	{"physicsShape", 1},
	{"physicsShapePoints", nil},
	{"physicsStartAwake", true},
	{"properties", nil},
	{"solid", false},
	{"spriteId", string(ident.Null)},
	{"visible", true},
}

// NewObject creates an object resource named after display (slugged, with the
// configured prefix). It writes the .yy, lists it in the .yyp, adds it to the
// objects folder and registers it.
func (p *Project) NewObject(display string) (*resource.Record, error) {
	name := slugs.ResourceName(p.cfg.GetObjectPrefix(), display)
	if name == "" || !slugs.ValidResourceName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, display)
	}
	if existing := p.reg.FindByName(resource.KindUnknown, name); len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}

	folder, err := p.reg.FindFolderRoot(resource.KindObject)
	if err != nil {
		return nil, err
	}
	f, _ := folder.Folder()

	rel := "objects/" + name + "/" + name + ".yy"
	if _, ok := p.EntryForPath(rel); ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, rel)
	}
	abs, err := p.Abs(rel)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err == nil {
		return nil, fmt.Errorf("%w: %s is already on disk", ErrExists, rel)
	}

	rec := resource.Create(resource.KindObject, rel, name)
	doc := rec.Document()
	header := []struct {
		key   string
		value any
	}{
		{"id", string(rec.ID())},
		{"modelName", resource.KindObject.String()},
		{"mvc", "1.0"},
		{"name", name},
	}
	for _, field := range append(header, objectDefaults...) {
		if err := doc.Set(field.key, field.value); err != nil {
			return nil, fmt.Errorf("build %s: %w", rel, err)
		}
	}

	if err := rec.Load(doc); err != nil {
		return nil, err
	}
	if err := rec.Save(p.root); err != nil {
		return nil, err
	}

	f.AddChild(rec.ID())
	if err := folder.Save(p.root); err != nil {
		return nil, err
	}

	if err := p.appendEntry(Entry{Key: rec.ID(), Path: rel, Kind: resource.KindObject}); err != nil {
		return nil, err
	}

	p.register(rec)
	p.logger.Info("created object", "name", name, "id", rec.ID(), "path", rel)
	return rec, nil
}

// appendEntry adds e to the .yyp resource list and writes the project file.
func (p *Project) appendEntry(e Entry) error {
	var resources []json.RawMessage
	if p.doc.Has("resources") {
		if err := p.doc.Decode("resources", &resources); err != nil {
			return fmt.Errorf("read resources: %w", err)
		}
	}
	added, err := json.Marshal(yypEntry{
		Key: string(e.Key),
		Value: yypValue{
			ID:           string(ident.Generate()),
			ResourcePath: paths.ToResourcePath(e.Path),
			ResourceType: e.Kind.String(),
		},
	})
	if err != nil {
		return err
	}
	resources = append(resources, added)
	if err := p.doc.Set("resources", resources); err != nil {
		return fmt.Errorf("update resources: %w", err)
	}

	if err := p.WriteFile(filepath.Base(p.file), p.doc.Bytes()); err != nil {
		return err
	}
	p.doc.MarkSaved()
	p.entries = append(p.entries, e)
	return nil
}
