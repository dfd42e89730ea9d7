// Package testutil provides reusable test utilities for gmedit tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/gmedit/internal/events"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// ObjectSpec describes an object resource for a test project.
type ObjectSpec struct {
	ID     string
	Name   string
	Parent string
	Sprite string
	Mask   string
	Events []EventSpec
}

// EventSpec describes one object event. Code is written to the event's script
// file unless NoScript is set.
type EventSpec struct {
	Type     events.Type
	Number   int
	Code     string
	NoScript bool
}

// InstanceSpec describes an object instance placed in a room.
type InstanceSpec struct {
	ID     string
	Name   string
	Object string
	X, Y   int
}

type projectEntry struct {
	key     string
	kind    resource.Kind
	relPath string
}

// TestProject represents a temporary project for testing.
type TestProject struct {
	Path string
	Name string

	t          *testing.T
	configPath string
	resources  []projectEntry
	files      map[string]string
	order      []string
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual project directory.
func NewTestProject(t *testing.T, name string) *TestProject {
	t.Helper()
	return &TestProject{
		Name:  name,
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the project.
// The path is relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	if _, ok := p.files[path]; !ok {
		p.order = append(p.order, path)
	}
	p.files[path] = content
	return p
}

// WithConfigYAML sets the gmedit.yaml content for the project.
func (p *TestProject) WithConfigYAML(content string) *TestProject {
	return p.WithFile("gmedit.yaml", content)
}

// WithResource lists a resource in the .yyp and writes its .yy content.
func (p *TestProject) WithResource(kind resource.Kind, key, relPath, content string) *TestProject {
	p.resources = append(p.resources, projectEntry{key: key, kind: kind, relPath: relPath})
	return p.WithFile(relPath, content)
}

// WithObject adds an object resource and its event scripts.
func (p *TestProject) WithObject(o ObjectSpec) *TestProject {
	dir := "objects/" + o.Name
	p.WithResource(resource.KindObject, o.ID, dir+"/"+o.Name+".yy", ObjectJSON(o))
	for _, ev := range o.Events {
		if ev.NoScript {
			continue
		}
		p.WithFile(events.ScriptPath(dir, ev.Type, ev.Number), ev.Code)
	}
	return p
}

// WithFolder adds a folder (view) resource.
func (p *TestProject) WithFolder(id, folderName string, filter resource.Kind, children ...string) *TestProject {
	return p.WithResource(resource.KindFolder, id, "views/"+id+".yy", FolderJSON(id, folderName, filter, children...))
}

// WithSprite adds a sprite resource.
func (p *TestProject) WithSprite(id, name string, width, height int) *TestProject {
	return p.WithResource(resource.KindSprite, id, "sprites/"+name+"/"+name+".yy", SpriteJSON(id, name, width, height))
}

// WithScript adds a script resource and its source file.
func (p *TestProject) WithScript(id, name, code string) *TestProject {
	dir := "scripts/" + name
	p.WithResource(resource.KindScript, id, dir+"/"+name+".yy", marshal(orderedScript{
		ID: id, ModelName: resource.KindScript.String(), MVC: "1.0", Name: name,
	}))
	return p.WithFile(dir+"/"+name+".gml", code)
}

// WithRoom adds a room resource with one instance layer.
func (p *TestProject) WithRoom(id, name string, instances ...InstanceSpec) *TestProject {
	return p.WithResource(resource.KindRoom, id, "rooms/"+name+"/"+name+".yy", RoomJSON(id, name, instances...))
}

// Build creates the project directory, the .yyp and all configured files.
// Returns the TestProject for method chaining.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()

	entries := make([]yypEntry, 0, len(p.resources))
	for _, r := range p.resources {
		entries = append(entries, yypEntry{
			Key: r.key,
			Value: yypValue{
				ID:           string(ident.Generate()),
				ResourcePath: strings.ReplaceAll(r.relPath, "/", "\\"),
				ResourceType: r.kind.String(),
			},
		})
	}
	p.writeFile(p.Name+".yyp", marshal(yypFile{
		ID:        string(ident.Generate()),
		ModelName: "GMProject",
		MVC:       "1.0",
		Configs:   []string{},
		Resources: entries,
		Tutorial:  "",
	}))

	for _, path := range p.order {
		p.writeFile(path, p.files[path])
	}
	return p
}

// YYPPath returns the absolute path of the project file.
func (p *TestProject) YYPPath() string {
	return filepath.Join(p.Path, p.Name+".yyp")
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// WriteFile overwrites a file in an already built project.
func (p *TestProject) WriteFile(relPath, content string) {
	p.t.Helper()
	p.writeFile(relPath, content)
}

// ReadFile reads a file from the project.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, filepath.FromSlash(relPath))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the project.
func (p *TestProject) FileExists(relPath string) bool {
	p.t.Helper()
	_, err := os.Stat(filepath.Join(p.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// ParseRecord builds a record of kind from .yy content, failing the test on error.
func ParseRecord(t *testing.T, kind resource.Kind, relPath, content string) *resource.Record {
	t.Helper()
	doc, err := yy.Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse %s: %v", relPath, err)
	}
	rec := resource.New(kind, relPath)
	if err := rec.Load(doc); err != nil {
		t.Fatalf("load %s: %v", relPath, err)
	}
	return rec
}

// ObjectRecord builds an in-memory object record.
func ObjectRecord(t *testing.T, o ObjectSpec) *resource.Record {
	t.Helper()
	return ParseRecord(t, resource.KindObject, "objects/"+o.Name+"/"+o.Name+".yy", ObjectJSON(o))
}

// FolderRecord builds an in-memory folder record.
func FolderRecord(t *testing.T, id, folderName string, filter resource.Kind, children ...string) *resource.Record {
	t.Helper()
	return ParseRecord(t, resource.KindFolder, "views/"+id+".yy", FolderJSON(id, folderName, filter, children...))
}

// SpriteRecord builds an in-memory sprite record.
func SpriteRecord(t *testing.T, id, name string) *resource.Record {
	t.Helper()
	return ParseRecord(t, resource.KindSprite, "sprites/"+name+"/"+name+".yy", SpriteJSON(id, name, 32, 32))
}
