package resource

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// Frame is one animation frame of a sprite.
type Frame struct {
	ID             ident.ID
	CompositeImage ident.ID
}

// Sprite is the payload of a sprite resource.
type Sprite struct {
	width, height int
	frames        []Frame
}

type frameEntry struct {
	ID             ident.ID `json:"id"`
	CompositeImage struct {
		ID ident.ID `json:"id"`
	} `json:"compositeImage"`
}

func (p *Sprite) load(r *Record, doc *yy.Document) error {
	p.width = doc.IntOr("width", 0)
	p.height = doc.IntOr("height", 0)
	p.frames = nil
	if !doc.Has("frames") {
		return nil
	}
	var entries []frameEntry
	if err := doc.Decode("frames", &entries); err != nil {
		return &ParseError{Path: r.path, Field: "frames", Err: err}
	}
	for _, e := range entries {
		p.frames = append(p.frames, Frame{ID: e.ID, CompositeImage: e.CompositeImage.ID})
	}
	return nil
}

func (p *Sprite) store(doc *yy.Document) error { return nil }
func (p *Sprite) modified() bool                { return false }
func (p *Sprite) markSaved()                    {}

// Frames returns the sprite's frames in order.
func (p *Sprite) Frames() []Frame { return p.frames }

// Size returns the sprite's width and height in pixels.
func (p *Sprite) Size() (int, int) { return p.width, p.height }

// Folder is the payload of a folder (view) resource. A folder groups the resources
// of one kind and scopes "choose a resource" selection.
type Folder struct {
	filter      Kind
	folderName  string
	children    []ident.ID
	defaultView bool
	dirty       bool
}

func (p *Folder) load(r *Record, doc *yy.Document) error {
	p.filter = ParseKind(doc.StringOr("filterType", ""))
	p.folderName = doc.StringOr("folderName", "")
	p.defaultView = doc.BoolOr("isDefaultView", false)
	p.children = nil
	if doc.Has("children") {
		if err := doc.Decode("children", &p.children); err != nil {
			return &ParseError{Path: r.path, Field: "children", Err: err}
		}
	}
	p.dirty = false
	return nil
}

func (p *Folder) store(doc *yy.Document) error {
	if !p.dirty {
		return nil
	}
	if err := doc.Set("filterType", p.filter.String()); err != nil {
		return err
	}
	if err := doc.Set("folderName", p.folderName); err != nil {
		return err
	}
	children := p.children
	if children == nil {
		children = []ident.ID{}
	}
	return doc.Set("children", children)
}

func (p *Folder) modified() bool { return p.dirty }
func (p *Folder) markSaved()     { p.dirty = false }

// Filter returns the kind of resource the folder groups.
func (p *Folder) Filter() Kind { return p.filter }

// FolderName returns the folder's display name.
func (p *Folder) FolderName() string { return p.folderName }

// IsDefaultView reports whether the folder is the project's default view.
func (p *Folder) IsDefaultView() bool { return p.defaultView }

// Children returns the ids of the folder's direct children.
func (p *Folder) Children() []ident.ID { return p.children }

// SetFilter sets the kind the folder groups.
func (p *Folder) SetFilter(k Kind) {
	if p.filter != k {
		p.filter = k
		p.dirty = true
	}
}

// SetFolderName renames the folder.
func (p *Folder) SetFolderName(name string) {
	if p.folderName != name {
		p.folderName = name
		p.dirty = true
	}
}

// AddChild appends a child id if it is not already present.
func (p *Folder) AddChild(id ident.ID) {
	for _, c := range p.children {
		if c == id {
			return
		}
	}
	p.children = append(p.children, id)
	p.dirty = true
}

// Script is the payload of a script resource.
type Script struct {
	source string
}

func (p *Script) load(r *Record, doc *yy.Document) error {
	p.source = path.Join(r.Dir(), r.name+".gml")
	return nil
}

func (p *Script) store(doc *yy.Document) error { return nil }
func (p *Script) modified() bool                { return false }
func (p *Script) markSaved()                    {}

// Source returns the project-relative path of the script's .gml body.
func (p *Script) Source() string { return p.source }

// SourceFor returns where the body of a script named name lives. The IDE keeps
// the .gml beside the .yy under the script's name.
func (p *Script) SourceFor(name string) string {
	return path.Join(path.Dir(p.source), name+".gml")
}

// SetSource points the script at a moved body.
func (p *Script) SetSource(rel string) { p.source = rel }

// Setting is one option value of a platform options set.
type Setting struct {
	Key   string
	Value json.RawMessage
}

// Options is the payload of the per-platform option sets.
type Options struct {
	settings []Setting
}

func (p *Options) load(r *Record, doc *yy.Document) error {
	p.settings = nil
	for _, key := range doc.Keys() {
		if !strings.HasPrefix(key, "option_") {
			continue
		}
		raw, _ := doc.Raw(key)
		p.settings = append(p.settings, Setting{Key: key, Value: raw})
	}
	return nil
}

func (p *Options) store(doc *yy.Document) error { return nil }
func (p *Options) modified() bool                { return false }
func (p *Options) markSaved()                    {}

// Settings returns the option values in file order.
func (p *Options) Settings() []Setting { return p.settings }

// IncludedFile is the payload of a datafile bundled with the project.
type IncludedFile struct {
	fileName string
	filePath string
}

func (p *IncludedFile) load(r *Record, doc *yy.Document) error {
	p.fileName = doc.StringOr("fileName", "")
	p.filePath = doc.StringOr("filePath", "")
	return nil
}

func (p *IncludedFile) store(doc *yy.Document) error { return nil }
func (p *IncludedFile) modified() bool                { return false }
func (p *IncludedFile) markSaved()                    {}

// FileName returns the bundled file's name.
func (p *IncludedFile) FileName() string { return p.fileName }

// FilePath returns the directory the file is bundled from.
func (p *IncludedFile) FilePath() string { return p.filePath }

// Generic is the payload of kinds the editor does not model beyond identity.
type Generic struct{}

func (p *Generic) load(r *Record, doc *yy.Document) error { return nil }
func (p *Generic) store(doc *yy.Document) error            { return nil }
func (p *Generic) modified() bool                          { return false }
func (p *Generic) markSaved()                              {}
