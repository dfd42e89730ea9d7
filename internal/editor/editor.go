// Package editor holds the scratch state of open resources and commits it back
// through the records on save.
//
// An editor is Clean after Reset or Save and Dirty after any edit. Save writes
// companion files first, then the record's own .yy, then returns to Clean.
package editor

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
)

var (
	// ErrUnsupportedKind indicates there is no editor for a resource kind.
	ErrUnsupportedKind = errors.New("no editor for resource kind")
	// ErrNoSuchEvent indicates an event index outside the object's event list.
	ErrNoSuchEvent = errors.New("no such event")
	// ErrDirty indicates an editor has unsaved edits.
	ErrDirty = errors.New("editor has unsaved changes")
	// ErrNameTaken indicates a rename would overwrite another file.
	ErrNameTaken = errors.New("name is already used by another file")
)

// Editor is an open resource.
type Editor interface {
	Record() *resource.Record
	State() *State
	Dirty() bool
	// Reset discards scratch edits and reloads from the record and its files.
	Reset() error
	// Save commits scratch edits.
	Save() error
}

// Open returns an editor for rec. Folders have no editor and yield (nil, nil).
func Open(p *project.Project, rec *resource.Record) (Editor, error) {
	switch rec.Kind() {
	case resource.KindFolder:
		return nil, nil
	case resource.KindObject:
		return NewObjectEditor(p, rec)
	case resource.KindScript:
		return NewScriptEditor(p, rec)
	case resource.KindRoom, resource.KindSprite, resource.KindIncludedFile,
		resource.KindMainOptions, resource.KindWindowsOptions, resource.KindMacOptions,
		resource.KindLinuxOptions, resource.KindAndroidOptions, resource.KindIOSOptions,
		resource.KindAmazonFireOptions:
		return NewRecordEditor(p, rec)
	default:
		p.Logger().Error("unimplemented resource kind", "kind", rec.Kind(), "id", rec.ID())
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, rec.Kind())
	}
}

// readCompanion reads a file next to a record. A missing file reads as empty.
func readCompanion(p *project.Project, rel string) (string, bool, error) {
	data, err := p.ReadFile(rel)
	if err != nil {
		if project.IsMissing(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", rel, err)
	}
	return string(data), true, nil
}
