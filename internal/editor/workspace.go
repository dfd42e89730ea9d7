package editor

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// Workspace keeps at most one open editor per record. Editors hold the record
// they were opened on; after project.Reload replaces a record, Refresh rebinds
// its editor.
type Workspace struct {
	proj    *project.Project
	editors map[ident.ID]Editor
	order   []ident.ID
}

// NewWorkspace creates an empty workspace for p.
func NewWorkspace(p *project.Project) *Workspace {
	return &Workspace{proj: p, editors: make(map[ident.ID]Editor)}
}

// Open returns the editor for rec, opening one if needed. Folders yield (nil, nil).
func (w *Workspace) Open(rec *resource.Record) (Editor, error) {
	if ed, ok := w.editors[rec.ID()]; ok {
		return ed, nil
	}
	ed, err := Open(w.proj, rec)
	if err != nil || ed == nil {
		return nil, err
	}
	w.editors[rec.ID()] = ed
	w.order = append(w.order, rec.ID())
	return ed, nil
}

// Editor returns the open editor for id.
func (w *Workspace) Editor(id ident.ID) (Editor, bool) {
	ed, ok := w.editors[id]
	return ed, ok
}

// Editors returns the open editors in the order they were opened.
func (w *Workspace) Editors() []Editor {
	out := make([]Editor, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.editors[id])
	}
	return out
}

// DirtyEditors returns the open editors with unsaved edits.
func (w *Workspace) DirtyEditors() []Editor {
	var out []Editor
	for _, ed := range w.Editors() {
		if ed.Dirty() {
			out = append(out, ed)
		}
	}
	return out
}

// Close closes the editor for id. A dirty editor is only closed when force is set;
// its edits are discarded.
func (w *Workspace) Close(id ident.ID, force bool) error {
	ed, ok := w.editors[id]
	if !ok {
		return nil
	}
	if ed.Dirty() && !force {
		return fmt.Errorf("%w: %s", ErrDirty, ed.Record().Name())
	}
	delete(w.editors, id)
	for i, open := range w.order {
		if open == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Refresh rebinds the editor opened on the file rec was reloaded from, matching
// by path so an id changed on disk is followed. A clean editor is reopened on
// rec. A dirty editor keeps its edits and ErrDirty is returned. It reports
// whether an editor was rebound.
func (w *Workspace) Refresh(rec *resource.Record) (bool, error) {
	id, ed, ok := w.editorAt(rec)
	if !ok || ed.Record() == rec {
		return false, nil
	}
	if ed.Dirty() {
		return false, fmt.Errorf("%w: %s changed on disk", ErrDirty, ed.Record().Name())
	}
	if other, taken := w.editors[rec.ID()]; taken && other != ed {
		return false, fmt.Errorf("editor for %s already open", rec.ID())
	}
	fresh, err := Open(w.proj, rec)
	if err != nil {
		return false, err
	}
	delete(w.editors, id)
	w.editors[rec.ID()] = fresh
	for i := range w.order {
		if w.order[i] == id {
			w.order[i] = rec.ID()
		}
	}
	return true, nil
}

func (w *Workspace) editorAt(rec *resource.Record) (ident.ID, Editor, bool) {
	for _, id := range w.order {
		ed := w.editors[id]
		if ed.Record().Kind() == rec.Kind() && ed.Record().Path() == rec.Path() {
			return id, ed, true
		}
	}
	return "", nil, false
}

// SaveAll saves every dirty editor and returns the joined errors.
func (w *Workspace) SaveAll() error {
	var errs []error
	for _, ed := range w.DirtyEditors() {
		if err := ed.Save(); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", ed.Record().Name(), err))
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every editor, stopping at the first dirty one unless force is set.
func (w *Workspace) CloseAll(force bool) error {
	for _, id := range append([]ident.ID(nil), w.order...) {
		if err := w.Close(id, force); err != nil {
			return err
		}
	}
	return nil
}
