package editor

import (
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// RecordEditor edits the name of resources that have no dedicated editor.
type RecordEditor struct {
	proj  *project.Project
	rec   *resource.Record
	state State
	name  string
}

// NewRecordEditor opens rec.
func NewRecordEditor(p *project.Project, rec *resource.Record) (*RecordEditor, error) {
	e := &RecordEditor{proj: p, rec: rec}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Record returns the edited record.
func (e *RecordEditor) Record() *resource.Record { return e.rec }

// State returns the dirty state.
func (e *RecordEditor) State() *State { return &e.state }

// Dirty reports unsaved edits.
func (e *RecordEditor) Dirty() bool { return e.state.Dirty() }

// Reset reloads the name.
func (e *RecordEditor) Reset() error {
	e.name = e.rec.Name()
	e.state.Clean()
	return nil
}

// Name returns the scratch name.
func (e *RecordEditor) Name() string { return e.name }

// SetName renames the resource.
func (e *RecordEditor) SetName(name string) {
	if name == e.name {
		return
	}
	e.name = name
	e.state.MarkDirty()
}

// Save writes the record.
func (e *RecordEditor) Save() error {
	e.rec.SetName(e.name)
	if err := e.rec.Save(e.proj.Root()); err != nil {
		return err
	}
	e.state.Clean()
	return nil
}
