package editor

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// ScriptEditor edits a script resource's name and .gml body. The body is the
// single subpart of the State.
type ScriptEditor struct {
	proj   *project.Project
	rec    *resource.Record
	script *resource.Script
	state  State

	name   string
	code   string
	onDisk bool
}

// NewScriptEditor opens rec, which must be a script.
func NewScriptEditor(p *project.Project, rec *resource.Record) (*ScriptEditor, error) {
	script, ok := rec.Payload().(*resource.Script)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not a script", registry.ErrWrongKind, rec.ID(), rec.Kind())
	}
	e := &ScriptEditor{proj: p, rec: rec, script: script}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Record returns the edited record.
func (e *ScriptEditor) Record() *resource.Record { return e.rec }

// State returns the dirty state.
func (e *ScriptEditor) State() *State { return &e.state }

// Dirty reports unsaved edits.
func (e *ScriptEditor) Dirty() bool { return e.state.Dirty() }

// Reset reloads the name and body.
func (e *ScriptEditor) Reset() error {
	code, ok, err := readCompanion(e.proj, e.script.Source())
	if err != nil {
		return err
	}
	e.name = e.rec.Name()
	e.code = code
	e.onDisk = ok
	e.state.Resize(1)
	e.state.Clean()
	return nil
}

// Name returns the scratch name.
func (e *ScriptEditor) Name() string { return e.name }

// Code returns the scratch body.
func (e *ScriptEditor) Code() string { return e.code }

// SetName renames the script.
func (e *ScriptEditor) SetName(name string) {
	if name == e.name {
		return
	}
	e.name = name
	e.state.MarkDirty()
}

// SetCode replaces the body.
func (e *ScriptEditor) SetCode(code string) {
	if code == e.code {
		return
	}
	e.code = code
	e.state.MarkSubpart(0)
}

// Save writes the body and the record. A rename first moves the .gml to the
// new name; the move is undone when the .yy cannot be written.
func (e *ScriptEditor) Save() error {
	from := e.script.Source()
	to := e.script.SourceFor(e.name)
	if to != from && !strings.EqualFold(to, from) {
		if _, err := e.proj.ReadFile(to); err == nil {
			return fmt.Errorf("%w: %s", ErrNameTaken, to)
		}
	}

	moved := false
	if to != from && e.onDisk {
		if err := e.proj.RenameFile(from, to); err != nil {
			return err
		}
		moved = true
	}

	edited := e.state.Subpart(0)
	if edited || (e.onDisk && e.proj.Config().RewritesEvents()) {
		if err := e.proj.WriteFile(to, []byte(e.code)); err != nil {
			return e.undoMove(moved, to, from, err)
		}
		e.onDisk = true
	}

	prev := e.rec.Name()
	e.rec.SetName(e.name)
	if err := e.rec.Save(e.proj.Root()); err != nil {
		e.rec.SetName(prev)
		return e.undoMove(moved, to, from, err)
	}
	e.script.SetSource(to)
	e.state.Clean()
	return nil
}

func (e *ScriptEditor) undoMove(moved bool, to, from string, err error) error {
	if moved {
		if rerr := e.proj.RenameFile(to, from); rerr != nil {
			e.proj.Logger().Error("failed to restore script body", "path", from, "error", rerr)
		}
	}
	return err
}
