package project

import (
	"errors"
	"fmt"
	"os"

	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/yy"
)

// Skipped is a resource that could not be loaded.
type Skipped struct {
	Path string
	Err  error
}

// LoadReport summarises a project load.
type LoadReport struct {
	Loaded     int
	Skipped    []Skipped
	Duplicates []registry.Duplicate
	Dangling   []resolve.Ref
}

// OK reports whether the load was clean.
func (r *LoadReport) OK() bool {
	return len(r.Skipped) == 0 && len(r.Duplicates) == 0 && len(r.Dangling) == 0
}

func (p *Project) load() error {
	if err := p.readEntries(); err != nil {
		return err
	}

	report := &LoadReport{}
	for _, e := range p.entries {
		rec, err := p.loadRecord(e.Path, e.Kind)
		if err != nil {
			if p.cfg.IsStrict() {
				return fmt.Errorf("load %s: %w", e.Path, err)
			}
			p.logger.Warn("skipping resource", "path", e.Path, "error", err)
			report.Skipped = append(report.Skipped, Skipped{Path: e.Path, Err: err})
			continue
		}
		if rec.ID() != e.Key {
			p.logger.Debug("resource key differs from id", "path", e.Path, "key", e.Key, "id", rec.ID())
		}
		p.register(rec)
		report.Loaded++
	}

	report.Duplicates = p.reg.Duplicates()
	for _, kind := range resource.Kinds() {
		for _, rec := range p.reg.Records(kind) {
			for _, ref := range p.res.Dangling(rec) {
				p.logger.Warn("dangling reference", "source", ref.Source, "field", ref.Field, "target", ref.Target)
				report.Dangling = append(report.Dangling, ref)
			}
		}
	}

	if err := p.checkFolderRoots(); err != nil {
		return err
	}

	p.report = report
	p.logger.Debug("project loaded", "file", p.file, "resources", report.Loaded, "skipped", len(report.Skipped))
	return nil
}

func (p *Project) checkFolderRoots() error {
	for _, name := range p.cfg.GetRequiredRoots() {
		kind := resource.ParseKindLoose(name)
		if kind == resource.KindUnknown {
			return fmt.Errorf("unknown kind %q in load.required_roots", name)
		}
		if p.reg.Count(kind) == 0 {
			continue
		}
		if _, err := p.reg.FindFolderRoot(kind); err != nil {
			return fmt.Errorf("project has %d %s resources but no folder for them: %w",
				p.reg.Count(kind), kind.Short(), err)
		}
	}
	return nil
}

// loadRecord parses the .yy at rel as a record of kind.
func (p *Project) loadRecord(rel string, kind resource.Kind) (*resource.Record, error) {
	data, err := p.ReadFile(rel)
	if err != nil {
		return nil, err
	}
	doc, err := yy.Parse(data)
	if err != nil {
		return nil, &resource.ParseError{Path: rel, Err: err}
	}
	rec := resource.New(kind, rel)
	if err := rec.Load(doc); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Project) register(rec *resource.Record) {
	p.reg.Register(rec)
	for _, sub := range rec.SubRecords() {
		p.reg.Register(sub)
	}
}

// Reload re-reads the .yy at rel and replaces the record previously loaded from
// that file, even when the id on disk changed. An id now claimed by a record from
// another file is registered as a duplicate. A file that no longer parses leaves
// the registered record in place.
func (p *Project) Reload(rel string) (*resource.Record, error) {
	e, ok := p.EntryForPath(rel)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotInProject, rel)
	}
	rec, err := p.loadRecord(e.Path, e.Kind)
	if err != nil {
		return nil, err
	}

	old := p.recordAt(e.Path, e.Kind)
	if old != nil {
		for _, sub := range old.SubRecords() {
			p.unregister(sub)
		}
		if old.ID() != rec.ID() {
			p.logger.Info("resource id changed on disk", "path", e.Path, "old", old.ID(), "new", rec.ID())
			p.unregister(old)
		}
	}

	if current, err := p.reg.Get(rec.ID()); err == nil && current != old {
		p.reg.Register(rec)
	} else {
		p.reg.Replace(rec)
	}
	for _, sub := range rec.SubRecords() {
		p.reg.Register(sub)
	}
	p.logger.Debug("reloaded resource", "path", e.Path, "id", rec.ID())
	return rec, nil
}

// recordAt returns the registered record of kind loaded from path, if any.
func (p *Project) recordAt(path string, kind resource.Kind) *resource.Record {
	for _, rec := range p.reg.Records(kind) {
		if rec.Path() == path {
			return rec
		}
	}
	return nil
}

// unregister removes rec, leaving any other record registered under its id.
func (p *Project) unregister(rec *resource.Record) {
	if current, err := p.reg.Get(rec.ID()); err == nil && current == rec {
		p.reg.Remove(rec.ID())
	}
}

// IsMissing reports whether err means a resource file does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
