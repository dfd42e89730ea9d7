package cli

import (
	"fmt"
	"os"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/index"
	"github.com/aidanlsb/gmedit/internal/lastresults"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// ResourceJSON is the JSON representation of a resource in listings.
type ResourceJSON struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

func resourceJSON(rec *resource.Record) ResourceJSON {
	return ResourceJSON{
		ID:   string(rec.ID()),
		Kind: rec.Kind().Short(),
		Name: rec.DisplayName(),
		Path: rec.Path(),
	}
}

// openProject loads the resolved project. Load problems that did not stop the
// load come back as warnings.
func openProject() (*project.Project, []Warning, error) {
	proj, err := project.Open(resolvedProjectPath, project.Options{Logger: logger})
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	report := proj.Report()
	for _, s := range report.Skipped {
		warnings = append(warnings, Warning{
			Code:    "RESOURCE_SKIPPED",
			Message: s.Err.Error(),
			Ref:     s.Path,
		})
	}
	for _, d := range report.Duplicates {
		warnings = append(warnings, Warning{
			Code:    "DUPLICATE_ID",
			Message: fmt.Sprintf("%s is registered by %s and %s", d.ID, d.Previous.Path(), d.Current.Path()),
			Ref:     string(d.ID),
		})
	}
	for _, ref := range report.Dangling {
		warnings = append(warnings, Warning{
			Code:    "DANGLING_REF",
			Message: fmt.Sprintf("%s of %s points at missing %s", ref.Field, ref.Source, ref.Target),
			Ref:     string(ref.Source),
		})
	}
	return proj, warnings, nil
}

// lookup resolves a command-line reference: an id, a resource name, or the
// number of a row printed by the last listing command.
func lookup(proj *project.Project, ref string) (*resource.Record, error) {
	rec, err := proj.Resolver().Lookup(ref)
	if err == nil {
		return rec, nil
	}
	num, ok := lastresults.ParseNumber(ref)
	if !ok {
		return nil, err
	}
	lr, lrErr := lastresults.Read(proj.Root())
	if lrErr != nil {
		return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, lrErr)
	}
	entry, lrErr := lr.Get(num)
	if lrErr != nil {
		return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, lrErr)
	}
	return proj.Registry().Get(ident.ID(entry.ID))
}

// saveLastResults remembers listed rows for numbered references. Failing to
// save only loses that convenience.
func saveLastResults(proj *project.Project, source lastresults.Source, target string, items []ResourceJSON) {
	entries := make([]lastresults.Entry, len(items))
	for i, item := range items {
		entries[i] = lastresults.Entry{ID: item.ID, Kind: item.Kind, Name: item.Name}
	}
	if err := lastresults.Write(proj.Root(), lastresults.New(source, target, entries)); err != nil {
		logger.Debug("failed to save last results", "error", err)
	}
}

// lookupObject resolves ref and requires an object.
func lookupObject(proj *project.Project, ref string) (*resource.Record, *resource.Object, error) {
	rec, err := lookup(proj, ref)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := rec.Object()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is a %s, not an object", registry.ErrWrongKind, rec.DisplayName(), rec.Kind().Short())
	}
	return rec, obj, nil
}

// lookupOptional resolves ref, accepting "none" or the null id to clear a field.
func lookupOptional(proj *project.Project, ref string) (ident.ID, error) {
	if ref == "none" || ref == "" || ident.IsNull(ident.ID(ref)) {
		return "", nil
	}
	rec, err := lookup(proj, ref)
	if err != nil {
		return "", err
	}
	return rec.ID(), nil
}

// openIndex opens the project index, rebuilding it when it is new, was reset
// for a schema change, or is stale and auto_reindex is on.
func openIndex(proj *project.Project) (*index.Database, []Warning, error) {
	db, wasReset, err := index.OpenWithRebuild(proj.Root())
	if err != nil {
		return nil, nil, err
	}

	stats, err := db.Stats()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if wasReset || stats.ResourceCount == 0 {
		if _, err := db.Rebuild(proj); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, nil, nil
	}

	staleness, err := db.CheckStaleness(proj.Root())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if !staleness.IsStale {
		return db, nil, nil
	}
	if proj.Config().IsAutoReindexEnabled() {
		logger.Debug("index is stale, rebuilding", "files", len(staleness.StaleFiles))
		if _, err := db.Rebuild(proj); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, nil, nil
	}
	return db, []Warning{{
		Code:    "INDEX_STALE",
		Message: fmt.Sprintf("%d indexed files changed since the last reindex; run 'gme reindex'", len(staleness.StaleFiles)),
	}}, nil
}

// indexRecord reindexes rec with its file's current modification time.
func indexRecord(db *index.Database, proj *project.Project, rec *resource.Record) error {
	abs, err := proj.Abs(rec.Path())
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	return db.IndexRecord(rec, info.ModTime().Unix())
}

// describeIDs resolves ids for listing. Unresolvable ids are shown by id alone.
func describeIDs(proj *project.Project, ids []ident.ID) []ResourceJSON {
	out := make([]ResourceJSON, 0, len(ids))
	for _, id := range ids {
		if rec := proj.Resolver().Resolve(id); rec != nil {
			out = append(out, resourceJSON(rec))
			continue
		}
		out = append(out, ResourceJSON{ID: string(id), Kind: resource.KindUnknown.Short()})
	}
	return out
}

// refreshIndex reindexes records after an edit, when the project has an index.
// Modification times have one second resolution, so an edit made within the
// second of the last rebuild would otherwise look fresh.
func refreshIndex(proj *project.Project, recs ...*resource.Record) {
	if _, err := os.Stat(index.Path(proj.Root())); err != nil {
		return
	}
	db, err := index.Open(proj.Root())
	if err != nil {
		logger.Warn("failed to open index", "error", err)
		return
	}
	defer db.Close()
	for _, rec := range recs {
		if err := indexRecord(db, proj, rec); err != nil {
			logger.Warn("failed to reindex resource", "name", rec.DisplayName(), "error", err)
		}
	}
}
