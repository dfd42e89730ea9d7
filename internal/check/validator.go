// Package check handles project-wide integrity validation.
package check

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/slugs"
)

// Issue represents a validation issue.
type Issue struct {
	Level    IssueLevel
	FilePath string
	ID       ident.ID
	Message  string
}

// IssueLevel indicates the severity of an issue.
type IssueLevel int

const (
	LevelError IssueLevel = iota
	LevelWarning
)

func (l IssueLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// Validator checks a loaded project.
type Validator struct {
	proj   *project.Project
	cycles map[string]bool
}

// NewValidator creates a validator for p.
func NewValidator(p *project.Project) *Validator {
	return &Validator{proj: p, cycles: make(map[string]bool)}
}

// Run performs every check and returns the issues found, errors first.
func (v *Validator) Run() []Issue {
	var issues []Issue
	issues = append(issues, v.skipped()...)
	issues = append(issues, v.duplicates()...)
	issues = append(issues, v.folderRoots()...)
	for _, rec := range v.proj.Records() {
		issues = append(issues, v.ValidateRecord(rec)...)
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Level < issues[j].Level })
	return issues
}

// ValidateRecord checks one record: references, parent cycles, names and
// companion files.
func (v *Validator) ValidateRecord(rec *resource.Record) []Issue {
	var issues []Issue
	issues = append(issues, v.dangling(rec)...)
	for _, sub := range rec.SubRecords() {
		issues = append(issues, v.dangling(sub)...)
	}

	if rec.Kind() != resource.KindFolder && !slugs.ValidResourceName(rec.Name()) {
		issues = append(issues, Issue{
			Level:    LevelWarning,
			FilePath: rec.Path(),
			ID:       rec.ID(),
			Message:  fmt.Sprintf("name %q is not a valid identifier", rec.Name()),
		})
	}

	switch p := rec.Payload().(type) {
	case *resource.Object:
		issues = append(issues, v.cycle(rec)...)
		for _, ev := range p.Events() {
			if !v.exists(ev.Script) {
				issues = append(issues, Issue{
					Level:    LevelWarning,
					FilePath: ev.Script,
					ID:       rec.ID(),
					Message:  fmt.Sprintf("%s: %s event has no script file", rec.Name(), ev.Label),
				})
			}
		}
	case *resource.Script:
		if !v.exists(p.Source()) {
			issues = append(issues, Issue{
				Level:    LevelWarning,
				FilePath: p.Source(),
				ID:       rec.ID(),
				Message:  fmt.Sprintf("script %s has no source file", rec.Name()),
			})
		}
	}
	return issues
}

func (v *Validator) skipped() []Issue {
	var issues []Issue
	for _, s := range v.proj.Report().Skipped {
		issues = append(issues, Issue{
			Level:    LevelError,
			FilePath: s.Path,
			Message:  fmt.Sprintf("resource not loaded: %v", s.Err),
		})
	}
	return issues
}

func (v *Validator) duplicates() []Issue {
	var issues []Issue
	for _, d := range v.proj.Registry().Duplicates() {
		issues = append(issues, Issue{
			Level:    LevelWarning,
			FilePath: d.Current.Path(),
			ID:       d.ID,
			Message:  fmt.Sprintf("duplicate id %s: %s replaces %s", d.ID, d.Current.Path(), d.Previous.Path()),
		})
	}
	return issues
}

func (v *Validator) folderRoots() []Issue {
	var issues []Issue
	reg := v.proj.Registry()
	for _, kind := range resource.Kinds() {
		if kind == resource.KindFolder || kind == resource.KindObjectInstance || reg.Count(kind) == 0 {
			continue
		}
		if _, err := reg.FindFolderRoot(kind); err != nil {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%d %s resources but no folder for them", reg.Count(kind), kind.Short()),
			})
		}
	}
	return issues
}

func (v *Validator) dangling(rec *resource.Record) []Issue {
	var issues []Issue
	for _, ref := range v.proj.Resolver().Dangling(rec) {
		issues = append(issues, Issue{
			Level:    LevelWarning,
			FilePath: rec.Path(),
			ID:       rec.ID(),
			Message:  fmt.Sprintf("%s: %s points at missing resource %s", rec.DisplayName(), ref.Field, ref.Target),
		})
	}
	return issues
}

// cycle reports a parent cycle once, from whichever member is checked first.
func (v *Validator) cycle(rec *resource.Record) []Issue {
	_, err := v.proj.Resolver().Ancestors(rec.ID())
	var cycle *resolve.CycleError
	if !errors.As(err, &cycle) {
		return nil
	}

	members := make([]string, len(cycle.Path))
	for i, id := range cycle.Path {
		members[i] = string(id)
	}
	sort.Strings(members)
	key := strings.Join(members, ",")
	if v.cycles[key] {
		return nil
	}
	v.cycles[key] = true

	return []Issue{{
		Level:    LevelError,
		FilePath: rec.Path(),
		ID:       rec.ID(),
		Message:  cycle.Error(),
	}}
}

func (v *Validator) exists(rel string) bool {
	full, err := v.proj.Abs(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Count returns the number of errors and warnings in issues.
func Count(issues []Issue) (errs, warnings int) {
	for _, i := range issues {
		if i.Level == LevelError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
