// Package project opens a project directory: it reads the .yyp resource list,
// loads every .yy into a registry and owns that registry for the session.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/gmedit/internal/atomicfile"
	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/logging"
	"github.com/aidanlsb/gmedit/internal/paths"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/yy"
)

var (
	// ErrNoProjectFile indicates no .yyp was found where one was expected.
	ErrNoProjectFile = errors.New("no .yyp project file found")
	// ErrMultipleProjectFiles indicates a directory holds more than one .yyp.
	ErrMultipleProjectFiles = errors.New("multiple .yyp project files found")
	// ErrNotInProject indicates a path is not listed in the project's resources.
	ErrNotInProject = errors.New("path is not a project resource")
)

// Entry is one element of the .yyp resources list.
type Entry struct {
	Key  ident.ID
	Path string // project-relative, slash separated
	Kind resource.Kind
}

type yypEntry struct {
	Key   string   `json:"Key"`
	Value yypValue `json:"Value"`
}

type yypValue struct {
	ID           string `json:"id"`
	ResourcePath string `json:"resourcePath"`
	ResourceType string `json:"resourceType"`
}

// Options configures Open.
type Options struct {
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
	// Config overrides gmedit.yaml. Nil loads it from the project root.
	Config *config.ProjectConfig
}

// Project is an open project session.
type Project struct {
	root    string
	file    string
	doc     *yy.Document
	entries []Entry
	cfg     *config.ProjectConfig
	reg     *registry.Registry
	res     *resolve.Resolver
	logger  *slog.Logger
	report  *LoadReport
}

// Find locates the .yyp for path: path itself when it names a .yyp, otherwise the
// single .yyp inside the directory path.
func Find(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		if !paths.IsProjectFile(abs) {
			return "", fmt.Errorf("%w: %s is not a .yyp", ErrNoProjectFile, path)
		}
		return abs, nil
	}

	matches, err := filepath.Glob(filepath.Join(abs, "*.yyp"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoProjectFile, abs)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m)
		}
		return "", fmt.Errorf("%w in %s: %s", ErrMultipleProjectFiles, abs, strings.Join(names, ", "))
	}
}

// Open reads the project at path (a directory or a .yyp) and loads every resource.
func Open(path string, opts Options) (*Project, error) {
	file, err := Find(path)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(file)

	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.LoadProjectConfig(root)
		if err != nil {
			return nil, err
		}
	}

	logger := logging.OrDiscard(opts.Logger)
	reg := registry.New(logger)
	p := &Project{
		root:   root,
		file:   file,
		cfg:    cfg,
		reg:    reg,
		res:    resolve.New(reg, logger),
		logger: logger,
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) readEntries() error {
	data, err := os.ReadFile(p.file)
	if err != nil {
		return fmt.Errorf("read project file: %w", err)
	}
	doc, err := yy.Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(p.file), err)
	}

	var raw []yypEntry
	if doc.Has("resources") {
		if err := doc.Decode("resources", &raw); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(p.file), err)
		}
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, Entry{
			Key:  ident.ID(e.Key),
			Path: paths.Normalize(e.Value.ResourcePath),
			Kind: resource.ParseKind(e.Value.ResourceType),
		})
	}
	p.doc = doc
	p.entries = entries
	return nil
}

// Root returns the absolute project directory.
func (p *Project) Root() string { return p.root }

// File returns the absolute path of the .yyp.
func (p *Project) File() string { return p.file }

// Name returns the project name (the .yyp base name).
func (p *Project) Name() string {
	return strings.TrimSuffix(filepath.Base(p.file), filepath.Ext(p.file))
}

// Config returns the project settings.
func (p *Project) Config() *config.ProjectConfig { return p.cfg }

// Registry returns the session's registry.
func (p *Project) Registry() *registry.Registry { return p.reg }

// Resolver returns a resolver over the session's registry.
func (p *Project) Resolver() *resolve.Resolver { return p.res }

// Logger returns the session logger.
func (p *Project) Logger() *slog.Logger { return p.logger }

// Records returns every registered top-level record, grouped by kind in
// registration order. Room instances are reachable through their room.
func (p *Project) Records() []*resource.Record {
	var out []*resource.Record
	for _, kind := range resource.Kinds() {
		if kind == resource.KindObjectInstance {
			continue
		}
		out = append(out, p.reg.Records(kind)...)
	}
	return out
}

// Report returns what happened during the last load.
func (p *Project) Report() *LoadReport { return p.report }

// Entries returns the .yyp resource list in file order.
func (p *Project) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// EntryForPath returns the resource entry whose .yy is rel.
func (p *Project) EntryForPath(rel string) (Entry, bool) {
	rel = paths.Normalize(rel)
	for _, e := range p.entries {
		if strings.EqualFold(e.Path, rel) {
			return e, true
		}
	}
	return Entry{}, false
}

// Abs returns the absolute path of a project-relative path.
func (p *Project) Abs(rel string) (string, error) {
	return paths.Abs(p.root, rel)
}

// ReadFile reads a project-relative file.
func (p *Project) ReadFile(rel string) ([]byte, error) {
	abs, err := p.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// WriteFile atomically writes a project-relative file, creating directories.
func (p *Project) WriteFile(rel string, data []byte) error {
	abs, err := p.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := atomicfile.WriteFile(abs, data, 0); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// RenameFile moves a project-relative file with a single rename.
func (p *Project) RenameFile(from, to string) error {
	src, err := p.Abs(from)
	if err != nil {
		return err
	}
	dst, err := p.Abs(to)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", to, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %s: %w", from, err)
	}
	return nil
}

// Close releases the session. The registry is emptied.
func (p *Project) Close() {
	p.reg.Clear()
}
