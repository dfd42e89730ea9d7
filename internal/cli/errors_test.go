package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/editor"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("lookup: %w", registry.ErrNotFound), ErrRefNotFound},
		{"ambiguous", fmt.Errorf("%w: two", resolve.ErrAmbiguous), ErrRefAmbiguous},
		{"wrong kind", registry.ErrWrongKind, ErrWrongKind},
		{"cycle", fmt.Errorf("set parent: %w", &resolve.CycleError{Start: "a", Path: []ident.ID{"a", "b"}}), ErrParentCycle},
		{"parse", &resource.ParseError{Path: "objects/x/x.yy", Err: errors.New("bad")}, ErrParseError},
		{"no project", fmt.Errorf("%w in /tmp", project.ErrNoProjectFile), ErrProjectNotFound},
		{"unknown project", fmt.Errorf("%w: shmup", config.ErrUnknownProject), ErrProjectNotFound},
		{"no default", config.ErrNoDefaultProject, ErrProjectNotSpecified},
		{"exists", project.ErrExists, ErrResourceExists},
		{"name taken", fmt.Errorf("%w: scripts/a/b.gml", editor.ErrNameTaken), ErrResourceExists},
		{"unsupported", editor.ErrUnsupportedKind, ErrUnsupportedKind},
		{"no event", editor.ErrNoSuchEvent, ErrEventNotFound},
		{"missing file", fmt.Errorf("read: %w", fs.ErrNotExist), ErrFileNotFound},
		{"other", errors.New("boom"), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "devel"},
		{"(devel)", "devel"},
		{"v0.3.1", "v0.3.1"},
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.in); got != tt.want {
			t.Errorf("normalizeVersion(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadYes(t *testing.T) {
	tests := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" yes ": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"yep\n": false,
	}
	for in, want := range tests {
		if got := readYes(strings.NewReader(in)); got != want {
			t.Errorf("readYes(%q) = %v, want %v", in, got, want)
		}
	}
}
