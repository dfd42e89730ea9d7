package resolve

import (
	"errors"
	"testing"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/testutil"
)

func newResolver(t *testing.T, recs ...*resource.Record) *Resolver {
	t.Helper()
	reg := registry.New(nil)
	for _, rec := range recs {
		reg.Register(rec)
	}
	return New(reg, nil)
}

func ids(in ...string) []ident.ID {
	out := make([]ident.ID, len(in))
	for i, s := range in {
		out[i] = ident.ID(s)
	}
	return out
}

func equalIDs(a, b []ident.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	r := newResolver(t,
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Player", Sprite: "s1"}),
		testutil.SpriteRecord(t, "s1", "spr_player"),
	)

	t.Run("null ids resolve to nothing", func(t *testing.T) {
		for _, id := range []ident.ID{"", ident.Null, "  "} {
			if rec := r.Resolve(id); rec != nil {
				t.Errorf("Resolve(%q) = %v, want nil", id, rec.Name())
			}
		}
	})

	t.Run("present id", func(t *testing.T) {
		rec := r.Resolve("o1")
		if rec == nil || rec.Name() != "Player" {
			t.Fatalf("Resolve(o1) = %v", rec)
		}
	})

	t.Run("dangling id", func(t *testing.T) {
		if rec := r.Resolve("missing"); rec != nil {
			t.Errorf("expected nil for dangling id, got %s", rec.Name())
		}
	})

	t.Run("typed helpers check kind", func(t *testing.T) {
		if r.Sprite("s1") == nil {
			t.Error("Sprite(s1) = nil")
		}
		if r.Object("s1") != nil {
			t.Error("Object(s1) should be nil for a sprite")
		}
	})

	t.Run("not cached", func(t *testing.T) {
		replacement := testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Hero"})
		r.Registry().Replace(replacement)
		if got := r.Resolve("o1").Name(); got != "Hero" {
			t.Errorf("got %q, want %q", got, "Hero")
		}
	})
}

func TestParentChain(t *testing.T) {
	r := newResolver(t,
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Player"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o2", Name: "Enemy", Parent: "o1"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o3", Name: "Boss", Parent: "o2"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o4", Name: "Minion", Parent: "o2"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o5", Name: "Orphan", Parent: "gone"}),
	)

	tests := []struct {
		name string
		run  func() ([]ident.ID, error)
		want []ident.ID
	}{
		{"ancestors of leaf", func() ([]ident.ID, error) { return r.Ancestors("o3") }, ids("o2", "o1")},
		{"ancestors of root", func() ([]ident.ID, error) { return r.Ancestors("o1") }, ids()},
		{"ancestors stop at dangling parent", func() ([]ident.ID, error) { return r.Ancestors("o5") }, ids()},
		{"descendants of root", func() ([]ident.ID, error) { return r.Descendants("o1") }, ids("o2", "o3", "o4")},
		{"descendants of leaf", func() ([]ident.ID, error) { return r.Descendants("o4") }, ids()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("children in registration order", func(t *testing.T) {
		if got := r.Children("o2"); !equalIDs(got, ids("o3", "o4")) {
			t.Errorf("got %v, want [o3 o4]", got)
		}
		if got := r.Children(""); len(got) != 0 {
			t.Errorf("children of null id = %v", got)
		}
	})

	t.Run("non-object", func(t *testing.T) {
		r.Registry().Register(testutil.SpriteRecord(t, "s1", "spr"))
		if _, err := r.Ancestors("s1"); !errors.Is(err, registry.ErrWrongKind) {
			t.Errorf("expected ErrWrongKind, got %v", err)
		}
		if _, err := r.Descendants("missing"); !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCycleDetection(t *testing.T) {
	r := newResolver(t,
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "a", Name: "A", Parent: "b"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "b", Name: "B", Parent: "a"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "c", Name: "C", Parent: "b"}),
	)

	t.Run("ancestors", func(t *testing.T) {
		chain, err := r.Ancestors("a")
		var cycle *CycleError
		if !errors.As(err, &cycle) {
			t.Fatalf("expected CycleError, got %v", err)
		}
		if cycle.Start != "a" {
			t.Errorf("cycle start = %q, want %q", cycle.Start, "a")
		}
		if !equalIDs(chain, ids("b")) {
			t.Errorf("partial chain = %v, want [b]", chain)
		}
	})

	t.Run("ancestors entering a cycle from outside", func(t *testing.T) {
		_, err := r.Ancestors("c")
		var cycle *CycleError
		if !errors.As(err, &cycle) {
			t.Fatalf("expected CycleError, got %v", err)
		}
		if !equalIDs(cycle.Path, ids("b", "a")) {
			t.Errorf("cycle path = %v, want [b a]", cycle.Path)
		}
	})

	t.Run("descendants", func(t *testing.T) {
		_, err := r.Descendants("a")
		var cycle *CycleError
		if !errors.As(err, &cycle) {
			t.Fatalf("expected CycleError, got %v", err)
		}
	})

	t.Run("self parent", func(t *testing.T) {
		self := newResolver(t, testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "s", Name: "S", Parent: "s"}))
		if _, err := self.Ancestors("s"); err == nil {
			t.Error("expected cycle error for self parent")
		}
		if _, err := self.Descendants("s"); err == nil {
			t.Error("expected cycle error for self parent")
		}
	})
}

func TestCheckParent(t *testing.T) {
	r := newResolver(t,
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Player"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o2", Name: "Enemy", Parent: "o1"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o3", Name: "Boss", Parent: "o2"}),
		testutil.SpriteRecord(t, "s1", "spr"),
	)

	tests := []struct {
		name      string
		child     ident.ID
		parent    ident.ID
		wantCycle bool
		wantErr   error
	}{
		{name: "clear parent", child: "o2", parent: ""},
		{name: "null uuid parent", child: "o2", parent: ident.Null},
		{name: "unrelated parent", child: "o1", parent: "o1x", wantErr: registry.ErrNotFound},
		{name: "sibling parent", child: "o3", parent: "o1"},
		{name: "self", child: "o1", parent: "o1", wantCycle: true},
		{name: "descendant as parent", child: "o1", parent: "o3", wantCycle: true},
		{name: "sprite as parent", child: "o1", parent: "s1", wantErr: registry.ErrWrongKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.CheckParent(tt.child, tt.parent)
			var cycle *CycleError
			switch {
			case tt.wantCycle:
				if !errors.As(err, &cycle) {
					t.Errorf("expected CycleError, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestSelectable(t *testing.T) {
	r := newResolver(t,
		testutil.FolderRecord(t, "f1", "objects", resource.KindObject, "o1", "f2", "o2"),
		testutil.FolderRecord(t, "f2", "enemies", resource.KindObject, "o3"),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Player"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o2", Name: "Enemy", Parent: "o1"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o3", Name: "Boss", Parent: "o2"}),
	)

	t.Run("everything in folder order", func(t *testing.T) {
		got, err := r.Selectable(resource.KindObject, "")
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(got, ids("o1", "o3", "o2")) {
			t.Errorf("got %v, want [o1 o3 o2]", got)
		}
	})

	t.Run("excludes self and descendants", func(t *testing.T) {
		got, err := r.Selectable(resource.KindObject, "o2")
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(got, ids("o1")) {
			t.Errorf("got %v, want [o1]", got)
		}
	})

	t.Run("missing folder root", func(t *testing.T) {
		if _, err := r.Selectable(resource.KindSprite, ""); !errors.Is(err, registry.ErrNoFolderRoot) {
			t.Errorf("expected ErrNoFolderRoot, got %v", err)
		}
	})
}

func TestLookup(t *testing.T) {
	r := newResolver(t,
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o1", Name: "Player"}),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o2", Name: "Enemy"}),
		testutil.SpriteRecord(t, "s1", "Enemy"),
		testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o3", Name: "Big_Boss"}),
		testutil.FolderRecord(t, "f1", "objects", resource.KindObject),
	)

	tests := []struct {
		ref     string
		want    ident.ID
		wantErr error
	}{
		{ref: "o1", want: "o1"},
		{ref: "Player", want: "o1"},
		{ref: "player", want: "o1"},
		{ref: "objects", want: "f1"},
		{ref: "big boss", want: "o3"},
		{ref: "Enemy", wantErr: ErrAmbiguous},
		{ref: "Nobody", wantErr: registry.ErrNotFound},
		{ref: "", wantErr: registry.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			rec, err := r.Lookup(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.ID() != tt.want {
				t.Errorf("got %q, want %q", rec.ID(), tt.want)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	obj := testutil.ObjectRecord(t, testutil.ObjectSpec{ID: "o2", Name: "Enemy", Parent: "o1", Sprite: "s1"})
	r := newResolver(t, obj, testutil.SpriteRecord(t, "s1", "spr"))

	refs := References(obj)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %+v", len(refs), refs)
	}
	if refs[0].Field != "parentObjectId" || refs[0].Target != "o1" {
		t.Errorf("refs[0] = %+v", refs[0])
	}

	dangling := r.Dangling(obj)
	if len(dangling) != 1 || dangling[0].Target != "o1" {
		t.Errorf("dangling = %+v, want parent o1", dangling)
	}
}
