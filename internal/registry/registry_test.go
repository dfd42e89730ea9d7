package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/yy"
)

func record(t *testing.T, kind resource.Kind, id, name, extra string) *resource.Record {
	t.Helper()
	content := fmt.Sprintf(`{"id": %q, "modelName": %q, "name": %q%s}`, id, kind.String(), name, extra)
	doc, err := yy.Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rec := resource.New(kind, name+"/"+name+".yy")
	if err := rec.Load(doc); err != nil {
		t.Fatalf("load: %v", err)
	}
	return rec
}

func TestRegisterAndGet(t *testing.T) {
	reg := New(nil)
	player := record(t, resource.KindObject, "o1", "Player", "")

	if !reg.Register(player) {
		t.Fatal("first registration reported a duplicate")
	}

	got, err := reg.Get("o1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != player {
		t.Error("Get returned a different record")
	}

	t.Run("absent id", func(t *testing.T) {
		_, err := reg.Get("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("null ids", func(t *testing.T) {
		for _, id := range []ident.ID{"", ident.Null} {
			if _, err := reg.Get(id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(%q): expected ErrNotFound, got %v", id, err)
			}
		}
	})
}

func TestDuplicateLastWriteWins(t *testing.T) {
	reg := New(nil)
	first := record(t, resource.KindObject, "o1", "Player", "")
	second := record(t, resource.KindObject, "o1", "PlayerCopy", "")
	other := record(t, resource.KindObject, "o2", "Enemy", "")

	reg.Register(first)
	reg.Register(other)
	if reg.Register(second) {
		t.Error("expected duplicate registration to report false")
	}

	got, _ := reg.Get("o1")
	if got != second {
		t.Error("expected last registration to win")
	}
	if ids := reg.FindAll(resource.KindObject); len(ids) != 2 || ids[0] != "o1" || ids[1] != "o2" {
		t.Errorf("FindAll after duplicate = %v", ids)
	}

	dups := reg.Duplicates()
	if len(dups) != 1 || dups[0].Previous != first || dups[0].Current != second {
		t.Errorf("Duplicates = %+v", dups)
	}

	t.Run("kind change moves the id", func(t *testing.T) {
		sprite := record(t, resource.KindSprite, "o2", "spr", "")
		reg.Register(sprite)
		if ids := reg.FindAll(resource.KindObject); len(ids) != 1 || ids[0] != "o1" {
			t.Errorf("objects = %v", ids)
		}
		if ids := reg.FindAll(resource.KindSprite); len(ids) != 1 || ids[0] != "o2" {
			t.Errorf("sprites = %v", ids)
		}
	})
}

func TestFindAll(t *testing.T) {
	reg := New(nil)
	reg.Register(record(t, resource.KindObject, "o1", "A", ""))
	reg.Register(record(t, resource.KindSprite, "s1", "S", ""))
	reg.Register(record(t, resource.KindObject, "o2", "B", ""))
	reg.Register(record(t, resource.KindObject, "o3", "C", ""))

	tests := []struct {
		kind resource.Kind
		want []ident.ID
	}{
		{resource.KindObject, []ident.ID{"o1", "o2", "o3"}},
		{resource.KindSprite, []ident.ID{"s1"}},
		{resource.KindRoom, []ident.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := reg.FindAll(tt.kind)
			if got == nil {
				t.Fatal("FindAll returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FindAll = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FindAll[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}

	if reg.Count(resource.KindObject) != 3 || reg.Len() != 4 {
		t.Errorf("Count/Len = %d/%d", reg.Count(resource.KindObject), reg.Len())
	}
}

func TestGetAs(t *testing.T) {
	reg := New(nil)
	reg.Register(record(t, resource.KindObject, "o1", "A", ""))
	reg.Register(record(t, resource.KindSprite, "s1", "S", ""))

	obj, err := GetAs[*resource.Object](reg, "o1")
	if err != nil || obj == nil {
		t.Fatalf("GetAs object: %v", err)
	}

	if _, err := GetAs[*resource.Object](reg, "s1"); !errors.Is(err, ErrWrongKind) {
		t.Errorf("expected ErrWrongKind, got %v", err)
	}
	if _, err := GetAs[*resource.Sprite](reg, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindFolderRoot(t *testing.T) {
	reg := New(nil)

	if _, err := reg.FindFolderRoot(resource.KindObject); !errors.Is(err, ErrNoFolderRoot) {
		t.Errorf("expected ErrNoFolderRoot, got %v", err)
	}

	inner := record(t, resource.KindFolder, "f2", "f2", `, "filterType": "GMObject", "folderName": "enemies", "children": ["o2"]`)
	outer := record(t, resource.KindFolder, "f1", "f1", `, "filterType": "GMObject", "folderName": "objects", "children": ["o1", "f2"]`)
	sprites := record(t, resource.KindFolder, "f3", "f3", `, "filterType": "GMSprite", "folderName": "sprites", "children": []`)
	reg.Register(inner)
	reg.Register(outer)
	reg.Register(sprites)

	root, err := reg.FindFolderRoot(resource.KindObject)
	if err != nil {
		t.Fatalf("FindFolderRoot: %v", err)
	}
	if root != outer {
		t.Errorf("expected outer folder, got %s", root.DisplayName())
	}

	root, err = reg.FindFolderRoot(resource.KindSprite)
	if err != nil || root != sprites {
		t.Errorf("sprite root = %v, %v", root, err)
	}
}

func TestFindByNameAndClear(t *testing.T) {
	reg := New(nil)
	reg.Register(record(t, resource.KindObject, "o1", "Player", ""))
	reg.Register(record(t, resource.KindScript, "s1", "Player", ""))

	if got := reg.FindByName(resource.KindObject, "Player"); len(got) != 1 || got[0].ID() != "o1" {
		t.Errorf("FindByName(object) = %v", got)
	}
	if got := reg.FindByName(resource.KindUnknown, "Player"); len(got) != 2 {
		t.Errorf("FindByName(any) returned %d records", len(got))
	}

	reg.Clear()
	if reg.Len() != 0 || len(reg.FindAll(resource.KindObject)) != 0 {
		t.Error("expected empty registry after Clear")
	}
}
