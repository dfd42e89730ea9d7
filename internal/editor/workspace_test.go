package editor

import (
	"errors"
	"testing"

	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/testutil"
)

func TestWorkspace(t *testing.T) {
	tp := buildGame(t)
	p := openGame(t, tp, nil)
	w := NewWorkspace(p)

	player, _ := p.Registry().Get("o1")
	first, err := w.Open(player)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Open(player)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("opening a record twice should return the same editor")
	}

	folder, _ := p.Registry().Get("f1")
	if ed, err := w.Open(folder); ed != nil || err != nil {
		t.Errorf("folder: got %v, %v", ed, err)
	}
	if len(w.Editors()) != 1 {
		t.Errorf("got %d editors, want 1", len(w.Editors()))
	}

	obj := first.(*ObjectEditor)
	obj.SetName("Hero")

	if err := w.Close("o1", false); !errors.Is(err, ErrDirty) {
		t.Fatalf("expected ErrDirty, got %v", err)
	}
	if len(w.DirtyEditors()) != 1 {
		t.Errorf("got %d dirty editors, want 1", len(w.DirtyEditors()))
	}

	if err := w.SaveAll(); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(w.DirtyEditors()) != 0 {
		t.Error("SaveAll should leave no dirty editors")
	}
	if err := w.Close("o1", false); err != nil {
		t.Fatalf("closing a clean editor: %v", err)
	}
	if _, ok := w.Editor("o1"); ok {
		t.Error("editor should be gone after Close")
	}

	t.Run("force discards edits", func(t *testing.T) {
		ed, _ := w.Open(player)
		ed.(*ObjectEditor).SetName("Villain")
		if err := w.CloseAll(false); !errors.Is(err, ErrDirty) {
			t.Fatalf("expected ErrDirty, got %v", err)
		}
		if err := w.CloseAll(true); err != nil {
			t.Fatal(err)
		}
		if player.Name() != "Hero" {
			t.Errorf("forced close should not save, name = %q", player.Name())
		}
		if len(w.Editors()) != 0 {
			t.Error("expected no open editors")
		}
	})
}

func TestWorkspaceRefresh(t *testing.T) {
	tp := buildGame(t)
	p := openGame(t, tp, nil)
	w := NewWorkspace(p)

	enemy, _ := p.Registry().Get("o2")
	if _, err := w.Open(enemy); err != nil {
		t.Fatal(err)
	}

	reload := func(t *testing.T, spec testutil.ObjectSpec) *resource.Record {
		t.Helper()
		tp.WriteFile("objects/Enemy/Enemy.yy", testutil.ObjectJSON(spec))
		rec, err := p.Reload("objects/Enemy/Enemy.yy")
		if err != nil {
			t.Fatalf("Reload: %v", err)
		}
		return rec
	}

	rec := reload(t, testutil.ObjectSpec{ID: "o2", Name: "Grunt", Parent: "o1"})
	if rebound, err := w.Refresh(rec); !rebound || err != nil {
		t.Fatalf("Refresh = %v, %v; want true, nil", rebound, err)
	}
	fresh, _ := w.Editor("o2")
	if fresh.Record() != rec || fresh.(*ObjectEditor).Name() != "Grunt" {
		t.Errorf("editor not rebound to the reloaded record")
	}
	if rebound, _ := w.Refresh(rec); rebound {
		t.Error("refreshing an up-to-date editor should do nothing")
	}

	t.Run("dirty editor keeps edits", func(t *testing.T) {
		ed, _ := w.Editor("o2")
		ed.(*ObjectEditor).SetName("Boss")
		rec := reload(t, testutil.ObjectSpec{ID: "o2", Name: "Minion", Parent: "o1"})
		if _, err := w.Refresh(rec); !errors.Is(err, ErrDirty) {
			t.Fatalf("expected ErrDirty, got %v", err)
		}
		if got, _ := w.Editor("o2"); got.(*ObjectEditor).Name() != "Boss" {
			t.Error("scratch name lost")
		}
		if err := w.Close("o2", true); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("id changed on disk", func(t *testing.T) {
		current, _ := p.Registry().Get("o2")
		if _, err := w.Open(current); err != nil {
			t.Fatal(err)
		}
		rec := reload(t, testutil.ObjectSpec{ID: "o7", Name: "Grunt", Parent: "o1"})
		if rebound, err := w.Refresh(rec); !rebound || err != nil {
			t.Fatalf("Refresh = %v, %v; want true, nil", rebound, err)
		}
		if _, ok := w.Editor("o2"); ok {
			t.Error("editor still listed under the old id")
		}
		if got, ok := w.Editor("o7"); !ok || got.Record() != rec {
			t.Error("editor not listed under the new id")
		}
	})
}
