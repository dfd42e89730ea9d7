package resource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/gmedit/internal/events"
	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/yy"
)

const objectYY = `{
    "id": "11111111-1111-1111-1111-111111111111",
    "modelName": "GMObject",
    "mvc": "1.0",
    "name": "obj_enemy",
    "eventList": [
        {
            "id": "aaaaaaaa-0000-0000-0000-000000000001",
            "modelName": "GMEvent",
            "IsDnD": false,
            "collisionObjectId": "00000000-0000-0000-0000-000000000000",
            "enumb": 0,
            "eventtype": 3,
            "m_owner": "11111111-1111-1111-1111-111111111111"
        },
        {
            "id": "aaaaaaaa-0000-0000-0000-000000000002",
            "modelName": "GMEvent",
            "IsDnD": false,
            "collisionObjectId": "00000000-0000-0000-0000-000000000000",
            "enumb": 0,
            "eventtype": 0,
            "m_owner": "11111111-1111-1111-1111-111111111111"
        }
    ],
    "maskSpriteId": "00000000-0000-0000-0000-000000000000",
    "parentObjectId": "22222222-2222-2222-2222-222222222222",
    "persistent": false,
    "solid": true,
    "spriteId": "33333333-3333-3333-3333-333333333333",
    "visible": true
}`

func loadRecord(t *testing.T, kind Kind, relPath, content string) *Record {
	t.Helper()
	doc, err := yy.Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse %s: %v", relPath, err)
	}
	r := New(kind, relPath)
	if err := r.Load(doc); err != nil {
		t.Fatalf("load %s: %v", relPath, err)
	}
	return r
}

func TestLoadObject(t *testing.T) {
	r := loadRecord(t, KindObject, "objects/obj_enemy/obj_enemy.yy", objectYY)

	if r.ID() != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("ID = %q", r.ID())
	}
	if r.Name() != "obj_enemy" {
		t.Errorf("Name = %q", r.Name())
	}
	if r.Dir() != "objects/obj_enemy" {
		t.Errorf("Dir = %q", r.Dir())
	}

	obj, ok := r.Object()
	if !ok {
		t.Fatal("expected object payload")
	}
	if obj.Parent() != "22222222-2222-2222-2222-222222222222" {
		t.Errorf("Parent = %q", obj.Parent())
	}
	if obj.Mask() != "" {
		t.Errorf("null mask should load as unset, got %q", obj.Mask())
	}
	if !obj.Solid() {
		t.Error("expected solid")
	}

	evs := obj.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != events.Step || evs[0].Label != "Step" {
		t.Errorf("first event = %+v", evs[0])
	}
	if evs[0].Script != "objects/obj_enemy/Step_0.gml" {
		t.Errorf("first event script = %q", evs[0].Script)
	}
	if evs[1].Script != "objects/obj_enemy/Create_0.gml" {
		t.Errorf("second event script = %q", evs[1].Script)
	}

	if i, ok := obj.FindEvent(events.Create, 0); !ok || i != 1 {
		t.Errorf("FindEvent(Create, 0) = %d, %v", i, ok)
	}
	if r.Modified() {
		t.Error("freshly loaded record should not be modified")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		content string
		field   string
	}{
		{"missing id", KindObject, `{"name": "x"}`, "id"},
		{"null id", KindObject, `{"id": "00000000-0000-0000-0000-000000000000", "name": "Ghost"}`, "id"},
		{"empty id", KindScript, `{"id": "", "name": "scr_a"}`, "id"},
		{"missing name", KindObject, `{"id": "o1"}`, "name"},
		{"name wrong type", KindScript, `{"id": "o1", "name": 4}`, "name"},
		{"kind mismatch", KindObject, `{"id": "o1", "name": "x", "modelName": "GMSprite"}`, "modelName"},
		{"bad parent", KindObject, `{"id": "o1", "name": "x", "parentObjectId": 12}`, "parentObjectId"},
		{"bad events", KindObject, `{"id": "o1", "name": "x", "eventList": {}}`, "eventList"},
		{"bad folder children", KindFolder, `{"id": "f1", "name": "f", "children": "x"}`, "children"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := yy.Parse([]byte(tt.content))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			r := New(tt.kind, "x/x.yy")
			err = r.Load(doc)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Field != tt.field {
				t.Errorf("ParseError.Field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	r := loadRecord(t, KindScript, "scripts/scr_a/scr_a.yy", `{"id": "s1", "name": "scr_a", "futureField": {"a": [1, 2]}}`)
	if r.Name() != "scr_a" {
		t.Errorf("Name = %q", r.Name())
	}
	s := r.Payload().(*Script)
	if s.Source() != "scripts/scr_a/scr_a.gml" {
		t.Errorf("Source = %q", s.Source())
	}
}

func TestSaveWritesOnlyWhenModified(t *testing.T) {
	root := t.TempDir()
	rel := "objects/obj_enemy/obj_enemy.yy"
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(objectYY), 0o644); err != nil {
		t.Fatal(err)
	}

	r := loadRecord(t, KindObject, rel, objectYY)

	t.Run("unmodified save is byte-identical", func(t *testing.T) {
		if err := r.Save(root); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, _ := os.ReadFile(full)
		if string(got) != objectYY {
			t.Errorf("file changed by no-op save:\n%s", got)
		}
	})

	t.Run("setters are persisted", func(t *testing.T) {
		obj, _ := r.Object()
		obj.SetParent("")
		obj.SetMask("44444444-4444-4444-4444-444444444444")
		r.SetName("obj_boss")
		if !r.Modified() {
			t.Fatal("expected record to be modified")
		}
		if err := r.Save(root); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if r.Modified() {
			t.Error("expected record to be clean after save")
		}

		got, _ := os.ReadFile(full)
		out := string(got)
		for _, want := range []string{
			`"name": "obj_boss"`,
			`"parentObjectId": "00000000-0000-0000-0000-000000000000"`,
			`"maskSpriteId": "44444444-4444-4444-4444-444444444444"`,
			`"spriteId": "33333333-3333-3333-3333-333333333333"`,
			`"m_owner": "11111111-1111-1111-1111-111111111111"`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("saved file missing %s:\n%s", want, out)
			}
		}

		reloaded := loadRecord(t, KindObject, rel, out)
		robj, _ := reloaded.Object()
		if robj.Parent() != "" || robj.Mask() != "44444444-4444-4444-4444-444444444444" {
			t.Errorf("reloaded refs parent=%q mask=%q", robj.Parent(), robj.Mask())
		}
	})
}

func TestInstanceNotSavable(t *testing.T) {
	r := New(KindObjectInstance, "rooms/r/r.yy")
	if err := r.Save(t.TempDir()); !errors.Is(err, ErrNotSavable) {
		t.Errorf("expected ErrNotSavable, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	r := Create(KindObject, "objects/obj_new/obj_new.yy", "obj_new")
	if !ident.Valid(r.ID()) {
		t.Errorf("expected generated id, got %q", r.ID())
	}
	root := t.TempDir()
	if err := r.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "objects/obj_new/obj_new.yy"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back := loadRecord(t, KindObject, "objects/obj_new/obj_new.yy", string(data))
	if back.ID() != r.ID() || back.Name() != "obj_new" {
		t.Errorf("round trip = %q %q", back.ID(), back.Name())
	}
}
