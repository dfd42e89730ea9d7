package yy

import (
	"errors"
	"strings"
	"testing"
)

const sampleObject = "{\r\n    \"id\": \"a9188620-a624-4a5a-83ae-a1b53faf038b\",\r\n    \"modelName\": \"GMObject\",\r\n    \"name\": \"obj_player\",\r\n    \"eventList\": [\r\n        {\r\n            \"eventtype\": 3\r\n        }\r\n    ],\r\n    \"visible\": true\r\n}"

func TestParseRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleObject))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := string(doc.Bytes()); got != sampleObject {
		t.Errorf("unchanged document not byte-identical:\n%q\nvs\n%q", got, sampleObject)
	}

	want := []string{"id", "modelName", "name", "eventList", "visible"}
	keys := doc.Keys()
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestSetPreservesOrderAndUntouchedValues(t *testing.T) {
	doc, err := Parse([]byte(sampleObject))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := doc.Set("name", "obj_hero"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !doc.Changed() {
		t.Fatal("expected document to be changed")
	}

	out := string(doc.Bytes())
	if !strings.Contains(out, "\"name\": \"obj_hero\"") {
		t.Errorf("expected new name in output, got:\n%s", out)
	}
	if !strings.Contains(out, "\"eventList\": [\r\n        {\r\n            \"eventtype\": 3\r\n        }\r\n    ]") {
		t.Errorf("expected untouched nested value to be preserved, got:\n%s", out)
	}
	if strings.Index(out, "\"id\"") > strings.Index(out, "\"name\"") {
		t.Error("expected key order to be preserved")
	}

	reparsed, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if name, _ := reparsed.String("name"); name != "obj_hero" {
		t.Errorf("name = %q, want obj_hero", name)
	}
}

func TestSetWritesHTMLCharactersLiterally(t *testing.T) {
	doc, err := Parse([]byte(sampleObject))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := doc.Set("name", "Tom & <Jerry>"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	out := string(doc.Bytes())
	if !strings.Contains(out, "\"name\": \"Tom & <Jerry>\",\r\n") {
		t.Errorf("expected literal name, got:\n%s", out)
	}
	if strings.Contains(out, `\u0026`) {
		t.Error("HTML characters should not be escaped")
	}
}

func TestSetSameValueIsNotAChange(t *testing.T) {
	doc, err := Parse([]byte(`{"name": "a"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc.SetRaw("name", []byte(`"a"`))
	if doc.Changed() {
		t.Error("setting identical raw value should not mark the document changed")
	}
}

func TestTypedAccessors(t *testing.T) {
	doc, err := Parse([]byte(`{"name": "x", "width": 32, "solid": true, "bad": "nope"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Run("missing field", func(t *testing.T) {
		_, err := doc.String("missing")
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := doc.Int("bad")
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Key != "bad" {
			t.Errorf("FieldError.Key = %q", fe.Key)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		if got := doc.IntOr("width", 0); got != 32 {
			t.Errorf("IntOr(width) = %d", got)
		}
		if got := doc.IntOr("missing", 7); got != 7 {
			t.Errorf("IntOr(missing) = %d", got)
		}
		if !doc.BoolOr("solid", false) {
			t.Error("BoolOr(solid) = false")
		}
		if got := doc.StringOr("width", "def"); got != "def" {
			t.Errorf("StringOr(width) = %q", got)
		}
	})
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"x"`, `{"a": 1} trailing`, `{"a": }`} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestNewDocument(t *testing.T) {
	doc := New()
	if err := doc.Set("id", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := doc.Set("children", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	want := "{\r\n    \"id\": \"abc\",\r\n    \"children\": [\r\n        \"x\",\r\n        \"y\"\r\n    ]\r\n}"
	if got := string(doc.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}
