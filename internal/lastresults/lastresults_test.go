package lastresults

import (
	"errors"
	"os"
	"testing"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	lr := New(SourceChildren, "obj_enemy", []Entry{
		{ID: "o2", Kind: "object", Name: "obj_grunt"},
		{ID: "o3", Kind: "object", Name: "obj_boss"},
	})
	if err := Write(tmpDir, lr); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	readBack, err := Read(tmpDir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if readBack.Source != SourceChildren || readBack.Target != "obj_enemy" {
		t.Errorf("got source %q target %q", readBack.Source, readBack.Target)
	}
	if len(readBack.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(readBack.Results))
	}

	entry, err := readBack.Get(2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	if entry.Name != "obj_boss" {
		t.Errorf("got %q, want %q", entry.Name, "obj_boss")
	}

	for _, n := range []int{0, 3} {
		if _, err := readBack.Get(n); !errors.Is(err, ErrNumberOutOfRange) {
			t.Errorf("Get(%d): got %v, want ErrNumberOutOfRange", n, err)
		}
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); !errors.Is(err, ErrNoLastResults) {
		t.Errorf("got %v, want ErrNoLastResults", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, New(SourceList, "", nil)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"obj_player", 0, false},
		{"3a", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
