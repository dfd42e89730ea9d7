package events

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		typ    Type
		number int
		want   string
	}{
		{Create, 0, "Create"},
		{Step, 0, "Step"},
		{Step, 2, "End Step"},
		{Alarm, 3, "Alarm 3"},
		{Keyboard, 65, "Keyboard - 65"},
		{KeyRelease, 32, "Key Release - 32"},
		{Other, 10, "User Event 0"},
		{Draw, 64, "Draw GUI"},
		{Async, 0, "Async - Trigger"},
		{Gesture, 1, "Double tap"},
		{Gesture, 65, "Global Double tap"},
		{Step, 9, "Invalid 3 9"},
		{Type(42), 0, "Invalid 42 0"},
		{Type(-1), 0, "Invalid -1 0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Name(tt.typ, tt.number); got != tt.want {
				t.Errorf("Name(%d, %d) = %q, want %q", tt.typ, tt.number, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		typ    Type
		number int
		want   string
	}{
		{Create, 0, "Create_0"},
		{Step, 1, "Step_1"},
		{Async, 0, "Trigger_0"},
		{KeyPress, 13, "KeyPress_13"},
		{Type(99), 2, "invalid_99_2"},
	}

	for _, tt := range tests {
		if got := FileName(tt.typ, tt.number); got != tt.want {
			t.Errorf("FileName(%d, %d) = %q, want %q", tt.typ, tt.number, got, tt.want)
		}
	}
}

func TestScriptPath(t *testing.T) {
	got := ScriptPath("objects/obj_player", Step, 0)
	if got != "objects/obj_player/Step_0.gml" {
		t.Errorf("ScriptPath = %q", got)
	}
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType("KeyRelease")
	if !ok || typ != KeyRelease {
		t.Errorf("ParseType(KeyRelease) = %d, %v", typ, ok)
	}
	if _, ok := ParseType("Nope"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestTypeString(t *testing.T) {
	if got := Step.String(); got != "Step" {
		t.Errorf("got %q, want %q", got, "Step")
	}
	if got := Type(99).String(); got != "Invalid" {
		t.Errorf("got %q, want %q", got, "Invalid")
	}
}
