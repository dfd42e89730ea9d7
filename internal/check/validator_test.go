package check

import (
	"strings"
	"testing"

	"github.com/aidanlsb/gmedit/internal/events"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/testutil"
)

func openProject(t *testing.T, tp *testutil.TestProject) *project.Project {
	t.Helper()
	p, err := project.Open(tp.Path, project.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return p
}

func TestValidatorCleanProject(t *testing.T) {
	tp := testutil.NewTestProject(t, "Game").
		WithFolder("f1", "objects", resource.KindObject, "o1", "o2").
		WithFolder("f2", "sprites", resource.KindSprite, "s1").
		WithFolder("f3", "scripts", resource.KindScript, "sc1").
		WithSprite("s1", "spr_player", 16, 16).
		WithObject(testutil.ObjectSpec{ID: "o1", Name: "Player", Sprite: "s1", Events: []testutil.EventSpec{
			{Type: events.Create, Number: 0, Code: "hp = 3;"},
		}}).
		WithObject(testutil.ObjectSpec{ID: "o2", Name: "Enemy", Parent: "o1"}).
		WithScript("sc1", "scr_move", "return 0;").
		Build()

	issues := NewValidator(openProject(t, tp)).Run()
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %d: %v", len(issues), issues)
	}
}

func TestValidatorFindsProblems(t *testing.T) {
	tp := testutil.NewTestProject(t, "Game").
		WithFolder("f1", "objects", resource.KindObject, "o1", "o2", "o3", "o4", "o5").
		WithObject(testutil.ObjectSpec{ID: "o1", Name: "Player"}).
		WithObject(testutil.ObjectSpec{ID: "o2", Name: "Hero", Sprite: "spr_gone", Events: []testutil.EventSpec{
			{Type: events.Create, Number: 0, NoScript: true},
		}}).
		WithObject(testutil.ObjectSpec{ID: "o3", Name: "Loop_A", Parent: "o4"}).
		WithObject(testutil.ObjectSpec{ID: "o4", Name: "Loop_B", Parent: "o3"}).
		WithObject(testutil.ObjectSpec{ID: "o5", Name: "Big Enemy"}).
		WithObject(testutil.ObjectSpec{ID: "o1", Name: "PlayerCopy"}).
		WithScript("sc1", "scr_move", "return 0;").
		WithResource(resource.KindObject, "bad", "objects/bad/bad.yy", "{not json").
		Build()

	issues := NewValidator(openProject(t, tp)).Run()

	errs, warnings := Count(issues)
	if errs != 2 || warnings != 5 {
		t.Errorf("got %d errors, %d warnings; want 2, 5\n%v", errs, warnings, issues)
	}

	tests := []struct {
		name    string
		level   IssueLevel
		message string
	}{
		{"unloadable resource", LevelError, "resource not loaded"},
		{"parent cycle", LevelError, "parent cycle at"},
		{"duplicate id", LevelWarning, "duplicate id o1"},
		{"dangling sprite", LevelWarning, "spriteId points at missing resource spr_gone"},
		{"missing event script", LevelWarning, "Create event has no script file"},
		{"invalid name", LevelWarning, `name "Big Enemy" is not a valid identifier`},
		{"missing folder root", LevelWarning, "script resources but no folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, issue := range issues {
				if strings.Contains(issue.Message, tt.message) {
					if issue.Level != tt.level {
						t.Errorf("level = %s, want %s", issue.Level, tt.level)
					}
					return
				}
			}
			t.Errorf("no issue containing %q in %v", tt.message, issues)
		})
	}

	for i := 1; i < len(issues); i++ {
		if issues[i-1].Level > issues[i].Level {
			t.Fatalf("errors should come before warnings: %v", issues)
		}
	}
}

func TestIssueLevelString(t *testing.T) {
	tests := []struct {
		level IssueLevel
		want  string
	}{
		{LevelError, "ERROR"},
		{LevelWarning, "WARN"},
		{IssueLevel(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
