package editor

import (
	"fmt"
	"testing"
)

type recorder struct {
	name  string
	calls *[]string
}

func (r recorder) DirtyChanged(dirty bool) {
	*r.calls = append(*r.calls, fmt.Sprintf("%s:%t", r.name, dirty))
}

func TestStateNotifiesOnTransitionsOnly(t *testing.T) {
	var calls []string
	var s State
	s.Resize(2)
	s.AddListener(recorder{"a", &calls})
	s.AddListener(recorder{"b", &calls})

	s.MarkDirty()
	s.MarkDirty()
	s.MarkSubpart(1)
	s.Clean()
	s.Clean()
	s.MarkSubpart(0)

	want := []string{"a:true", "b:true", "a:false", "b:false", "a:true", "b:true"}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", calls, want)
	}
}

func TestStateDirtyLaw(t *testing.T) {
	var s State
	s.Resize(3)

	if s.Dirty() {
		t.Fatal("new state should be clean")
	}

	s.MarkSubpart(2)
	if !s.Dirty() || !s.Subpart(2) || s.Subpart(0) {
		t.Errorf("after MarkSubpart(2): dirty=%t subparts=[%t %t %t]", s.Dirty(), s.Subpart(0), s.Subpart(1), s.Subpart(2))
	}

	s.MarkDirty()
	s.Clean()
	if s.Dirty() {
		t.Error("Clean should clear everything")
	}
	for i := 0; i < s.Len(); i++ {
		if s.Subpart(i) {
			t.Errorf("subpart %d still modified after Clean", i)
		}
	}

	t.Run("out of range subparts are ignored", func(t *testing.T) {
		s.MarkSubpart(7)
		s.MarkSubpart(-1)
		if s.Dirty() {
			t.Error("out of range MarkSubpart should not dirty the state")
		}
	})
}

func TestStateResize(t *testing.T) {
	var s State
	s.Resize(2)
	s.MarkSubpart(1)

	s.Resize(4)
	if s.Len() != 4 || !s.Subpart(1) || s.Subpart(3) {
		t.Errorf("grow: len=%d subpart1=%t subpart3=%t", s.Len(), s.Subpart(1), s.Subpart(3))
	}

	var calls []string
	s.AddListener(recorder{"a", &calls})
	s.Resize(1)
	if s.Dirty() {
		t.Error("dropping the only modified subpart should leave the state clean")
	}
	if len(calls) != 1 || calls[0] != "a:false" {
		t.Errorf("got %v, want [a:false]", calls)
	}
}

func TestListenerFunc(t *testing.T) {
	var got []bool
	var s State
	s.AddListener(ListenerFunc(func(dirty bool) { got = append(got, dirty) }))
	s.MarkDirty()
	s.Clean()
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("got %v, want [true false]", got)
	}
}
