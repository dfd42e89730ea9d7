package editor

// Listener is told when an editor's dirty state flips.
type Listener interface {
	DirtyChanged(dirty bool)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(dirty bool)

// DirtyChanged calls f(dirty).
func (f ListenerFunc) DirtyChanged(dirty bool) { f(dirty) }

// State tracks whether an editor has unsaved edits: an explicit flag for
// whole-record fields plus one modified flag per subpart (an object's event
// scripts, a script's body). Listeners run synchronously, in the order they were
// added, and only when Dirty changes value.
type State struct {
	explicit  bool
	subparts  []bool
	listeners []Listener
	notified  bool
}

// AddListener registers l.
func (s *State) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Dirty reports whether anything is modified.
func (s *State) Dirty() bool {
	if s.explicit {
		return true
	}
	for _, m := range s.subparts {
		if m {
			return true
		}
	}
	return false
}

// MarkDirty sets the explicit flag.
func (s *State) MarkDirty() {
	s.explicit = true
	s.changed()
}

// MarkSubpart flags subpart i as modified. Out of range indexes are ignored.
func (s *State) MarkSubpart(i int) {
	if i < 0 || i >= len(s.subparts) {
		return
	}
	s.subparts[i] = true
	s.changed()
}

// Subpart reports whether subpart i is modified.
func (s *State) Subpart(i int) bool {
	return i >= 0 && i < len(s.subparts) && s.subparts[i]
}

// Len returns the number of tracked subparts.
func (s *State) Len() int { return len(s.subparts) }

// Clean clears the explicit flag and every subpart flag in one step, so
// listeners see a single transition.
func (s *State) Clean() {
	s.explicit = false
	for i := range s.subparts {
		s.subparts[i] = false
	}
	s.changed()
}

// Resize sets the number of subparts. Flags of surviving subparts are kept and
// new ones start clean.
func (s *State) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.subparts) {
		s.subparts = s.subparts[:n]
	} else {
		s.subparts = append(s.subparts, make([]bool, n-len(s.subparts))...)
	}
	s.changed()
}

func (s *State) changed() {
	dirty := s.Dirty()
	if dirty == s.notified {
		return
	}
	s.notified = dirty
	for _, l := range s.listeners {
		l.DirtyChanged(dirty)
	}
}
