package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, false, "Loading project")
	s.Start()
	s.Update("Indexing 12 resources")
	s.Stop()

	want := "Loading project...\nIndexing 12 resources...\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestSpinnerAnimates(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, true, "Indexing")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Indexing") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("line not cleared on stop: %q", out)
	}
}
