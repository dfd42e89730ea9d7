package testutil

import (
	"strings"
	"testing"
)

// AssertFileExists reports an error when the project file is missing.
func (p *TestProject) AssertFileExists(rel string) {
	p.t.Helper()
	if !p.FileExists(rel) {
		p.t.Errorf("%s: file does not exist", rel)
	}
}

// AssertFileContains reports an error unless the project file contains substr.
func (p *TestProject) AssertFileContains(rel, substr string) {
	p.t.Helper()
	if content := p.ReadFile(rel); !strings.Contains(content, substr) {
		p.t.Errorf("%s: missing %q in:\n%s", rel, substr, content)
	}
}

// AssertFileNotContains reports an error when the project file contains substr.
func (p *TestProject) AssertFileNotContains(rel, substr string) {
	p.t.Helper()
	if content := p.ReadFile(rel); strings.Contains(content, substr) {
		p.t.Errorf("%s: unexpected %q in:\n%s", rel, substr, content)
	}
}

// AssertCRLF reports an error when a saved file has a bare LF line ending,
// which the IDE would rewrite on its next save.
func (p *TestProject) AssertCRLF(rel string) {
	p.t.Helper()
	content := p.ReadFile(rel)
	if strings.Count(content, "\n") != strings.Count(content, "\r\n") {
		p.t.Errorf("%s: mixed line endings", rel)
	}
}

// AssertResourceExists reports an error unless `gme show ref` succeeds.
func (p *TestProject) AssertResourceExists(ref string) {
	p.t.Helper()
	if result := p.RunCLI("show", ref); !result.OK {
		p.t.Errorf("show %s: %+v", ref, result.Error)
	}
}

// AssertBacklinks checks the number of rows `gme backlinks ref` returns.
func (p *TestProject) AssertBacklinks(ref string, want int) {
	p.t.Helper()
	result := p.RunCLI("backlinks", ref).MustSucceed(p.t)
	if got := len(result.DataList("items")); got != want {
		p.t.Errorf("backlinks %s: got %d, want %d\nraw: %s", ref, got, want, result.RawJSON)
	}
}

// AssertHasWarning reports an error unless a warning with code was returned.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("no %s warning in %+v", code, r.Warnings)
}

// AssertNoWarnings reports an error when any warning was returned.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("unexpected warnings: %+v", r.Warnings)
	}
}

// AssertResultCount checks the length of the list at data[key].
func (r *CLIResult) AssertResultCount(t *testing.T, key string, want int) {
	t.Helper()
	if got := len(r.DataList(key)); got != want {
		t.Errorf("%s: got %d, want %d\nraw: %s", key, got, want, r.RawJSON)
	}
}
