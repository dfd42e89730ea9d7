package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// gme is built once per test binary; the temp directory is left for the OS
// to clean.
var (
	buildOnce sync.Once
	builtPath string
	buildErr  error
)

// CLIResult is the decoded JSON envelope of one gme run.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	ExitCode int    `json:"-"`
}

// CLIError is the error member of the envelope.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning is one entry of the warnings member.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// CLIMeta is the meta member.
type CLIMeta struct {
	Count int `json:"count,omitempty"`
}

// BuildCLI compiles ./cmd/gme from the module root and returns the binary path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		builtPath, buildErr = buildBinary()
	})
	if buildErr != nil {
		t.Fatalf("failed to build gme: %v", buildErr)
	}
	return builtPath
}

func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "gme-cli-bin-*")
	if err != nil {
		return "", err
	}
	name := "gme"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/gme")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w\n%s", err, output)
	}
	return out, nil
}

// moduleRoot walks up from the working directory to the go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above working directory")
		}
		dir = parent
	}
}

// RunCLI runs gme against the project with --json and a private config file.
func (p *TestProject) RunCLI(args ...string) *CLIResult {
	p.t.Helper()
	return p.run(nil, args...)
}

// RunCLIWithStdin is RunCLI with stdin set to input.
func (p *TestProject) RunCLIWithStdin(input string, args ...string) *CLIResult {
	p.t.Helper()
	return p.run(strings.NewReader(input), args...)
}

func (p *TestProject) run(stdin *strings.Reader, args ...string) *CLIResult {
	p.t.Helper()

	if p.configPath == "" {
		p.configPath = filepath.Join(p.t.TempDir(), "config.toml")
	}
	full := append([]string{"--project-path", p.Path, "--config", p.configPath, "--json"}, args...)
	cmd := exec.Command(BuildCLI(p.t), full...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	// Logs go to stderr; stdout carries only the envelope.
	var stdout strings.Builder
	cmd.Stdout = &stdout

	result := &CLIResult{}
	if err := cmd.Run(); err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	result.RawJSON = stdout.String()

	if err := json.Unmarshal([]byte(result.RawJSON), result); err != nil {
		result.OK = false
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "output is not a JSON envelope: " + err.Error(),
			Details: map[string]interface{}{"raw": result.RawJSON},
		}
	}
	return result
}

// MustSucceed stops the test unless the command succeeded.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if r.OK {
		return r
	}
	msg := "no error reported"
	if r.Error != nil {
		msg = r.Error.Code + ": " + r.Error.Message
	}
	t.Fatalf("command failed: %s\nraw output: %s", msg, r.RawJSON)
	return r
}

// MustFail stops the test unless the command failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("command succeeded, want %s\nraw output: %s", code, r.RawJSON)
	case r.Error == nil:
		t.Fatalf("command failed without an error member, want %s\nraw output: %s", code, r.RawJSON)
	case r.Error.Code != code:
		t.Fatalf("got error %s (%s), want %s\nraw output: %s", r.Error.Code, r.Error.Message, code, r.RawJSON)
	}
	return r
}

// MustFailWithMessage stops the test unless the command failed, and reports
// an error when neither message nor suggestion contains substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("command succeeded, want failure\nraw output: %s", r.RawJSON)
	}
	if substr == "" || r.Error == nil {
		return r
	}
	if !strings.Contains(r.Error.Message, substr) && !strings.Contains(r.Error.Suggestion, substr) {
		t.Errorf("error %q (suggestion %q) does not mention %q", r.Error.Message, r.Error.Suggestion, substr)
	}
	return r
}

// DataList returns data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataNumber returns data[key] as a number, or 0.
func (r *CLIResult) DataNumber(key string) float64 {
	n, _ := r.Data[key].(float64)
	return n
}

// DataString returns data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
