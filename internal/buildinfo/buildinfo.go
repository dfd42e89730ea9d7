// Package buildinfo holds release metadata stamped into gme at link time:
//
//	go build -ldflags "-X github.com/aidanlsb/gmedit/internal/buildinfo.Version=v0.3.0" ./cmd/gme
package buildinfo

// Empty unless set with -ldflags -X.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Stamped reports whether any release metadata was linked in.
func Stamped() bool {
	return Version != "" || Commit != "" || Date != ""
}
