// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"io/fs"

	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/editor"
	"github.com/aidanlsb/gmedit/internal/index"
	"github.com/aidanlsb/gmedit/internal/paths"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/registry"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Project errors
	ErrProjectNotFound     = "PROJECT_NOT_FOUND"
	ErrProjectNotSpecified = "PROJECT_NOT_SPECIFIED"
	ErrConfigInvalid       = "CONFIG_INVALID"
	ErrFolderRootMissing   = "FOLDER_ROOT_MISSING"

	// Resource errors
	ErrResourceExists  = "RESOURCE_EXISTS"
	ErrWrongKind       = "WRONG_KIND"
	ErrUnsupportedKind = "UNSUPPORTED_KIND"
	ErrParseError      = "PARSE_ERROR"
	ErrEventNotFound   = "EVENT_NOT_FOUND"
	ErrParentCycle     = "PARENT_CYCLE"
	ErrInvalidName     = "INVALID_NAME"

	// Reference errors
	ErrRefNotFound  = "REF_NOT_FOUND"
	ErrRefAmbiguous = "REF_AMBIGUOUS"

	// File errors
	ErrFileNotFound       = "FILE_NOT_FOUND"
	ErrFileWriteError     = "FILE_WRITE_ERROR"
	ErrFileOutsideProject = "FILE_OUTSIDE_PROJECT"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrConfirmRequired = "CONFIRMATION_REQUIRED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// errorCode maps a domain error to its stable code.
func errorCode(err error) string {
	var cycle *resolve.CycleError
	var parseErr *resource.ParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cycle):
		return ErrParentCycle
	case errors.As(err, &parseErr):
		return ErrParseError
	case errors.Is(err, resolve.ErrAmbiguous):
		return ErrRefAmbiguous
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, index.ErrResourceNotFound):
		return ErrRefNotFound
	case errors.Is(err, registry.ErrWrongKind):
		return ErrWrongKind
	case errors.Is(err, registry.ErrNoFolderRoot):
		return ErrFolderRootMissing
	case errors.Is(err, project.ErrNoProjectFile), errors.Is(err, project.ErrMultipleProjectFiles),
		errors.Is(err, config.ErrUnknownProject):
		return ErrProjectNotFound
	case errors.Is(err, config.ErrNoDefaultProject):
		return ErrProjectNotSpecified
	case errors.Is(err, project.ErrExists), errors.Is(err, editor.ErrNameTaken):
		return ErrResourceExists
	case errors.Is(err, project.ErrInvalidName):
		return ErrInvalidName
	case errors.Is(err, paths.ErrPathOutsideProject), errors.Is(err, project.ErrNotInProject):
		return ErrFileOutsideProject
	case errors.Is(err, editor.ErrUnsupportedKind):
		return ErrUnsupportedKind
	case errors.Is(err, editor.ErrNoSuchEvent):
		return ErrEventNotFound
	case errors.Is(err, index.ErrIndexLocked):
		return ErrDatabaseLocked
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound
	default:
		return ErrInternal
	}
}
