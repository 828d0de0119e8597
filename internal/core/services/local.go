package services

import (
	"context"
	"fmt"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
	"github.com/refstack-labs/refcheck/internal/logger"
)

// LocalResult is the outcome of the fast local checks.
type LocalResult struct {
	// Valid reports whether the subject passed.
	Valid bool

	// Reason explains a failed verdict.
	Reason string

	// ServerOnly marks attachments whose file exists only in remote
	// storage. The size cannot be checked yet; downstream processing is
	// expected to fetch the file.
	ServerOnly bool
}

// LocalValidator runs cheap synchronous checks: structural soundness, file
// availability, and size limits. It never talks to the remote service.
type LocalValidator struct {
	files    driven.FileStore
	settings driven.SettingsProvider
}

// NewLocalValidator creates a new local validator.
func NewLocalValidator(files driven.FileStore, settings driven.SettingsProvider) *LocalValidator {
	return &LocalValidator{files: files, settings: settings}
}

// Validate runs the local checks for a subject.
func (v *LocalValidator) Validate(ctx context.Context, subject domain.Subject) LocalResult {
	// Structural check first: well-formed and of a supported kind.
	if subject == nil || !subject.Kind().IsValid() || !subject.Exists() {
		return LocalResult{Reason: "Item does not exist"}
	}
	if subject.Kind() == domain.KindNote {
		return LocalResult{Reason: "Notes are not supported"}
	}

	// Local validation of non-attachments ends here.
	if subject.Kind() != domain.KindAttachment {
		return LocalResult{Valid: true}
	}

	local, err := v.files.ExistsLocally(ctx, subject)
	if err != nil {
		logger.Debug("local existence check failed for %v: %v", subject.ID(), err)
		local = false
	}
	remote, err := v.files.ExistsRemotely(ctx, subject)
	if err != nil {
		logger.Debug("remote existence check failed for %v: %v", subject.ID(), err)
		remote = false
	}

	switch {
	case !local && !remote:
		return LocalResult{Reason: domain.ReasonNotAvailable}
	case !local:
		return LocalResult{Valid: true, ServerOnly: true}
	}

	size, err := v.files.TotalSize(ctx, subject)
	if err != nil {
		return LocalResult{Reason: domain.ReasonSizeCheckFailed}
	}

	limitMB := v.settings.Settings().MaxFileSizeMB
	if size > v.settings.Settings().MaxFileSizeBytes() {
		return LocalResult{Reason: sizeLimitReason(size, limitMB)}
	}

	return LocalResult{Valid: true}
}

// sizeLimitReason formats the size-limit failure reason.
func sizeLimitReason(size, limitMB int64) string {
	return fmt.Sprintf("File size %.1f MB exceeds the %d MB limit", float64(size)/(1024*1024), limitMB)
}
