package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
	"github.com/refstack-labs/refcheck/internal/logger"
)

// supportedAnnotationTypes is the whitelist for annotation subjects.
var supportedAnnotationTypes = map[string]bool{
	"highlight": true,
	"underline": true,
	"image":     true,
}

// FrontendValidator runs the comprehensive local-only checks. For
// attachments it covers format, availability, size, page count, encryption
// and OCR need; it never issues a remote call.
type FrontendValidator struct {
	files    driven.FileStore
	analyser driven.DocumentAnalyser
	settings driven.SettingsProvider
}

// NewFrontendValidator creates a new frontend validator.
func NewFrontendValidator(files driven.FileStore, analyser driven.DocumentAnalyser, settings driven.SettingsProvider) *FrontendValidator {
	return &FrontendValidator{files: files, analyser: analyser, settings: settings}
}

// Validate runs the frontend checks for a subject. Results are never
// backend-checked.
func (v *FrontendValidator) Validate(ctx context.Context, subject domain.Subject) domain.Result {
	if subject == nil || !subject.Kind().IsValid() {
		return invalid("Item does not exist")
	}

	// The collection gate precedes everything else, independent of kind.
	id := subject.ID()
	if !v.settings.Settings().CollectionEnabled(id.CollectionID) {
		return invalid(fmt.Sprintf("Collection %d is not enabled for processing", id.CollectionID))
	}

	switch subject.Kind() {
	case domain.KindAttachment:
		return v.validateAttachment(ctx, subject)
	case domain.KindItem:
		return v.validateItem(subject)
	case domain.KindAnnotation:
		return v.validateAnnotation(subject)
	default:
		return invalid("Notes are not supported")
	}
}

// validateItem passes plain records on existence and non-trashed state.
func (v *FrontendValidator) validateItem(subject domain.Subject) domain.Result {
	if !subject.Exists() {
		return invalid("Item does not exist")
	}
	if subject.InTrash() {
		return invalid("Item is in the trash")
	}
	return domain.Result{Valid: true}
}

// validateAnnotation passes annotations on type whitelist, non-empty
// content, and a valid attachment parent.
func (v *FrontendValidator) validateAnnotation(subject domain.Subject) domain.Result {
	if !supportedAnnotationTypes[subject.AnnotationType()] {
		return invalid(fmt.Sprintf("Unsupported annotation type: %s", subject.AnnotationType()))
	}
	if strings.TrimSpace(subject.Text()) == "" {
		return invalid("Annotation has no content")
	}
	parent := subject.Parent()
	if parent == nil || parent.Kind() != domain.KindAttachment {
		return invalid("Annotation has no attachment parent")
	}
	return domain.Result{Valid: true}
}

// validateAttachment runs the ordered attachment checks, short-circuiting
// on the first failure.
func (v *FrontendValidator) validateAttachment(ctx context.Context, subject domain.Subject) domain.Result {
	if subject.InTrash() {
		return invalid("File is in the trash")
	}

	contentType := subject.ContentType()
	if !strings.HasPrefix(contentType, "application/pdf") {
		return invalid(fmt.Sprintf("Unsupported file format: %s", contentType))
	}

	if subject.FilePath() == "" {
		remote, err := v.files.ExistsRemotely(ctx, subject)
		if err == nil && remote {
			return invalid("File exists on the server but is not available locally")
		}
		return invalid("File is unavailable")
	}

	data, err := v.files.Read(ctx, subject)
	if err != nil {
		return invalid("File could not be read")
	}

	settings := v.settings.Settings()
	if int64(len(data)) > settings.MaxFileSizeBytes() {
		return invalid(sizeLimitReason(int64(len(data)), settings.MaxFileSizeMB))
	}

	pages, err := v.analyser.PageCount(ctx, data)
	switch {
	case errors.Is(err, domain.ErrEncrypted):
		return invalid("File is password-protected")
	case errors.Is(err, domain.ErrInvalidDocument):
		return invalid("File is corrupted")
	case err != nil:
		logger.Warn("document analysis failed for %v: %v", subject.ID(), err)
		return invalid(domain.ReasonUnexpected)
	}
	if pages > settings.MaxPageCount {
		return invalid(fmt.Sprintf("Page count %d exceeds the %d page limit", pages, settings.MaxPageCount))
	}

	needsOCR, err := v.analyser.NeedsOCR(ctx, data)
	if err != nil {
		logger.Warn("OCR assessment failed for %v: %v", subject.ID(), err)
		return invalid(domain.ReasonUnexpected)
	}
	if needsOCR {
		return invalid("File requires OCR")
	}

	return domain.Result{Valid: true}
}

// invalid builds a failing, non-authoritative result.
func invalid(reason string) domain.Result {
	return domain.Result{Valid: false, Reason: reason}
}
