package driven

import (
	"context"
	"time"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// AttachmentCheck is a single-attachment remote verification request.
type AttachmentCheck struct {
	// CollectionID and Key identify the attachment.
	CollectionID int64
	Key          string

	// ContentHash identifies the current bytes of the attachment file.
	ContentHash string

	// AddedAt is when the attachment was added to the library.
	AddedAt time.Time

	// RequestUploadURL asks the service to include an upload URL for files
	// it has not seen yet.
	RequestUploadURL bool
}

// AttachmentStatus is the remote verdict for one attachment.
type AttachmentStatus struct {
	// CollectionID and Key identify the attachment the verdict belongs to.
	CollectionID int64
	Key          string

	// Processed reports whether the service accepts the attachment.
	Processed bool

	// Details carries an optional service-side explanation.
	Details string
}

// BatchCandidate is one attachment submitted in a batched item check.
type BatchCandidate struct {
	// Subject is the attachment being checked.
	Subject domain.Subject

	// ContentHash identifies the current bytes of the attachment file.
	ContentHash string
}

// BatchResult is the remote response to a batched item check.
type BatchResult struct {
	// ParentExists reports whether the parent item is known remotely.
	// When false, attachment-level results carry no meaning.
	ParentExists bool

	// ParentDetails carries an optional explanation for the parent verdict.
	ParentDetails string

	// Attachments holds the per-attachment verdicts. Candidates absent from
	// this list are treated as a response mismatch by the engine.
	Attachments []AttachmentStatus
}

// RemoteValidationClient talks to the remote processing service.
// Transport failures must be reported as errors wrapping
// domain.ErrRemoteUnavailable; the engine never caches them as
// authoritative.
type RemoteValidationClient interface {
	// CheckAttachment verifies a single attachment remotely.
	CheckAttachment(ctx context.Context, check AttachmentCheck) (*AttachmentStatus, error)

	// CheckRegularItemBatch verifies all candidate attachments of one
	// parent item in a single round trip.
	CheckRegularItemBatch(ctx context.Context, parent domain.Subject, candidates []BatchCandidate) (*BatchResult, error)
}
