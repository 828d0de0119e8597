package domain

import "time"

// Kind identifies what sort of library entity a subject is.
type Kind string

// Recognised subject kinds.
const (
	// KindItem is a regular bibliographic item (a paper, book, webpage...).
	KindItem Kind = "item"

	// KindAttachment is a file attachment belonging to an item.
	KindAttachment Kind = "attachment"

	// KindAnnotation is an annotation on an attachment (highlight, note...).
	KindAnnotation Kind = "annotation"

	// KindNote is a standalone or child note.
	KindNote Kind = "note"
)

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindItem, KindAttachment, KindAnnotation, KindNote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// SubjectID identifies a subject within a collection.
// The (CollectionID, Key) pair is stable and never reused concurrently
// for two different physical entities.
type SubjectID struct {
	// CollectionID is the owning collection.
	CollectionID int64

	// Key is the external key within the collection.
	Key string
}

// Subject is the narrow capability interface the engine validates against.
// Embedding applications implement it as an adapter over their real host
// entity; the engine never depends on host types directly.
type Subject interface {
	// ID returns the stable identity of the subject.
	ID() SubjectID

	// Kind returns the subject kind.
	Kind() Kind

	// Exists reports whether the underlying host entity is well-formed.
	Exists() bool

	// InTrash reports whether the entity is in a deleted/trash state.
	InTrash() bool

	// FilePath returns the local file path for attachments, or "" when the
	// file has no known local location.
	FilePath() string

	// ContentType returns the MIME type for attachments, or "".
	ContentType() string

	// AddedAt returns when the entity was added to the library.
	AddedAt() time.Time

	// AnnotationType returns the annotation type for annotation kinds
	// (e.g. "highlight", "underline", "image"), or "".
	AnnotationType() string

	// Text returns the textual content for annotation kinds, or "".
	Text() string

	// Parent returns the parent subject, or nil for top-level entities.
	Parent() Subject

	// Attachments returns the child attachments of a regular item.
	Attachments() []Subject
}
