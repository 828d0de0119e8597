package host

import (
	"time"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// Ensure Entity implements the interface.
var _ domain.Subject = (*Entity)(nil)

// Entity is a plain-struct adapter over a host library entity. Embedding
// applications map their item/attachment objects onto it; the engine only
// ever sees the domain.Subject interface.
type Entity struct {
	// CollectionID and Key form the stable identity.
	CollectionID int64
	Key          string

	// EntityKind is the subject kind.
	EntityKind domain.Kind

	// Present reports whether the host entity is well-formed.
	Present bool

	// Trashed reports a deleted/trash state.
	Trashed bool

	// Path is the local file path for attachments.
	Path string

	// MIMEType is the attachment MIME type.
	MIMEType string

	// Added is when the entity entered the library.
	Added time.Time

	// Annotation holds annotation-kind fields.
	AnnotationKind string
	AnnotationText string

	// ParentEntity is the parent, if any.
	ParentEntity domain.Subject

	// Children are the child attachments of a regular item.
	Children []domain.Subject
}

// ID returns the stable identity of the entity.
func (e *Entity) ID() domain.SubjectID {
	return domain.SubjectID{CollectionID: e.CollectionID, Key: e.Key}
}

// Kind returns the subject kind.
func (e *Entity) Kind() domain.Kind { return e.EntityKind }

// Exists reports whether the host entity is well-formed.
func (e *Entity) Exists() bool { return e.Present }

// InTrash reports whether the entity is in a deleted state.
func (e *Entity) InTrash() bool { return e.Trashed }

// FilePath returns the local file path, or "".
func (e *Entity) FilePath() string { return e.Path }

// ContentType returns the MIME type, or "".
func (e *Entity) ContentType() string { return e.MIMEType }

// AddedAt returns when the entity was added to the library.
func (e *Entity) AddedAt() time.Time { return e.Added }

// AnnotationType returns the annotation type, or "".
func (e *Entity) AnnotationType() string { return e.AnnotationKind }

// Text returns the annotation text content, or "".
func (e *Entity) Text() string { return e.AnnotationText }

// Parent returns the parent subject, or nil.
func (e *Entity) Parent() domain.Subject { return e.ParentEntity }

// Attachments returns the child attachments.
func (e *Entity) Attachments() []domain.Subject { return e.Children }
