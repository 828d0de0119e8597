package driving

import (
	"context"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// ValidationService is the top-level API of the validation engine.
type ValidationService interface {
	// Validate checks a single subject under the given validation type.
	Validate(ctx context.Context, subject domain.Subject, vtype domain.ValidationType) (domain.Result, error)

	// ValidateRegularItem validates a parent item together with all of its
	// attachments, issuing at most one batched remote call.
	ValidateRegularItem(ctx context.Context, parent domain.Subject) (domain.CompositeResult, error)

	// ValidateRegularItemFrontend mirrors ValidateRegularItem using only
	// the comprehensive local checks. Never issues a network call.
	ValidateRegularItemFrontend(ctx context.Context, parent domain.Subject) (domain.CompositeResult, error)

	// Invalidate removes cached verdicts of every validation type for the
	// subject, forcing the next call to recompute from scratch.
	Invalidate(subject domain.Subject)

	// ClearCache drops all cached verdicts and forgets in-flight handles.
	ClearCache()
}
