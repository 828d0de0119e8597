package driven

import "context"

// DocumentAnalyser inspects document bytes.
// Implementations report password protection as domain.ErrEncrypted and
// unparseable content as domain.ErrInvalidDocument.
type DocumentAnalyser interface {
	// PageCount returns the number of pages in the document.
	PageCount(ctx context.Context, data []byte) (int, error)

	// NeedsOCR reports whether the document lacks an extractable text
	// layer and would need OCR before text processing.
	NeedsOCR(ctx context.Context, data []byte) (bool, error)
}
