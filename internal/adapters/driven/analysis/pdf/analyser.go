// Package pdf implements the document analyser for PDF attachments.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// Ensure Analyser implements the interface.
var _ driven.DocumentAnalyser = (*Analyser)(nil)

const (
	// sampledPages is how many pages NeedsOCR inspects for text content.
	sampledPages = 5

	// minTextChars is the minimum number of extractable characters across
	// the sampled pages for a document to count as having a text layer.
	minTextChars = 32
)

// Analyser inspects PDF bytes for page count, encryption and text layer.
type Analyser struct{}

// New creates a new PDF analyser.
func New() *Analyser {
	return &Analyser{}
}

// PageCount returns the number of pages in the document.
// Password-protected documents fail with domain.ErrEncrypted and
// unparseable ones with domain.ErrInvalidDocument.
func (a *Analyser) PageCount(_ context.Context, data []byte) (int, error) {
	reader, err := open(data)
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

// NeedsOCR reports whether the document lacks an extractable text layer.
// The first few pages are sampled; a document yielding almost no text is
// assumed to be scanned images.
func (a *Analyser) NeedsOCR(_ context.Context, data []byte) (needsOCR bool, err error) {
	// The underlying parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidDocument, r)
		}
	}()

	reader, err := open(data)
	if err != nil {
		return false, err
	}

	pages := reader.NumPage()
	if pages > sampledPages {
		pages = sampledPages
	}

	chars := 0
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		chars += len(strings.TrimSpace(text))
		if chars >= minTextChars {
			return false, nil
		}
	}

	return chars < minTextChars, nil
}

// open parses the PDF bytes, classifying failures.
func open(data []byte) (reader *lpdf.Reader, err error) {
	// The parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("%w: %v", domain.ErrInvalidDocument, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidDocument)
	}

	reader, err = lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypt") {
			return nil, fmt.Errorf("%w: %v", domain.ErrEncrypted, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return reader, nil
}
