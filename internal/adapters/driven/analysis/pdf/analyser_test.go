package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// minimalPDF builds a parseable one-page PDF with no text content. Object
// offsets in the cross-reference table are computed while writing.
func minimalPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3)

	write := func(s string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(s)
	}

	buf.WriteString("%PDF-1.4\n")
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	write("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	buf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefPos))

	return buf.Bytes()
}

func TestAnalyser_PageCount(t *testing.T) {
	analyser := New()

	pages, err := analyser.PageCount(context.Background(), minimalPDF())

	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestAnalyser_PageCountEmptyData(t *testing.T) {
	analyser := New()

	_, err := analyser.PageCount(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestAnalyser_PageCountGarbage(t *testing.T) {
	analyser := New()

	_, err := analyser.PageCount(context.Background(), []byte("this is not a pdf at all"))

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestAnalyser_PageCountTruncated(t *testing.T) {
	analyser := New()
	data := minimalPDF()

	_, err := analyser.PageCount(context.Background(), data[:len(data)/2])

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestAnalyser_NeedsOCRNoTextLayer(t *testing.T) {
	analyser := New()

	needsOCR, err := analyser.NeedsOCR(context.Background(), minimalPDF())

	require.NoError(t, err)
	assert.True(t, needsOCR, "a document without extractable text needs OCR")
}

func TestAnalyser_NeedsOCRInvalidDocument(t *testing.T) {
	analyser := New()

	_, err := analyser.NeedsOCR(context.Background(), []byte("garbage"))

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
