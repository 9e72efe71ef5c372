package services

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount confirms the blob parses as a PDF and returns its page count.
// Content is not inspected, the AI receives the raw bytes; this only guards
// against uploads that are not PDFs at all.
func PDFPageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("file is empty")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("not a readable PDF: %w", err)
	}

	pages := reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}
