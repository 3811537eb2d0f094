// File path: internal/extract/extract.go

// Package extract converts binary template files into plain text. Extraction
// is deliberately linear: placeholder tokens, underscore blanks, and labeled
// blanks are preserved verbatim because the mapping engine inspects the raw
// text for them. Images, tables-as-data, and styling are ignored.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/belriyad/docgen/internal/common"
)

// ErrExtractionFailed is returned when a buffer cannot be parsed as a valid
// document of its declared format. Non-retryable.
var ErrExtractionFailed = errors.New("extraction failed")

// Format is the declared binary format of a template file.
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a stored format tag onto a Format.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "docx", "doc", "word", "word-processor":
		return FormatDocx, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported format %q: %w", tag, ErrExtractionFailed)
	}
}

// Extract returns the linear text content of the buffer.
func Extract(buffer []byte, format Format) (string, error) {
	if len(buffer) == 0 {
		return "", fmt.Errorf("empty buffer: %w", ErrExtractionFailed)
	}
	logger := common.Logger()
	var (
		text string
		err  error
	)
	switch format {
	case FormatDocx:
		text, err = extractDocx(buffer)
	case FormatPDF:
		text, err = extractPDF(buffer)
	default:
		return "", fmt.Errorf("no extractor for format %q: %w", format, ErrExtractionFailed)
	}
	if err != nil {
		logger.Warn("extract: parse failed", "format", string(format), "bytes", len(buffer), "error", err)
		return "", err
	}
	logger.Debug("extract: document parsed", "format", string(format), "chars", len(text))
	return text, nil
}
