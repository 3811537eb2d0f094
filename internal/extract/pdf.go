// File path: internal/extract/pdf.go
package extract

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
)

// extractPDF pulls text out of a PDF without external dependencies: it
// decodes each content stream (FlateDecode or raw) and collects the string
// operands of the text-showing operators (Tj, TJ, ', ") inside BT/ET blocks.
// Positioning and fonts are ignored; only reading order within each stream is
// kept.
func extractPDF(buffer []byte) (string, error) {
	if !bytes.HasPrefix(buffer, []byte("%PDF-")) {
		return "", fmt.Errorf("missing PDF header: %w", ErrExtractionFailed)
	}
	var builder strings.Builder
	streams := contentStreams(buffer)
	if len(streams) == 0 {
		return "", fmt.Errorf("no content streams: %w", ErrExtractionFailed)
	}
	for _, stream := range streams {
		decoded := stream
		if inflated, err := inflate(stream); err == nil {
			decoded = inflated
		}
		text := textFromContent(decoded)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

// contentStreams returns the raw bytes between each stream/endstream pair.
func contentStreams(buffer []byte) [][]byte {
	var streams [][]byte
	rest := buffer
	for {
		start := bytes.Index(rest, []byte("stream"))
		if start < 0 {
			break
		}
		body := rest[start+len("stream"):]
		body = bytes.TrimPrefix(body, []byte("\r\n"))
		body = bytes.TrimPrefix(body, []byte("\n"))
		end := bytes.Index(body, []byte("endstream"))
		if end < 0 {
			break
		}
		streams = append(streams, body[:end])
		rest = body[end+len("endstream"):]
	}
	return streams
}

func inflate(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// textFromContent scans a decoded content stream for literal strings used by
// text-showing operators. Strings are only collected between BT and ET.
func textFromContent(content []byte) string {
	var builder strings.Builder
	inText := false
	i := 0
	for i < len(content) {
		switch {
		case matchOperator(content, i, "BT"):
			inText = true
			i += 2
		case matchOperator(content, i, "ET"):
			inText = false
			if builder.Len() > 0 {
				builder.WriteByte('\n')
			}
			i += 2
		case inText && content[i] == '(':
			literal, next := parseLiteral(content, i)
			builder.WriteString(literal)
			i = next
		default:
			i++
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

func matchOperator(content []byte, i int, op string) bool {
	if i+len(op) > len(content) {
		return false
	}
	if string(content[i:i+len(op)]) != op {
		return false
	}
	before := i == 0 || isDelimiter(content[i-1])
	after := i+len(op) == len(content) || isDelimiter(content[i+len(op)])
	return before && after
}

func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '[', ']', '(', ')', '<', '>', '/':
		return true
	}
	return false
}

// parseLiteral consumes a parenthesized PDF string starting at i and returns
// the unescaped text plus the index after the closing parenthesis.
func parseLiteral(content []byte, i int) (string, int) {
	var builder strings.Builder
	depth := 0
	j := i
	for j < len(content) {
		b := content[j]
		switch {
		case b == '\\' && j+1 < len(content):
			next := content[j+1]
			switch next {
			case 'n':
				builder.WriteByte('\n')
			case 'r':
				builder.WriteByte('\r')
			case 't':
				builder.WriteByte('\t')
			case '(', ')', '\\':
				builder.WriteByte(next)
			default:
				builder.WriteByte(next)
			}
			j += 2
		case b == '(':
			if depth > 0 {
				builder.WriteByte(b)
			}
			depth++
			j++
		case b == ')':
			depth--
			if depth == 0 {
				return builder.String(), j + 1
			}
			builder.WriteByte(b)
			j++
		default:
			builder.WriteByte(b)
			j++
		}
	}
	return builder.String(), j
}
