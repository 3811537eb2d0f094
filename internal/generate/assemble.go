// File path: internal/generate/assemble.go
package generate

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	docxDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	docxDocumentFooter = `<w:sectPr/></w:body></w:document>`
)

// Assemble converts filled document text into a distributable docx binary.
// Formatting is deliberately simple: a title paragraph derived from the
// template name, then one paragraph per input line. Output fidelity is
// text-correctness, not layout-fidelity.
func Assemble(filledText, templateName string, maxBytes int) ([]byte, error) {
	trimmed := strings.TrimSpace(filledText)
	if trimmed == "" {
		return nil, fmt.Errorf("empty document text: %w", ErrAssemblyFailed)
	}
	if maxBytes > 0 && len(trimmed) > maxBytes {
		return nil, fmt.Errorf("document text %d bytes exceeds cap %d: %w", len(trimmed), maxBytes, ErrAssemblyFailed)
	}

	var document strings.Builder
	document.WriteString(docxDocumentHeader)
	if title := strings.TrimSpace(templateName); title != "" {
		document.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">`)
		document.WriteString(escapeXML(title))
		document.WriteString(`</w:t></w:r></w:p>`)
	}
	for _, line := range strings.Split(trimmed, "\n") {
		document.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		document.WriteString(escapeXML(strings.TrimRight(line, "\r")))
		document.WriteString(`</w:t></w:r></w:p>`)
	}
	document.WriteString(docxDocumentFooter)

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", document.String()},
	}
	for _, part := range parts {
		entry, err := writer.Create(part.name)
		if err != nil {
			writer.Close()
			return nil, fmt.Errorf("create %s: %v: %w", part.name, err, ErrAssemblyFailed)
		}
		if _, err := entry.Write([]byte(part.body)); err != nil {
			writer.Close()
			return nil, fmt.Errorf("write %s: %v: %w", part.name, err, ErrAssemblyFailed)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %v: %w", err, ErrAssemblyFailed)
	}
	if maxBytes > 0 && buffer.Len() > maxBytes {
		return nil, fmt.Errorf("assembled document %d bytes exceeds cap %d: %w", buffer.Len(), maxBytes, ErrAssemblyFailed)
	}
	return buffer.Bytes(), nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}
