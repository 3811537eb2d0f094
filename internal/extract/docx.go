// File path: internal/extract/docx.go
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDocx reads word/document.xml out of the docx archive and flattens
// run text into paragraphs separated by newlines.
func extractDocx(buffer []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %v: %w", err, ErrExtractionFailed)
	}
	var documentXML []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %v: %w", err, ErrExtractionFailed)
		}
		documentXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %v: %w", err, ErrExtractionFailed)
		}
		break
	}
	if documentXML == nil {
		return "", fmt.Errorf("document.xml missing: %w", ErrExtractionFailed)
	}
	return flattenDocumentXML(documentXML)
}

// flattenDocumentXML walks the WordprocessingML token stream collecting text
// runs (<w:t>), tabs, and explicit breaks. Paragraph ends produce newlines so
// labeled blanks keep their own line.
func flattenDocumentXML(documentXML []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(documentXML))
	var builder strings.Builder
	inText := false
	sawBody := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %v: %w", err, ErrExtractionFailed)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "body":
				sawBody = true
			case "t":
				inText = true
			case "tab":
				builder.WriteByte('\t')
			case "br", "cr":
				builder.WriteByte('\n')
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				builder.Write(tok)
			}
		}
	}
	if !sawBody {
		return "", fmt.Errorf("document.xml has no body: %w", ErrExtractionFailed)
	}
	return strings.TrimRight(builder.String(), "\n"), nil
}
