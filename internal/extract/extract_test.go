// File path: internal/extract/extract_test.go
package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, text := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		_ = xmlEscape(&body, text)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := entry.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buffer.Bytes()
}

func xmlEscape(builder *strings.Builder, text string) error {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := builder.WriteString(replacer.Replace(text))
	return err
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"docx":           FormatDocx,
		"DOCX":           FormatDocx,
		"doc":            FormatDocx,
		"word":           FormatDocx,
		"word-processor": FormatDocx,
		"pdf":            FormatPDF,
		"PDF":            FormatPDF,
	}
	for tag, want := range cases {
		got, err := ParseFormat(tag)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tag, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %s, want %s", tag, got, want)
		}
	}
	if _, err := ParseFormat("rtf"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestExtractDocxFlattensParagraphs(t *testing.T) {
	buffer := buildDocx(t, []string{
		"REVOCABLE LIVING TRUST",
		"This trust is made by {{grantorName}} on {{executionDate}}.",
		"Successor Trustee: ________",
	})
	text, err := Extract(buffer, FormatDocx)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %q", len(lines), text)
	}
	if lines[0] != "REVOCABLE LIVING TRUST" {
		t.Fatalf("unexpected first paragraph: %q", lines[0])
	}
	if !strings.Contains(lines[1], "{{grantorName}}") {
		t.Fatalf("placeholder lost during extraction: %q", lines[1])
	}
}

func TestExtractDocxCorruptBuffer(t *testing.T) {
	_, err := Extract([]byte("this is not a zip archive"), FormatDocx)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	entry, err := writer.Create("word/other.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := entry.Write([]byte("<w:document/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	_, err = Extract(buffer.Bytes(), FormatDocx)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractPDFCorruptBuffer(t *testing.T) {
	_, err := Extract([]byte("no pdf header here"), FormatPDF)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractPDFUncompressedText(t *testing.T) {
	var pdf bytes.Buffer
	pdf.WriteString("%PDF-1.4\n")
	pdf.WriteString("1 0 obj\n<< /Length 62 >>\nstream\n")
	pdf.WriteString("BT /F1 12 Tf (Power of Attorney for {{principalName}}) Tj ET\n")
	pdf.WriteString("endstream\nendobj\n%%EOF\n")
	text, err := Extract(pdf.Bytes(), FormatPDF)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "Power of Attorney for {{principalName}}") {
		t.Fatalf("expected literal text, got %q", text)
	}
}

func TestInferFieldsPlaceholdersAndBlanks(t *testing.T) {
	text := "This trust is made by {{grantorName}} on {{executionDate}}.\n" +
		"Successor Trustee: ________\n" +
		"Full Legal Name: ______\n" +
		"{{grantorName}} signs below."
	fields := InferFields(text)
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	want := []string{"grantorName", "executionDate", "successorTrustee", "fullLegalName"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("field %d: want %q got %q", i, want[i], names[i])
		}
	}
}

func TestInferFieldsTypeHints(t *testing.T) {
	fields := InferFields("{{executionDate}} {{clientEmail}} {{phoneNumber}} {{mailingAddress}} {{feeAmount}} {{trustName}}")
	hints := make(map[string]string, len(fields))
	for _, field := range fields {
		hints[field.Name] = field.TypeHint
	}
	expect := map[string]string{
		"executionDate":  "date",
		"clientEmail":    "email",
		"phoneNumber":    "phone",
		"mailingAddress": "address",
		"feeAmount":      "number",
		"trustName":      "text",
	}
	for name, hint := range expect {
		if hints[name] != hint {
			t.Fatalf("field %q: want hint %q got %q", name, hint, hints[name])
		}
	}
}

func TestInferFieldsLabelPreserved(t *testing.T) {
	fields := InferFields("Full Legal Name: ______")
	if len(fields) != 1 {
		t.Fatalf("expected one field, got %d", len(fields))
	}
	if fields[0].Label != "Full Legal Name" {
		t.Fatalf("expected label preserved, got %q", fields[0].Label)
	}
	if fields[0].Name != "fullLegalName" {
		t.Fatalf("expected camel-cased name, got %q", fields[0].Name)
	}
}
