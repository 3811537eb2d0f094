// File path: internal/generate/assemble_test.go
package generate

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func readZipEntry(t *testing.T, document []byte, name string) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		t.Fatalf("open assembled archive: %v", err)
	}
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(body)
	}
	t.Fatalf("entry %s missing from archive", name)
	return ""
}

func TestAssembleProducesDocxArchive(t *testing.T) {
	document, err := Assemble("First paragraph.\nSecond & final paragraph.", "Living Trust", 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		_ = readZipEntry(t, document, name)
	}
	body := readZipEntry(t, document, "word/document.xml")
	if !strings.Contains(body, "Living Trust") {
		t.Fatalf("title missing from document body: %q", body)
	}
	if !strings.Contains(body, "First paragraph.") {
		t.Fatalf("first paragraph missing: %q", body)
	}
	if !strings.Contains(body, "Second &amp; final paragraph.") {
		t.Fatalf("ampersand must be escaped: %q", body)
	}
}

func TestAssembleRejectsEmptyText(t *testing.T) {
	if _, err := Assemble("   \n  ", "Living Trust", 0); !errors.Is(err, ErrAssemblyFailed) {
		t.Fatalf("expected ErrAssemblyFailed, got %v", err)
	}
}

func TestAssembleRejectsOversizeText(t *testing.T) {
	large := strings.Repeat("legal boilerplate ", 100)
	if _, err := Assemble(large, "Living Trust", 64); !errors.Is(err, ErrAssemblyFailed) {
		t.Fatalf("expected ErrAssemblyFailed, got %v", err)
	}
}

func TestAssembleOutputSurvivesRoundTrip(t *testing.T) {
	document, err := Assemble("Made by Jane Roe on 2026-01-15.", "Power of Attorney", 1<<20)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	body := readZipEntry(t, document, "word/document.xml")
	if !strings.Contains(body, "Made by Jane Roe on 2026-01-15.") {
		t.Fatalf("paragraph text lost: %q", body)
	}
}
