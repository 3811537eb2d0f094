// File path: internal/api/server_test.go
package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/belriyad/docgen/internal/blob"
	"github.com/belriyad/docgen/internal/generate"
	"github.com/belriyad/docgen/internal/llm/providers"
	"github.com/belriyad/docgen/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	blobs, err := blob.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	provider := providers.NewLocalProvider()
	orch := generate.New(catalog, blobs, provider, generate.Config{})
	srv, err := NewServer(catalog, blobs, provider, orch)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func templateDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, text := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(text))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create docx entry: %v", err)
	}
	if _, err := entry.Write(body.Bytes()); err != nil {
		t.Fatalf("write docx entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return buffer.Bytes()
}

func uploadTemplate(t *testing.T, srv *Server, name string, document []byte) store.Template {
	t.Helper()
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", name+".docx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(document); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.WriteField("name", name); err != nil {
		t.Fatalf("write name field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/templates", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload template: status %d body %s", rr.Code, rr.Body.String())
	}
	var resp templateUploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp.Template
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestTemplateUploadInfersFields(t *testing.T) {
	srv := newTestServer(t)
	document := templateDocx(t,
		"REVOCABLE LIVING TRUST",
		"This trust is made by {{fullName}} on {{executionDate}}.",
		"Successor Trustee: ________",
	)
	tmpl := uploadTemplate(t, srv, "Living Trust", document)
	if tmpl.ID == "" || tmpl.Format != store.FormatDocx {
		t.Fatalf("unexpected template: %+v", tmpl)
	}
	names := make([]string, len(tmpl.Fields))
	for i, field := range tmpl.Fields {
		names[i] = field.Name
	}
	want := []string{"fullName", "executionDate", "successorTrustee"}
	if len(names) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("field %d: want %q got %q", i, want[i], names[i])
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/templates/"+tmpl.ID, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get template: status %d", rr.Code)
	}
}

func TestTemplateUploadRejectsCorruptFile(t *testing.T) {
	srv := newTestServer(t)
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, _ := writer.CreateFormFile("file", "broken.docx")
	_, _ = part.Write([]byte("not a zip archive"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/templates", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for corrupt upload, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestTemplateGetMissing(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/templates/nope", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestIntakeToGenerationFlow(t *testing.T) {
	srv := newTestServer(t)
	document := templateDocx(t, "This trust is made by {{fullName}} and shall be known as {{trustName}}.")
	tmpl := uploadTemplate(t, srv, "Living Trust", document)

	rr := postJSON(t, srv, "/v1/services", serviceCreateRequest{Name: "Estate Planning", TemplateIDs: []string{tmpl.ID}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create service: status %d body %s", rr.Code, rr.Body.String())
	}
	var svcResp serviceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &svcResp); err != nil {
		t.Fatalf("decode service: %v", err)
	}

	rr = postJSON(t, srv, "/v1/intakes", intakeCreateRequest{ServiceID: svcResp.Service.ID})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create intake: status %d body %s", rr.Code, rr.Body.String())
	}
	var intake store.Intake
	if err := json.Unmarshal(rr.Body.Bytes(), &intake); err != nil {
		t.Fatalf("decode intake: %v", err)
	}

	// Generation before submission is a conflict.
	rr = postJSON(t, srv, "/v1/intakes/"+intake.ID+"/generate", generateRequest{})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for draft intake, got %d: %s", rr.Code, rr.Body.String())
	}

	payload, _ := json.Marshal(intakeDataRequest{Data: map[string]string{
		"fullName":  "Jane Roe",
		"trustName": "Roe Family Trust",
	}})
	req := httptest.NewRequest(http.MethodPut, "/v1/intakes/"+intake.ID+"/data", bytes.NewReader(payload))
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save intake data: status %d body %s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, srv, "/v1/intakes/"+intake.ID+"/submit", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("submit intake: status %d body %s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, srv, "/v1/intakes/"+intake.ID+"/generate", generateRequest{})
	if rr.Code != http.StatusOK {
		t.Fatalf("generate: status %d body %s", rr.Code, rr.Body.String())
	}
	var batch batchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &batch); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if batch.Total != 1 || batch.Succeeded != 1 || len(batch.ArtifactIDs) != 1 {
		t.Fatalf("unexpected batch result: %+v", batch)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/intakes/"+intake.ID+"/artifacts", nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list artifacts: status %d", rr.Code)
	}
	var artifacts artifactsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &artifacts); err != nil {
		t.Fatalf("decode artifacts: %v", err)
	}
	if len(artifacts.Artifacts) != 1 {
		t.Fatalf("expected one artifact, got %+v", artifacts)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/artifacts/"+batch.ArtifactIDs[0]+"/download", nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("download artifact: status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "wordprocessingml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if _, err := zip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len())); err != nil {
		t.Fatalf("downloaded artifact is not a docx archive: %v", err)
	}

	// Regeneration through the query flag replaces the prior artifact.
	req = httptest.NewRequest(http.MethodPost, "/v1/intakes/"+intake.ID+"/generate?regenerate=true", nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("regenerate: status %d body %s", rr.Code, rr.Body.String())
	}
	var second batchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode regenerate batch: %v", err)
	}
	if second.Regenerated != 1 || second.Succeeded != 1 {
		t.Fatalf("unexpected regenerate result: %+v", second)
	}
	if second.ArtifactIDs[0] == batch.ArtifactIDs[0] {
		t.Fatal("regeneration must mint a new artifact id")
	}
}

func TestIntakeDataRejectedAfterSubmit(t *testing.T) {
	srv := newTestServer(t)
	document := templateDocx(t, "Made by {{fullName}}.")
	tmpl := uploadTemplate(t, srv, "Simple", document)

	rr := postJSON(t, srv, "/v1/services", serviceCreateRequest{Name: "Simple Service", TemplateIDs: []string{tmpl.ID}})
	var svcResp serviceResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &svcResp)
	rr = postJSON(t, srv, "/v1/intakes", intakeCreateRequest{ServiceID: svcResp.Service.ID})
	var intake store.Intake
	_ = json.Unmarshal(rr.Body.Bytes(), &intake)

	if rr := postJSON(t, srv, "/v1/intakes/"+intake.ID+"/submit", nil); rr.Code != http.StatusOK {
		t.Fatalf("submit: status %d", rr.Code)
	}

	payload, _ := json.Marshal(intakeDataRequest{Data: map[string]string{"fullName": "Too Late"}})
	req := httptest.NewRequest(http.MethodPut, "/v1/intakes/"+intake.ID+"/data", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after submit, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServiceCreateValidation(t *testing.T) {
	srv := newTestServer(t)
	if rr := postJSON(t, srv, "/v1/services", serviceCreateRequest{Name: ""}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rr.Code)
	}
	if rr := postJSON(t, srv, "/v1/services", serviceCreateRequest{Name: "No Templates"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty template list, got %d", rr.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logs: status %d", rr.Code)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if _, ok := payload["logs"]; !ok {
		t.Fatal("logs payload missing logs key")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: status %d body %q", rr.Code, rr.Body.String())
	}
}
