package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"noteshub.in/noteshub/internal/core"
	"noteshub.in/noteshub/internal/store"
)

type memCatalog struct {
	rows []*store.Topic
}

func (m *memCatalog) Insert(ctx context.Context, t *store.Topic) error {
	t.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, t)
	return nil
}

func (m *memCatalog) GetByID(ctx context.Context, id int64) (*store.Topic, error) {
	for _, t := range m.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memCatalog) List(ctx context.Context, f store.TopicFilter) ([]store.Topic, int64, error) {
	out := make([]store.Topic, 0, len(m.rows))
	for _, t := range m.rows {
		if f.Class != "" && t.Class != f.Class {
			continue
		}
		if f.Subject != "" && t.Subject != f.Subject {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

type memArtifacts struct{}

func (memArtifacts) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "http://artifacts.local/" + key, nil
}

func newTestServer(catalog *memCatalog) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	upload := core.NewUploadService(catalog, memArtifacts{}, nil, log)
	browse := core.NewBrowseService(catalog)
	return NewRouter(NewHandler(upload, browse, log))
}

func TestBrowsePage(t *testing.T) {
	catalog := &memCatalog{}
	catalog.Insert(context.Background(), &store.Topic{
		Class: "XI", Subject: "Physics", Chapter: "Kinematics", Topic: "Laws of Motion",
	})
	srv := newTestServer(catalog)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Laws of Motion") {
		t.Error("expected topic name in listing")
	}
	if !strings.Contains(body, "/topics/1") {
		t.Error("expected detail link in listing")
	}
}

func TestBrowsePageFilterByClass(t *testing.T) {
	catalog := &memCatalog{}
	catalog.Insert(context.Background(), &store.Topic{Class: "XI", Subject: "Physics", Topic: "Motion"})
	catalog.Insert(context.Background(), &store.Topic{Class: "XII", Subject: "Physics", Topic: "Optics"})
	srv := newTestServer(catalog)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?class=XII", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "Optics") || strings.Contains(body, ">Motion<") {
		t.Errorf("class filter not applied:\n%s", body)
	}
}

func TestTopicDetail(t *testing.T) {
	catalog := &memCatalog{}
	notesURL := "http://artifacts.local/notes/xi/physics/motion.json"
	catalog.Insert(context.Background(), &store.Topic{
		Class: "XI", Subject: "Physics", Topic: "Motion", NotesURL: &notesURL,
	})
	srv := newTestServer(catalog)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topics/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), notesURL) {
		t.Error("expected notes URL in detail page")
	}
}

func TestTopicDetailNotFound(t *testing.T) {
	srv := newTestServer(&memCatalog{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topics/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTopicDetailBadID(t *testing.T) {
	srv := newTestServer(&memCatalog{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topics/not-a-number", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadForm(t *testing.T) {
	srv := newTestServer(&memCatalog{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teacher", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="pdf_file"`) {
		t.Error("expected file input in form")
	}
	for _, class := range classOptions {
		if !strings.Contains(body, class) {
			t.Errorf("expected class option %s in form", class)
		}
	}
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, pdf []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if pdf != nil {
		fw, err := w.CreateFormFile("pdf_file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(pdf); err != nil {
			t.Fatalf("write pdf: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/teacher/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadSubmit(t *testing.T) {
	catalog := &memCatalog{}
	srv := newTestServer(catalog)

	req := multipartUpload(t, map[string]string{
		"class":   "XI",
		"subject": "Physics",
		"chapter": "Kinematics",
		"topic":   "Laws of Motion",
		"summary": "Newton's laws.",
	}, "motion.pdf", []byte("%PDF-1.4 pretend"))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d:\n%s", rec.Code, rec.Body.String())
	}

	if len(catalog.rows) != 1 {
		t.Fatalf("expected 1 catalog row, got %d", len(catalog.rows))
	}
	row := catalog.rows[0]
	if row.Class != "XI" || row.Subject != "Physics" || row.Chapter != "Kinematics" ||
		row.Topic != "Laws of Motion" || row.Summary != "Newton's laws." {
		t.Errorf("row does not match submitted form: %+v", row)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Resource created") {
		t.Error("expected success banner on result page")
	}
	if !strings.Contains(body, "/topics/1") {
		t.Error("expected link to the new topic page")
	}
}

func TestUploadSubmitMissingTopic(t *testing.T) {
	catalog := &memCatalog{}
	srv := newTestServer(catalog)

	req := multipartUpload(t, map[string]string{
		"class":   "XI",
		"subject": "Physics",
	}, "motion.pdf", []byte("%PDF-1.4 pretend"))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(catalog.rows) != 0 {
		t.Error("rejected upload must not create a row")
	}
	if !strings.Contains(rec.Body.String(), "topic") {
		t.Error("expected inline validation message naming the field")
	}
}

func TestUploadSubmitMissingFile(t *testing.T) {
	srv := newTestServer(&memCatalog{})

	req := multipartUpload(t, map[string]string{
		"class":   "XI",
		"subject": "Physics",
		"topic":   "Motion",
	}, "", nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&memCatalog{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
