package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rpupo63/consultancy-site-backend/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestStrictJSON(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"unknown field", `{"title":"Audit","bogus":1}`, "bogus"},
		{"wrong type", `{"title":42}`, "title"},
		{"trailing data", `{"title":"Audit"}{"title":"again"}`, "payload"},
		{"malformed", `{"title":`, "json"},
		{"empty body", ``, "payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/services", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			rec, resp := s.serve(req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Field != tt.wantField {
				t.Errorf("error = %+v, want field %q", resp.Error, tt.wantField)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/services", strings.NewReader("title=Audit"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	if rec, _ := s.serve(req); rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("form body: status = %d, want 415", rec.Code)
	}

	if services, _ := s.stores.services.FindAll(req.Context()); len(services) != 3 {
		t.Errorf("rejected requests created rows: %d services", len(services))
	}
}

func TestMultipartUpload(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()

	req := multipartRequest(t, http.MethodPost, "/api/admin/services", token,
		map[string]string{"data": `{"title":"Cloud migration","details":["Plan"," ","Move"]}`},
		formFile{field: "image", filename: "cloud.png", contentType: "image/png", body: pngHeader})
	rec, resp := s.serve(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	service := decodeData[models.Service](t, resp)
	if service.Image == nil || *service.Image != "https://cdn.example.com/service-images/cloud.png" {
		t.Errorf("image = %v", service.Image)
	}
	if len(service.Details) != 2 {
		t.Errorf("details = %v, blank entries should be dropped", service.Details)
	}
	if len(s.uploader.uploads) != 1 || s.uploader.uploads[0].contentType != "image/png" || s.uploader.uploads[0].size != int64(len(pngHeader)) {
		t.Errorf("uploads = %+v", s.uploader.uploads)
	}

	// Without a part Content-Type the bytes are sniffed
	req = multipartRequest(t, http.MethodPatch, "/api/admin/services/4", token, nil,
		formFile{field: "image", filename: "blob", body: pngHeader})
	if rec, _ := s.serve(req); rec.Code != http.StatusOK {
		t.Errorf("sniffed upload: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestMultipartRejections(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	data := map[string]string{"data": `{"title":"Audit"}`}

	tests := []struct {
		name      string
		values    map[string]string
		file      formFile
		wantCode  int
		wantField string
	}{
		{
			name:      "file too large",
			values:    data,
			file:      formFile{field: "image", filename: "big.png", contentType: "image/png", body: bytes.Repeat([]byte{0}, 5<<20+1)},
			wantCode:  http.StatusRequestEntityTooLarge,
			wantField: "image",
		},
		{
			name:      "wrong media type",
			values:    data,
			file:      formFile{field: "image", filename: "notes.txt", contentType: "text/plain", body: []byte("hello")},
			wantCode:  http.StatusUnsupportedMediaType,
			wantField: "image",
		},
		{
			name:      "unknown file field",
			values:    data,
			file:      formFile{field: "logo", filename: "logo.png", contentType: "image/png", body: pngHeader},
			wantCode:  http.StatusBadRequest,
			wantField: "logo",
		},
		{
			name:      "unknown form field",
			values:    map[string]string{"data": `{"title":"Audit"}`, "title": "Audit"},
			file:      formFile{field: "image", filename: "a.png", contentType: "image/png", body: pngHeader},
			wantCode:  http.StatusBadRequest,
			wantField: "title",
		},
		{
			name:      "invalid payload is checked before uploading",
			values:    map[string]string{"data": `{"description":"no title"}`},
			file:      formFile{field: "image", filename: "a.png", contentType: "image/png", body: pngHeader},
			wantCode:  http.StatusBadRequest,
			wantField: "title",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, "/api/admin/services", token, tt.values, tt.file)
			rec, resp := s.serve(req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Field != tt.wantField {
				t.Errorf("error = %+v, want field %q", resp.Error, tt.wantField)
			}
		})
	}
	if len(s.uploader.uploads) != 0 {
		t.Errorf("rejected requests uploaded files: %+v", s.uploader.uploads)
	}
}

func TestUploadsWithoutStorage(t *testing.T) {
	services := newServiceTable()
	h := newResourceHandler("service", itemStore[models.Service](services), nil, serviceFiles)

	req := multipartRequest(t, http.MethodPost, "/services", "", map[string]string{"data": `{"title":"Audit"}`},
		formFile{field: "image", filename: "a.png", contentType: "image/png", body: pngHeader})
	rec := httptest.NewRecorder()
	h.create()(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	// Plain JSON still works
	req = httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(`{"title":"Audit"}`))
	rec = httptest.NewRecorder()
	h.create()(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Errorf("envelope = %s", rec.Body.String())
	}
}

func TestIDsBodyValidate(t *testing.T) {
	if err := (idsBody{}).validate(); err == nil {
		t.Error("missing ids should fail")
	}
	if err := (idsBody{IDs: []int64{}}).validate(); err != nil {
		t.Errorf("an empty list clears the relation: %v", err)
	}
	if err := (idsBody{IDs: []int64{1, 0}}).validate(); err == nil {
		t.Error("non-positive ids should fail")
	}
}

func TestMultipartTempFilesRemoved(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	s := newTestServer(t, nil)
	token := s.adminToken()
	// Larger than multipartMemory so the part is spilled to disk
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 9<<20)...)

	tests := []struct {
		name     string
		values   map[string]string
		wantCode int
	}{
		{"stored", map[string]string{"data": `{"title":"Dredging"}`}, http.StatusCreated},
		{"payload rejected after parsing", map[string]string{"data": `{"title":" "}`}, http.StatusBadRequest},
		{"form rejected while parsing", map[string]string{"data": `{"title":"x"}`, "extra": "1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, "/api/admin/projects", token, tt.values,
				formFile{field: "image", filename: "site.png", contentType: "image/png", body: big})
			rec, _ := s.serve(req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			entries, err := os.ReadDir(tmp)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		})
	}
}

type rejectingServices struct {
	*memTable[models.Service]
}

func (rejectingServices) Add(context.Context, *models.Service) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "services_title_key"}
}

func TestUploadsDiscardedWhenWriteFails(t *testing.T) {
	uploader := &fakeUploader{}
	h := newResourceHandler("service", itemStore[models.Service](rejectingServices{newServiceTable()}), uploader, serviceFiles)

	req := multipartRequest(t, http.MethodPost, "/services", "", map[string]string{"data": `{"title":"Audit"}`},
		formFile{field: "image", filename: "a.png", contentType: "image/png", body: pngHeader})
	rec := httptest.NewRecorder()
	h.create()(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	want := []string{"https://cdn.example.com/service-images/a.png"}
	if !reflect.DeepEqual(uploader.removed, want) {
		t.Errorf("removed = %v, want %v", uploader.removed, want)
	}
}

func TestUploadsDiscardedWhenLaterUploadFails(t *testing.T) {
	s := newTestServer(t, nil)
	s.uploader.failAt = 2

	req := multipartRequest(t, http.MethodPost, "/api/admin/projects", s.adminToken(),
		map[string]string{"data": `{"title":"Harbour"}`},
		formFile{field: "image", filename: "front.png", contentType: "image/png", body: pngHeader},
		formFile{field: "bg_image_file", filename: "back.png", contentType: "image/png", body: pngHeader})
	rec, _ := s.serve(req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(s.uploader.uploads) != 1 || len(s.uploader.removed) != 1 ||
		s.uploader.removed[0] != "https://cdn.example.com/project-images/"+s.uploader.uploads[0].filename {
		t.Errorf("uploads = %+v, removed = %v", s.uploader.uploads, s.uploader.removed)
	}
	if projects, _ := s.stores.projects.FindAll(context.Background(), models.ProjectFilter{}); len(projects) != 0 {
		t.Errorf("project stored despite the failed upload: %+v", projects)
	}
}
