package api

import (
	"net/http"
	"reflect"
	"strconv"
	"testing"
)

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()

	rec, resp := s.send(http.MethodPost, "/api/admin/projects", token, map[string]any{
		"title":        "Port logistics review",
		"organization": "Harbour Authority",
		"category":     "Infrastructure",
		"service_ids":  []int64{2, 1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decodeData[ProjectWithServices](t, resp)
	if created.ID == 0 || created.Status != "draft" {
		t.Errorf("created = %+v, want an id and draft status", created.Project)
	}
	if !reflect.DeepEqual(created.ServiceIDs, []int64{2, 1}) || len(created.Services) != 2 {
		t.Errorf("services = %v / %v", created.ServiceIDs, created.Services)
	}
	if created.UpdatedBy == nil || *created.UpdatedBy != 1 {
		t.Errorf("updated_by = %v, want the token's user", created.UpdatedBy)
	}
	path := "/api/admin/projects/" + strconv.FormatInt(created.ID, 10)
	publicPath := "/api/content/projects/" + strconv.FormatInt(created.ID, 10)

	// Drafts stay off the public site
	_, resp = s.send(http.MethodGet, "/api/content/projects", "", nil)
	if list := decodeData[[]ProjectWithServices](t, resp); len(list) != 0 {
		t.Errorf("public list shows a draft: %+v", list)
	}
	if rec, _ := s.send(http.MethodGet, publicPath, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("public get of a draft: status = %d", rec.Code)
	}
	if rec, _ := s.send(http.MethodGet, path, token, nil); rec.Code != http.StatusOK {
		t.Errorf("admin get of a draft: status = %d", rec.Code)
	}

	// A patch without service_ids keeps the links
	rec, resp = s.send(http.MethodPatch, path, token, map[string]any{"status": "completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decodeData[ProjectWithServices](t, resp)
	if updated.Status != "completed" || updated.Title != "Port logistics review" || len(updated.ServiceIDs) != 2 {
		t.Errorf("updated = %+v", updated)
	}

	_, resp = s.send(http.MethodGet, "/api/content/projects?status=completed", "", nil)
	if list := decodeData[[]ProjectWithServices](t, resp); len(list) != 1 || !reflect.DeepEqual(list[0].ServiceIDs, []int64{2, 1}) {
		t.Errorf("public list = %+v", list)
	}

	rec, resp = s.send(http.MethodPut, path+"/services", token, map[string]any{"ids": []int64{3}})
	if rec.Code != http.StatusOK || !reflect.DeepEqual(decodeData[ProjectWithServices](t, resp).ServiceIDs, []int64{3}) {
		t.Errorf("replace services: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec, resp = s.send(http.MethodPut, path+"/services", token, map[string]any{"ids": []int64{}})
	if rec.Code != http.StatusOK || len(decodeData[ProjectWithServices](t, resp).ServiceIDs) != 0 {
		t.Errorf("clear services: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if rec, _ := s.send(http.MethodDelete, path, token, nil); rec.Code != http.StatusOK {
		t.Errorf("delete: status = %d", rec.Code)
	}
	if rec, _ := s.send(http.MethodDelete, path, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestProjectValidation(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()

	tests := []struct {
		name      string
		method    string
		path      string
		body      any
		wantCode  int
		wantField string
	}{
		{"missing title", http.MethodPost, "/api/admin/projects", map[string]any{"organization": "x"}, http.StatusBadRequest, "title"},
		{"bad status", http.MethodPost, "/api/admin/projects", map[string]any{"title": "x", "status": "done"}, http.StatusBadRequest, "status"},
		{"bad service id", http.MethodPost, "/api/admin/projects", map[string]any{"title": "x", "service_ids": []int64{0}}, http.StatusBadRequest, "service_ids"},
		{"unknown project", http.MethodPatch, "/api/admin/projects/99", map[string]any{"title": "x"}, http.StatusNotFound, ""},
		{"bad id", http.MethodGet, "/api/admin/projects/abc", nil, http.StatusBadRequest, "id"},
		{"ids missing", http.MethodPut, "/api/admin/projects/1/services", map[string]any{}, http.StatusBadRequest, "ids"},
		{"bad list filter", http.MethodGet, "/api/admin/projects?status=done", nil, http.StatusBadRequest, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.send(tt.method, tt.path, token, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantField != "" && (resp.Error == nil || resp.Error.Field != tt.wantField) {
				t.Errorf("error = %+v, want field %q", resp.Error, tt.wantField)
			}
		})
	}
}
