package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-with-at-least-32-bytes!"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type testServer struct {
	t        *testing.T
	router   http.Handler
	tokens   tokenIssuer
	stores   testStores
	uploader *fakeUploader
}

func newTestServer(t *testing.T, cfg map[string]string) *testServer {
	t.Helper()
	c := map[string]string{"JWT_SECRET": testSecret, "RATE_LIMIT_BURST": "100"}
	maps.Copy(c, cfg)

	stores := newTestStores()
	uploader := &fakeUploader{}
	router, err := newRouter(Dependencies{Stores: stores.stores(), Uploader: uploader, DB: fakePinger{}},
		withConfig(c), withStartupTime(time.Now()))
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	tokens, err := newTokenIssuer(c)
	if err != nil {
		t.Fatalf("newTokenIssuer: %v", err)
	}
	return &testServer{t: t, router: router, tokens: tokens, stores: stores, uploader: uploader}
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	token, _, err := s.tokens.issue(models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	if err != nil {
		s.t.Fatalf("issue: %v", err)
	}
	return token
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *ErrorBody      `json:"error"`
}

// serve runs req through the router and decodes the envelope
func (s *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, response) {
	s.t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		s.t.Fatalf("%s %s: response is not an envelope: %v\n%s", req.Method, req.URL.Path, err, rec.Body.String())
	}
	return rec, resp
}

// send issues a JSON request; an empty token sends none
func (s *testServer) send(method, path, token string, body any) (*httptest.ResponseRecorder, response) {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, resp.Data)
	}
	return out
}

type formFile struct {
	field, filename, contentType string
	body                         []byte
}

// multipartRequest builds a form with the given values and files
func multipartRequest(t *testing.T, method, path, token string, values map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.body)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	expired := tokenIssuer{secret: []byte(testSecret), ttl: time.Hour, now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expiredToken, _, _ := expired.issue(models.User{ID: 1, Username: "admin"})
	forged := tokenIssuer{secret: []byte("another-secret-another-secret-!!"), ttl: time.Hour, now: time.Now}
	forgedToken, _, _ := forged.issue(models.User{ID: 1, Username: "admin"})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "missing access token"},
		{"wrong scheme", "Token abc", "invalid access token"},
		{"garbage", "Bearer not-a-jwt", "invalid access token"},
		{"expired", "Bearer " + expiredToken, "expired access token"},
		{"wrong secret", "Bearer " + forgedToken, "invalid access token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec, resp := s.serve(req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if resp.Success || resp.Message != tt.want {
				t.Errorf("envelope = %+v, want message %q", resp, tt.want)
			}
		})
	}

	rec, _ := s.send(http.MethodGet, "/api/admin/projects", s.adminToken(), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec, resp := s.send(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || decodeData[HealthStatus](t, resp).Database != "ok" {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	h := newHealthHandler(fakePinger{err: errors.New("connection refused")}, time.Now())
	rec = httptest.NewRecorder()
	h.health()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp2 response
	json.Unmarshal(rec.Body.Bytes(), &resp2)
	if status := decodeData[HealthStatus](t, resp2); status.Status != "degraded" || status.Database != "unreachable" {
		t.Errorf("status = %+v", status)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	s := newTestServer(t, map[string]string{"RATE_LIMIT_BURST": "2", "RATE_LIMIT_INTERVAL": "1h"})

	creds := models.Credentials{Username: "nobody", Password: "wrong-password"}
	for i := 0; i < 2; i++ {
		if rec, _ := s.send(http.MethodPost, "/api/auth/login", "", creds); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, rec.Code)
		}
	}
	rec, resp := s.send(http.MethodPost, "/api/auth/login", "", creds)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || resp.Message != "too many requests" {
		t.Errorf("headers = %v, envelope = %+v", rec.Header(), resp)
	}

	// Reads are not limited
	for i := 0; i < 5; i++ {
		if rec, _ := s.send(http.MethodGet, "/api/content/services", "", nil); rec.Code != http.StatusOK {
			t.Fatalf("read %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, map[string]string{"ACCEPTED_ORIGINS": "https://site.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/content/services", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec, resp := s.serve(req)
	if rec.Code != http.StatusForbidden || resp.Success {
		t.Errorf("unknown origin: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/content/services", nil)
	req.Header.Set("Origin", "https://site.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestAllowedOrigins(t *testing.T) {
	got := allowedOrigins(map[string]string{"ACCEPTED_ORIGINS": "https://a.example", "PRODUCTION_URL": "https://b.example"})
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("origins = %v", got)
	}
	if got := allowedOrigins(map[string]string{}); len(got) != 2 {
		t.Errorf("development defaults = %v", got)
	}
	if got := allowedOrigins(map[string]string{"APP_ENV": "production"}); len(got) != 0 {
		t.Errorf("production without config should allow nothing, got %v", got)
	}
}

func TestNewRouterRequiresSecretInProduction(t *testing.T) {
	if _, err := newRouter(Dependencies{}, withConfig(map[string]string{"APP_ENV": "production"})); err == nil {
		t.Error("expected an error without JWT_SECRET in production")
	}
}
