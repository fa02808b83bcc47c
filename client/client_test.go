package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpupo63/consultancy-site-backend/models"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "data": data, "message": message})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *MemorySession) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := NewMemorySession()
	c := New(srv.URL+"/api", session, opts...)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c, session
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeEnvelope(w, http.StatusBadGateway, false, nil, "upstream down")
			return
		}
		writeEnvelope(w, http.StatusOK, true, []models.Service{{ID: 1, Title: "Strategy"}}, "")
	})

	services, err := c.PublicServices(context.Background())
	if err != nil {
		t.Fatalf("PublicServices: %v", err)
	}
	if len(services) != 1 || services[0].Title != "Strategy" {
		t.Errorf("services = %+v", services)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusInternalServerError, false, nil, "boom")
	})

	_, err := c.PublicServices(context.Background())
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("err = %v, want a 500 APIError", err)
	}
	if calls.Load() != 1+defaultRetries {
		t.Errorf("calls = %d, want %d", calls.Load(), 1+defaultRetries)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusNotFound, false, nil, "project not found")
	})

	_, err := c.PublicProject(context.Background(), 9)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if !strings.Contains(err.Error(), "project not found") {
		t.Errorf("message lost: %v", err)
	}
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusServiceUnavailable, false, nil, "unavailable")
	})

	title := "New"
	_, err := c.Services().Create(context.Background(), models.ServiceInput{Title: &title})
	if StatusCode(err) != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("POST was sent %d times", calls.Load())
	}
}

func TestUnauthorizedAdminClearsSession(t *testing.T) {
	fired := false
	c, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stale" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "expired access token")
	}, WithUnauthorizedHook(func() { fired = true }))
	_ = session.SetToken("stale")

	_, err := c.Projects().List(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if session.Token() != "" {
		t.Error("session should be cleared")
	}
	if !fired {
		t.Error("OnUnauthorized should fire")
	}
}

func TestUnauthorizedLoginKeepsSession(t *testing.T) {
	fired := false
	c, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "invalid username or password")
	}, WithUnauthorizedHook(func() { fired = true }))
	_ = session.SetToken("keep")

	if _, err := c.Login(context.Background(), "admin", "wrong"); !IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if session.Token() != "keep" || fired {
		t.Error("a failed login must not touch the session")
	}
}

func TestLoginStoresToken(t *testing.T) {
	c, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username != "admin" {
			t.Errorf("credentials = %+v, %v", creds, err)
		}
		writeEnvelope(w, http.StatusOK, true, map[string]any{"token": "tok", "user": map[string]any{"id": 1, "username": "admin"}}, "")
	})

	auth, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.User.Username != "admin" || session.Token() != "tok" {
		t.Errorf("auth = %+v, token = %q", auth, session.Token())
	}
}

func TestMultipartUpload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.FormValue("data"); !strings.Contains(got, `"name":"Acme"`) {
			t.Errorf("data = %s", got)
		}
		file, header, err := r.FormFile("logo")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "acme.png" || string(body) != "png-bytes" || header.Header.Get("Content-Type") != "image/png" {
			t.Errorf("file = %s %q %s", header.Filename, body, header.Header.Get("Content-Type"))
		}
		writeEnvelope(w, http.StatusCreated, true, models.Client{ID: 4, Name: "Acme"}, "")
	})

	name := "Acme"
	created, err := c.Clients().CreateWithFiles(context.Background(), models.ClientInput{Name: &name},
		[]File{{Field: "logo", Name: "acme.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")}})
	if err != nil {
		t.Fatalf("CreateWithFiles: %v", err)
	}
	if created.ID != 4 {
		t.Errorf("created = %+v", created)
	}
}

func TestCacheInvalidatedByWrites(t *testing.T) {
	var reads atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/content/services":
			reads.Add(1)
			writeEnvelope(w, http.StatusOK, true, []models.Service{{ID: 1}}, "")
		case r.Method == http.MethodDelete:
			writeEnvelope(w, http.StatusOK, true, nil, "service deleted")
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}, WithCache(NewCache(time.Minute)))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.PublicServices(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if reads.Load() != 1 {
		t.Fatalf("reads = %d, want 1 while cached", reads.Load())
	}

	if err := c.Services().Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.PublicServices(ctx); err != nil {
		t.Fatal(err)
	}
	if reads.Load() != 2 {
		t.Errorf("reads = %d, want 2 after invalidation", reads.Load())
	}
}

func TestCacheExpiresAndSharesLoads(t *testing.T) {
	cache := NewCache(time.Minute)
	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		loads.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := cached(context.Background(), cache, "k", load); err != nil || v != 7 {
				t.Errorf("cached = %d, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	if loads.Load() != 1 {
		t.Errorf("loads = %d, want 1", loads.Load())
	}

	now = now.Add(2 * time.Minute)
	if _, err := cached(context.Background(), cache, "k", load); err != nil {
		t.Fatal(err)
	}
	if loads.Load() != 2 {
		t.Errorf("expired entry should reload, loads = %d", loads.Load())
	}
}

func TestPublicPrefixes(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/admin/hero-slides/3", "/hero-slides"},
		{"/admin/footer", "/footer"},
		{"/admin/blog/articles/2/services/5", "/blog/"},
		{"/admin/team/1/services", "/team"},
	}
	for _, tt := range tests {
		got := publicPrefixes(tt.path)
		if len(got) == 0 || got[0] != tt.want {
			t.Errorf("publicPrefixes(%q) = %v, want first %q", tt.path, got, tt.want)
		}
	}
	if publicPrefixes("/auth/login") != nil {
		t.Error("non-admin paths invalidate nothing")
	}
}

func TestFileSession(t *testing.T) {
	s := NewFileSession(filepath.Join(t.TempDir(), "cmsctl", "token"))
	if s.Token() != "" {
		t.Error("missing file should read as no token")
	}
	if err := s.SetToken("abc"); err != nil {
		t.Fatal(err)
	}
	if s.Token() != "abc" {
		t.Errorf("Token = %q", s.Token())
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("clearing twice should be fine: %v", err)
	}
	if s.Token() != "" {
		t.Error("token should be gone")
	}
}
