package server

import (
	"bytes"
	"context"
	b64 "encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"aashub/internal/bootstrap"
	"aashub/internal/config"
	"aashub/internal/database/repositories"
	tu "aashub/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeUsers struct {
	registerErr error
	loginErr    error
	registered  []APIUser
}

func (f *fakeUsers) RegisterUser(_ context.Context, username, email, password string) error {
	f.registered = append(f.registered, APIUser{Username: username, Email: email, Password: password})
	return f.registerErr
}

func (f *fakeUsers) LoginUser(_ context.Context, identifier, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "tok-" + identifier, nil
}

type fakeVerifier struct {
	err         error
	email, code string
}

func (f *fakeVerifier) Verify(_ context.Context, email, code string) error {
	f.email, f.code = email, code
	return f.err
}

func newServer(t *testing.T, users UserService, ver VerificationService) *gin.Engine {
	t.Helper()
	tu.Quiet(t)
	res, err := bootstrap.New(config.Default(), bootstrap.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s := &Server{App: res.App, Router: res.Router, Users: users, Verifier: ver}
	return s.Handler()
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	h := newServer(t, nil, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<div id="app">`) || !strings.Contains(body, "Welcome to AAS Hub") {
		t.Fatalf("page not mounted: %s", body)
	}

	rec = do(h, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "<code>/missing</code>") {
		t.Fatalf("GET /missing = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(h, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST / = %d", rec.Code)
	}
}

func TestAssets(t *testing.T) {
	h := newServer(t, nil, nil)
	rec := do(h, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("GET /assets/app.css = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	// the raw shell is not served; it is always rendered
	rec = do(h, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /index.html = %d", rec.Code)
	}
}

func TestHealthAndAPI(t *testing.T) {
	h := newServer(t, nil, nil)
	rec := do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `"healthy"` {
		t.Fatalf("GET /health = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/health = %d", rec.Code)
	}
	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
	var routes []routeInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("routes json: %v", err)
	}
	if len(routes) != 1 || routes[0].Path != "/" || routes[0].View != "HelloWorld" {
		t.Fatalf("unexpected routes: %+v", routes)
	}
	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Header().Get("Content-Type"), "json") {
		t.Fatalf("GET /api/nope = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestSwaggerDoc(t *testing.T) {
	h := newServer(t, nil, nil)
	rec := do(h, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json = %d", rec.Code)
	}
	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc json: %v", err)
	}
	if doc.BasePath != "/api/v1" {
		t.Fatalf("basePath = %q", doc.BasePath)
	}
	for _, p := range []string{"/users/register", "/users/login", "/verify"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("doc misses %s: %v", p, doc.Paths)
		}
	}
}

func TestCORS(t *testing.T) {
	h := newServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := do(h, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func registerReq(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"ok", `{"username":"alice","email":"a@example.com","password":"pw"}`, nil, http.StatusCreated},
		{"bad json", `{"username":`, nil, http.StatusBadRequest},
		{"missing field", `{"username":"alice","password":"pw"}`, nil, http.StatusBadRequest},
		{"duplicate", `{"username":"alice","email":"a@example.com","password":"pw"}`, repositories.ErrEmailUsernameExists, http.StatusBadRequest},
		{"internal", `{"username":"alice","email":"a@example.com","password":"pw"}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUsers{registerErr: tc.err}
			rec := do(newServer(t, users, nil), registerReq(tc.body))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRegister_Unavailable(t *testing.T) {
	rec := do(newServer(t, nil, nil), registerReq(`{"username":"a","email":"a@b.c","password":"p"}`))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func loginReq(t *testing.T, identifier, password string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("identifier", identifier)
	_ = w.WriteField("password", password)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestLogin(t *testing.T) {
	rec := do(newServer(t, &fakeUsers{}, nil), loginReq(t, "alice", "pw"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "token" || cookies[0].Value != "tok-alice" || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	// urlencoded forms work too
	form := url.Values{"identifier": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(newServer(t, &fakeUsers{}, nil), req); rec.Code != http.StatusNoContent {
		t.Fatalf("urlencoded status = %d", rec.Code)
	}
}

func TestLogin_Errors(t *testing.T) {
	cases := []struct {
		name       string
		identifier string
		err        error
		want       int
	}{
		{"missing", "", nil, http.StatusBadRequest},
		{"not found", "alice", repositories.ErrUserNotFound, http.StatusNotFound},
		{"not verified", "alice", repositories.ErrUserNotVerified, http.StatusForbidden},
		{"internal", "alice", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newServer(t, &fakeUsers{loginErr: tc.err}, nil), loginReq(t, tc.identifier, "pw"))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Fatalf("no cookie expected on failure")
			}
		})
	}
}

func verifyURL(email, code string) string {
	return "/api/v1/verify?email=" + b64.RawURLEncoding.EncodeToString([]byte(email)) +
		"&code=" + b64.RawURLEncoding.EncodeToString([]byte(code))
}

func TestVerify(t *testing.T) {
	ver := &fakeVerifier{}
	rec := do(newServer(t, nil, ver), httptest.NewRequest(http.MethodGet, verifyURL("a@example.com", "Ab12Cd"), nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "User verified successfully" {
		t.Fatalf("verify = %d %s", rec.Code, rec.Body.String())
	}
	if ver.email != "a@example.com" || ver.code != "Ab12Cd" {
		t.Fatalf("decoded %q %q", ver.email, ver.code)
	}

	cases := []struct {
		name string
		url  string
		err  error
		want int
	}{
		{"bad base64", "/api/v1/verify?email=***&code=abc", nil, http.StatusBadRequest},
		{"missing", "/api/v1/verify", nil, http.StatusBadRequest},
		{"wrong code", verifyURL("a@example.com", "x"), repositories.ErrInvalidCode, http.StatusBadRequest},
		{"system", verifyURL("a@example.com", "x"), errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newServer(t, nil, &fakeVerifier{err: tc.err}), httptest.NewRequest(http.MethodGet, tc.url, nil))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
