package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/terrviz/terrviz/pkg/cache"
	"github.com/terrviz/terrviz/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil)
	t.Cleanup(func() { runner.Close() })
	return New(runner, cache.NewNullCache(), Config{}, log.New(io.Discard))
}

// newSalesforceStub serves a single-page territory query response.
func newSalesforceStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"totalSize": 2,
			"done": true,
			"records": [
				{"Id": "T1", "Name": "Global", "ParentTerritory2Id": null},
				{"Id": "T2", "Name": "EMEA", "ParentTerritory2Id": "T1"}
			]
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func multipartAuth(t *testing.T, instanceURL, format, size string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("auth", "auth.json")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintf(fw, `{"access_token": "tok", "instance_url": %q}`, instanceURL)
	mw.WriteField("format", format)
	mw.WriteField("size", size)
	mw.Close()

	return &body, mw.FormDataContentType()
}

func TestIndex_ServesForm(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/visualize"`) {
		t.Error("index page missing upload form")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestVisualize_ReturnsDotAttachment(t *testing.T) {
	sf := newSalesforceStub(t)
	s := newTestServer(t)

	body, contentType := multipartAuth(t, sf.URL, "dot", "800,800")
	req := httptest.NewRequest(http.MethodPost, "/visualize", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "territories.dot") {
		t.Errorf("Content-Disposition = %q, want attachment filename", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}
	if !strings.Contains(rec.Body.String(), `"T1" -> "T2"`) {
		t.Errorf("dot output missing edge:\n%s", rec.Body.String())
	}
}

func TestVisualize_MissingUpload(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("format", "svg")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/visualize", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVisualize_InvalidAuthFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("auth", "auth.json")
	io.WriteString(fw, `{"instance_url": "https://org.example"}`) // no token
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/visualize", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVisualize_InvalidSize(t *testing.T) {
	sf := newSalesforceStub(t)
	s := newTestServer(t)

	body, contentType := multipartAuth(t, sf.URL, "dot", "800x800")
	req := httptest.NewRequest(http.MethodPost, "/visualize", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
