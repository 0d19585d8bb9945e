package rows

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegisterRoutes_MountsUnderBasePath(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/admin", WithRows(map[string][]Row{"recipe": {{ID: 7}}}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/admin/api/" {
		t.Fatalf("unexpected pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/recipe/row", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":7`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMountPath(t *testing.T) {
	cases := map[string]string{
		"":        "/api/",
		"/":       "/api/",
		"admin":   "/admin/api/",
		"/admin/": "/admin/api/",
	}
	for base, want := range cases {
		if got := MountPath(base); got != want {
			t.Fatalf("MountPath(%q) = %q, want %q", base, got, want)
		}
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
