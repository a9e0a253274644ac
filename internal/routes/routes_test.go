package routes_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/refurbly/gradeserver/internal/routes"
	pkgroutes "github.com/refurbly/gradeserver/pkg/routes"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tagHandler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tag))
	}
}

func TestBuildRegistersRoutes(t *testing.T) {
	r := routes.New(discard())
	r.RegisterRoute(pkgroutes.Route{Method: "GET", Pattern: "/healthz", Handler: tagHandler("health")})

	handler := r.Build()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "health" {
		t.Errorf("got %d %q, want 200 health", rec.Code, rec.Body.String())
	}
}

func TestBuildRegistersGroupsWithPrefix(t *testing.T) {
	r := routes.New(discard())
	r.RegisterGroup(pkgroutes.Group{
		Prefix: "/api/assessments",
		Routes: []pkgroutes.Route{
			{Method: "GET", Pattern: "", Handler: tagHandler("list")},
			{Method: "GET", Pattern: "/search", Handler: tagHandler("search")},
			{Method: "GET", Pattern: "/{id}", Handler: tagHandler("find")},
		},
	})

	handler := r.Build()

	tests := []struct {
		path string
		want string
	}{
		{"/api/assessments", "list"},
		{"/api/assessments/search", "search"},
		{"/api/assessments/abc123", "find"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Body.String() != tt.want {
			t.Errorf("GET %s = %q, want %q", tt.path, rec.Body.String(), tt.want)
		}
	}
}

func TestBuildMethodMismatch(t *testing.T) {
	r := routes.New(discard())
	r.RegisterRoute(pkgroutes.Route{Method: "POST", Pattern: "/api/assessments", Handler: tagHandler("create")})

	handler := r.Build()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/assessments", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestBuildNestedGroups(t *testing.T) {
	r := routes.New(discard())
	r.RegisterGroup(pkgroutes.Group{
		Prefix: "/api",
		Children: []pkgroutes.Group{{
			Prefix: "/assessments",
			Routes: []pkgroutes.Route{
				{Method: "GET", Pattern: "/search", Handler: tagHandler("nested")},
			},
		}},
	})

	handler := r.Build()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/assessments/search", nil))

	if rec.Body.String() != "nested" {
		t.Errorf("nested group route = %q, want nested", rec.Body.String())
	}
}
