package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/integrations"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(cache.NewNullCache(), time.Hour)
	client.SetBaseURL(server.URL)
	client.SetHTTPClient(server.Client())
	return client
}

func pypiResponse(license string, classifiers []string) []byte {
	data, _ := json.Marshal(map[string]any{
		"info": map[string]any{
			"license":     license,
			"classifiers": classifiers,
		},
	})
	return data
}

func TestFetchLicenseFromField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flask/json" {
			t.Errorf("path = %q, want /flask/json", r.URL.Path)
		}
		w.Write(pypiResponse("BSD-3-Clause", nil))
	})

	got, err := client.FetchLicense(context.Background(), "flask", false)
	if err != nil {
		t.Fatalf("FetchLicense failed: %v", err)
	}
	if got != "BSD-3-Clause" {
		t.Errorf("license = %q, want BSD-3-Clause", got)
	}
}

func TestFetchLicenseClassifierFallback(t *testing.T) {
	tests := []struct {
		name        string
		license     string
		classifiers []string
		want        string
	}{
		{
			name:        "empty field falls back to classifier",
			license:     "",
			classifiers: []string{"Programming Language :: Python", "License :: OSI Approved :: MIT License"},
			want:        "MIT License",
		},
		{
			name:        "UNKNOWN placeholder falls back to classifier",
			license:     "UNKNOWN",
			classifiers: []string{"License :: OSI Approved :: Apache Software License"},
			want:        "Apache Software License",
		},
		{
			name:        "padded UNKNOWN is still a placeholder",
			license:     "  UNKNOWN  ",
			classifiers: []string{"License :: OSI Approved :: MIT License"},
			want:        "MIT License",
		},
		{
			name:        "first matching classifier wins",
			license:     "",
			classifiers: []string{"License :: OSI Approved :: MIT License", "License :: OSI Approved :: Apache Software License"},
			want:        "MIT License",
		},
		{
			name:        "no license anywhere",
			license:     "",
			classifiers: []string{"Programming Language :: Python"},
			want:        integrations.LicenseUnknown,
		},
		{
			name:        "UNKNOWN with no classifier stays as-is",
			license:     "UNKNOWN",
			classifiers: nil,
			want:        "UNKNOWN",
		},
		{
			name:        "lowercase unknown is not a placeholder",
			license:     "unknown",
			classifiers: []string{"License :: OSI Approved :: MIT License"},
			want:        "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(pypiResponse(tt.license, tt.classifiers))
			})

			got, err := client.FetchLicense(context.Background(), "somepkg", false)
			if err != nil {
				t.Fatalf("FetchLicense failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("license = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchLicenseNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchLicense(context.Background(), "no-such-package", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFetchLicenseServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchLicense(context.Background(), "flask", false)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestFetchLicenseTrimsName(t *testing.T) {
	var requested string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write(pypiResponse("MIT", nil))
	})

	if _, err := client.FetchLicense(context.Background(), "  flask  ", false); err != nil {
		t.Fatal(err)
	}
	if requested != "/flask/json" {
		t.Errorf("requested path = %q", requested)
	}
}

func TestFetchLicenseCaches(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(pypiResponse("MIT", nil))
	}))
	defer server.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(backend, time.Hour)
	client.SetBaseURL(server.URL)
	client.SetHTTPClient(server.Client())

	ctx := context.Background()
	for range 2 {
		got, err := client.FetchLicense(ctx, "flask", false)
		if err != nil {
			t.Fatal(err)
		}
		if got != "MIT" {
			t.Errorf("license = %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("registry calls = %d, want 1", calls)
	}
}
