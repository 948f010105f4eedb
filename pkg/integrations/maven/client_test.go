package maven

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Alen-lv/dependency-management-plugin/pkg/cache"
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/httputil"
	"github.com/Alen-lv/dependency-management-plugin/pkg/integrations"
)

const bomPOM = `<?xml version="1.0"?>
<project>
  <groupId>org.example</groupId>
  <artifactId>example-bom</artifactId>
  <version>1.0.0</version>
  <packaging>pom</packaging>
</project>`

func TestPomPath(t *testing.T) {
	tests := []struct {
		coord coords.Coordinate
		want  string
	}{
		{coords.New("org.example", "example-bom", "1.0.0"), "org/example/example-bom/1.0.0/example-bom-1.0.0.pom"},
		{coords.New("junit", "junit-bom", "5.10.1"), "junit/junit-bom/5.10.1/junit-bom-5.10.1.pom"},
	}
	for _, tt := range tests {
		t.Run(tt.coord.String(), func(t *testing.T) {
			if got := PomPath(tt.coord); got != tt.want {
				t.Errorf("PomPath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(nil, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if c.URL() != DefaultRepository {
		t.Errorf("URL() = %s, want %s", c.URL(), DefaultRepository)
	}

	if _, err := NewClient(nil, "ftp://example.com", time.Hour); !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
		t.Errorf("ftp URL should be rejected, got %v", err)
	}

	c, _ = NewClient(nil, "https://maven.example.com/releases/", time.Hour)
	if got := c.PomURL(coords.New("g", "a", "1")); got != "https://maven.example.com/releases/g/a/1/a-1.pom" {
		t.Errorf("PomURL() = %s", got)
	}
}

func TestClient_FetchPOM(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/maven2/org/example/example-bom/1.0.0/example-bom-1.0.0.pom" {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(bomPOM))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(t, server.URL+"/maven2")
	coord := coords.New("org.example", "example-bom", "1.0.0")

	data, err := c.FetchPOM(context.Background(), coord)
	if err != nil {
		t.Fatalf("FetchPOM failed: %v", err)
	}
	if string(data) != bomPOM {
		t.Errorf("unexpected body: %s", data)
	}

	if _, err := c.FetchPOM(context.Background(), coord); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("second fetch should be served from cache, hits = %d", hits.Load())
	}
}

func TestClient_FetchPOM_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.FetchPOM(context.Background(), coords.New("org.missing", "bom", "1.0"))
	if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Error("transport sentinel should be reachable")
	}
}

func TestClient_FetchPOM_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.FetchPOM(context.Background(), coords.New("g", "a", "1"))
	if !dmerrors.Is(err, dmerrors.ErrCodeNetwork) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
}

func TestClient_FetchPOM_Incomplete(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1")
	_, err := c.FetchPOM(context.Background(), coords.New("g", "a", ""))
	if !dmerrors.Is(err, dmerrors.ErrCodeMalformedCoordinate) {
		t.Errorf("expected MALFORMED_COORDINATE, got %v", err)
	}
}

func TestClient_FetchPOM_Offline(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewClient(fc, "http://127.0.0.1:1", time.Hour, WithOffline(true))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.FetchPOM(context.Background(), coords.New("g", "a", "1"))
	if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
		t.Errorf("uncached POM offline should be NOT_FOUND, got %v", err)
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewClient(fc, serverURL, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c.SetRetryPolicy(httputil.Policy{Attempts: 2, Delay: time.Millisecond})
	return c
}
