package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alen-lv/dependency-management-plugin/pkg/cache"
	"github.com/Alen-lv/dependency-management-plugin/pkg/httputil"
)

func testClient(t *testing.T) (*Client, cache.Cache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, "pom", time.Hour, map[string]string{"User-Agent": "depmgmt-test"})
	client.SetRetryPolicy(httputil.Policy{Attempts: 3, Delay: time.Millisecond})
	return client, c
}

func TestNewClient(t *testing.T) {
	client := NewClient(nil, "pom", time.Hour, nil)
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Error("nil cache should become a NullCache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("User-Agent"); got != "depmgmt-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte("<project/>"))
	}))
	defer server.Close()

	client, _ := testClient(t)
	data, err := client.GetBytes(context.Background(), server.URL+"/x.pom")
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if string(data) != "<project/>" {
		t.Errorf("GetBytes() = %q", data)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   error
		retryable bool
	}{
		{http.StatusOK, nil, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusForbidden, ErrNetwork, false},
		{http.StatusBadGateway, ErrNetwork, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := checkStatus(tt.code)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("checkStatus(%d) = %v", tt.code, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.wantErr)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	for range 2 {
		data, err := client.Cached(ctx, "k", false, fetch)
		if err != nil || string(data) != "body" {
			t.Fatalf("Cached() = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	if _, err := client.Cached(ctx, "k", true, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass the cache, calls = %d", calls)
	}
}

func TestClientCachedRetriesTransient(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, _ := testClient(t)
	data, err := client.Cached(context.Background(), "k", false, func() ([]byte, error) {
		return client.GetBytes(context.Background(), server.URL)
	})
	if err != nil || string(data) != "ok" {
		t.Fatalf("Cached() = %q, %v", data, err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClientCachedNotFoundNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, _ := testClient(t)
	_, err := client.Cached(context.Background(), "k", false, func() ([]byte, error) {
		return client.GetBytes(context.Background(), server.URL)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if attempts != 1 {
		t.Errorf("404 should not be retried, attempts = %d", attempts)
	}
}

func TestClientOffline(t *testing.T) {
	ctx := context.Background()
	client, c := testClient(t)
	client.SetOffline(true)

	fetched := false
	_, err := client.Cached(ctx, "k", false, func() ([]byte, error) {
		fetched = true
		return nil, nil
	})
	if !errors.Is(err, ErrOffline) {
		t.Errorf("err = %v, want ErrOffline", err)
	}
	if fetched {
		t.Error("offline client must not fetch")
	}

	if err := c.Set(ctx, "k", []byte("cached"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, err := client.Cached(ctx, "k", false, nil)
	if err != nil || string(data) != "cached" {
		t.Errorf("offline hit = %q, %v", data, err)
	}
}

func TestJoinURL(t *testing.T) {
	tests := map[[2]string]string{
		{"https://repo/maven2", "g/a/1/a-1.pom"}:   "https://repo/maven2/g/a/1/a-1.pom",
		{"https://repo/maven2/", "/g/a/1/a-1.pom"}: "https://repo/maven2/g/a/1/a-1.pom",
	}
	for in, want := range tests {
		if got := JoinURL(in[0], in[1]); got != want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
