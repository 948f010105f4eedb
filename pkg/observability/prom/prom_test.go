package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Alen-lv/dependency-management-plugin/pkg/observability"
)

var (
	_ observability.ContainerHooks = (*Hooks)(nil)
	_ observability.CacheHooks     = (*Hooks)(nil)
	_ observability.HTTPHooks      = (*Hooks)(nil)
)

func TestManagedVersionCounters(t *testing.T) {
	h := New(nil)

	h.OnManagedVersion("compile", "direct", true)
	h.OnManagedVersion("compile", "bom", false)
	h.OnManagedVersion("", "bom", false)

	if got := testutil.ToFloat64(h.managedVersions.WithLabelValues("direct", "active")); got != 1 {
		t.Errorf("direct/active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.managedVersions.WithLabelValues("bom", "shadowed")); got != 2 {
		t.Errorf("bom/shadowed = %v, want 2", got)
	}
}

func TestBomImportCounters(t *testing.T) {
	h := New(nil)
	ctx := context.Background()

	h.OnBomImportStart(ctx, "", "g:a:1")
	h.OnBomImportStart(ctx, "compile", "g:a:1")
	h.OnBomImportComplete(ctx, "compile", "g:a:1", 0, time.Millisecond, errors.New("boom"))
	h.OnBomImportSkipped(ctx, "compile", "g:a:1", "cycle")

	if got := testutil.ToFloat64(h.bomImports.WithLabelValues("global")); got != 1 {
		t.Errorf("global imports = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.bomImportErrors.WithLabelValues("configuration")); got != 1 {
		t.Errorf("configuration errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.bomSkipped.WithLabelValues("cycle")); got != 1 {
		t.Errorf("skipped cycle = %v, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnCacheHit(context.Background(), "pom")
	h.OnResponse(context.Background(), "GET", "repo.example", "/x.pom", 404, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"depmgmt_cache_hits_total", "depmgmt_repository_requests_total"} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := map[int]string{200: "2xx", 304: "3xx", 404: "4xx", 503: "5xx"}
	for code, want := range tests {
		if got := statusLabel(code); got != want {
			t.Errorf("statusLabel(%d) = %s, want %s", code, got, want)
		}
	}
}
