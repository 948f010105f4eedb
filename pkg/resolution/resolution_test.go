package resolution

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Alen-lv/dependency-management-plugin/pkg/bom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
)

func newContainer(t *testing.T) *management.Container {
	t.Helper()
	b := &bom.Bom{
		Coordinate: coords.New("com.example", "platform", "1.0"),
		ManagedDependencies: []bom.ManagedDependency{{
			Coordinate: coords.New("org.hibernate", "hibernate-core", "6.4.1"),
			Exclusions: []coords.Exclusion{coords.NewExclusion("org.jboss.logging", "")},
		}},
	}
	c := management.New(bom.NewStaticResolver(b), management.WithLogger(log.New(io.Discard)))
	if err := c.ImportBom(context.Background(), management.Global, b.Coordinate, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.AddManagedVersion(management.Global, "com.google.guava", "guava", "33.0.0-jre",
		coords.NewExclusion("com.google.code.findbugs", "jsr305")); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		wantVer    string
		wantSource Source
		wantDir    Direction
	}{
		{"managed fills missing version", Request{Group: "com.google.guava", Name: "guava"}, "33.0.0-jre", SourceManaged, Unchanged},
		{"direct request overrides", Request{Group: "com.google.guava", Name: "guava", Version: "32.1.3-jre", Direct: true}, "32.1.3-jre", SourceRequested, Downgrade},
		{"transitive request is managed", Request{Group: "com.google.guava", Name: "guava", Version: "31.0.0-jre"}, "33.0.0-jre", SourceManaged, Upgrade},
		{"same version", Request{Group: "com.google.guava", Name: "guava", Version: "33.0.0-jre", Direct: true}, "33.0.0-jre", SourceManaged, Unchanged},
		{"unmanaged", Request{Group: "org.example", Name: "lib", Version: "1.2.3"}, "1.2.3", SourceRequested, Unchanged},
	}
	r := New(newContainer(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(management.Global, tt.req)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Version() != tt.wantVer || got.Source != tt.wantSource || got.Direction != tt.wantDir {
				t.Errorf("Resolve() = %s %s %s, want %s %s %s",
					got.Version(), got.Source, got.Direction, tt.wantVer, tt.wantSource, tt.wantDir)
			}
		})
	}
}

func TestResolveNotOverridable(t *testing.T) {
	c := newContainer(t)
	c.Settings().OverriddenByDependencies = false

	got, err := New(c).Resolve(management.Global, Request{Group: "com.google.guava", Name: "guava", Version: "32.1.3-jre", Direct: true})
	if err != nil {
		t.Fatal(err)
	}
	if got.Version() != "33.0.0-jre" || got.Replaced != "32.1.3-jre" {
		t.Errorf("Resolve() = %s replacing %s", got.Version(), got.Replaced)
	}
}

func TestResolveExclusions(t *testing.T) {
	c := newContainer(t)
	r := New(c)
	hibernate := Request{Group: "org.hibernate", Name: "hibernate-core"}
	logging := coords.Key{Group: "org.jboss.logging", Name: "jboss-logging"}

	got, err := r.Resolve(management.Global, hibernate)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Excludes(logging) {
		t.Error("BOM exclusions should apply by default")
	}

	c.Settings().ApplyMavenExclusions = false
	got, _ = r.Resolve(management.Global, hibernate)
	if got.Excludes(logging) {
		t.Error("BOM exclusions should not apply when applyMavenExclusions is off")
	}

	got, _ = r.Resolve(management.Global, Request{Group: "com.google.guava", Name: "guava"})
	if !slices.Equal(got.Exclusions.Strings(), []string{"com.google.code.findbugs:jsr305"}) {
		t.Errorf("direct exclusions should always apply, got %v", got.Exclusions.Strings())
	}
}

func TestResolveErrors(t *testing.T) {
	r := New(newContainer(t))

	_, err := r.Resolve(management.Global, Request{Group: "org.example", Name: "lib"})
	if !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
		t.Errorf("unmanaged without version: expected VALIDATION, got %v", err)
	}
	_, err = r.Resolve(management.Global, Request{Name: "lib", Version: "1"})
	if !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
		t.Errorf("missing group: expected VALIDATION, got %v", err)
	}

	_, err = r.ResolveAll(management.Global, []Request{
		{Group: "com.google.guava", Name: "guava"},
		{Group: "org.example", Name: "lib"},
	})
	if err == nil {
		t.Error("ResolveAll should stop at the first error")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		from, to string
		want     Direction
	}{
		{"1.0.0", "1.1.0", Upgrade},
		{"2.0", "1.9.9", Downgrade},
		{"1.2.3", "1.2.3", Unchanged},
		{"6.1.2.RELEASE", "6.1.3", Incomparable},
		{"1.0", "latest", Incomparable},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := Compare(tt.from, tt.to); got != tt.want {
				t.Errorf("Compare() = %s, want %s", got, tt.want)
			}
		})
	}
}
