package management

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Alen-lv/dependency-management-plugin/pkg/bom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

const compile Scope = "compile"

func newTestContainer(t *testing.T, boms ...*bom.Bom) *Container {
	t.Helper()
	return New(bom.NewStaticResolver(boms...), WithLogger(log.New(io.Discard)))
}

func mustAdd(t *testing.T, c *Container, scope Scope, id string, excl ...coords.Exclusion) {
	t.Helper()
	coord, err := coords.ParseCoordinate(id)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddManagedVersion(scope, coord.Group, coord.Name, coord.Version, excl...); err != nil {
		t.Fatalf("AddManagedVersion(%s): %v", id, err)
	}
}

func mustImport(t *testing.T, c *Container, scope Scope, id string, overrides map[string]string) {
	t.Helper()
	coord, err := coords.ParseBomCoordinate(id)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.ImportBom(context.Background(), scope, coord, overrides); err != nil {
		t.Fatalf("ImportBom(%s): %v", id, err)
	}
}

func TestAddManagedVersionVisible(t *testing.T) {
	tests := []struct {
		scope Scope
		id    string
	}{
		{Global, "org.slf4j:slf4j-api:2.0.9"},
		{compile, "com.google.guava:guava:33.0.0-jre"},
		{"testRuntime", "org.junit.jupiter:junit-jupiter:5.10.1"},
	}
	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			c := newTestContainer(t)
			mustAdd(t, c, tt.scope, tt.id)
			coord, _ := coords.ParseCoordinate(tt.id)
			if got := c.ManagedVersions(tt.scope)[coord.Key().String()]; got != coord.Version {
				t.Errorf("ManagedVersions(%s)[%s] = %q, want %q", tt.scope, coord.Key(), got, coord.Version)
			}
		})
	}
}

func TestAddManagedVersionValidation(t *testing.T) {
	c := newTestContainer(t)
	err := c.AddManagedVersion(compile, "com.example", "", " ")
	if !dmerrors.Is(err, dmerrors.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	if msg := dmerrors.UserMessage(err); !strings.HasSuffix(msg, "did not specify name, version") {
		t.Errorf("message should name the blank fields: %q", msg)
	}
	if len(c.ManagedVersions(compile)) != 0 {
		t.Error("failed declaration must not add an entry")
	}
}

func TestGlobalFallback(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, Global, "g:n:1.0")

	for _, s := range []Scope{compile, "runtime"} {
		if got := c.ManagedVersions(s)["g:n"]; got != "1.0" {
			t.Errorf("%s should see the global entry, got %q", s, got)
		}
	}

	mustAdd(t, c, compile, "g:n:2.0")
	if got := c.ManagedVersions(compile)["g:n"]; got != "2.0" {
		t.Errorf("compile should see its own entry, got %q", got)
	}
	if got := c.ManagedVersions("runtime")["g:n"]; got != "1.0" {
		t.Errorf("runtime should still see the global entry, got %q", got)
	}
	if got := c.ManagedVersions(Global)["g:n"]; got != "1.0" {
		t.Errorf("global should keep its entry, got %q", got)
	}

	if own := c.ManagedVersionsForScope("runtime", false); len(own) != 0 {
		t.Errorf("runtime has no own entries, got %v", own)
	}
	if own := c.ManagedVersionsForScope(compile, false); own["g:n"] != "2.0" || len(own) != 1 {
		t.Errorf("ManagedVersionsForScope(compile, false) = %v", own)
	}
}

func TestScopeEntryBeatsLaterGlobal(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, compile, "g:n:2.0")
	mustAdd(t, c, Global, "g:n:1.0")

	m, ok := c.Lookup(compile, "g", "n")
	if !ok || m.Coordinate.Version != "2.0" || m.Scope != compile {
		t.Errorf("Lookup(compile) = %+v, %v", m, ok)
	}
	m, ok = c.Lookup("runtime", "g", "n")
	if !ok || m.Coordinate.Version != "1.0" || m.Scope != Global {
		t.Errorf("Lookup(runtime) = %+v, %v", m, ok)
	}
	if _, ok := c.Lookup(compile, "g", "other"); ok {
		t.Error("undeclared coordinate should be unmanaged")
	}
}

func TestLaterDeclarationWins(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, compile, "g:n:1.0", coords.NewExclusion("a", "a"))
	mustAdd(t, c, compile, "g:n:2.0", coords.NewExclusion("b", "b"))

	m, _ := c.Lookup(compile, "g", "n")
	if m.Coordinate.Version != "2.0" {
		t.Errorf("version = %s, want 2.0", m.Coordinate.Version)
	}
	if got := m.Exclusions.Strings(); !slices.Equal(got, []string{"b:b"}) {
		t.Errorf("overridden entry should keep only the winner's exclusions, got %v", got)
	}
}

func TestSameVersionExclusionsAccumulate(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, compile, "g:n:1.0", coords.NewExclusion("a", "a"))
	mustAdd(t, c, compile, "g:n:1.0", coords.NewExclusion("b", ""))

	m, _ := c.Lookup(compile, "g", "n")
	if got := m.Exclusions.Strings(); !slices.Equal(got, []string{"a:a", "b"}) {
		t.Errorf("exclusions = %v, want union", got)
	}
}

func TestHistoryKeepsSuperseded(t *testing.T) {
	c := newTestContainer(t)
	mustAdd(t, c, compile, "g:n:1.0")
	mustAdd(t, c, compile, "g:n:2.0")
	mustAdd(t, c, compile, "g:n:3.0")

	h := c.History(compile, "g", "n")
	if len(h) != 3 {
		t.Fatalf("History() has %d entries, want 3", len(h))
	}
	for i, want := range []string{"1.0", "2.0", "3.0"} {
		if h[i].Version != want {
			t.Errorf("History()[%d].Version = %s, want %s", i, h[i].Version, want)
		}
		if i > 0 && h[i].Sequence <= h[i-1].Sequence {
			t.Error("sequence should increase")
		}
	}
	if got := c.ManagedVersions(compile); len(got) != 1 || got["g:n"] != "3.0" {
		t.Errorf("superseded entries must not appear in projections: %v", got)
	}
	if c.History(compile, "x", "y") != nil {
		t.Error("unknown key should have no history")
	}
}

func TestSettingsExposedOnManaged(t *testing.T) {
	s := settings.Default()
	c := New(nil, WithSettings(&s), WithLogger(log.New(io.Discard)))
	mustAdd(t, c, Global, "g:n:1.0")

	m, _ := c.Lookup(compile, "g", "n")
	if !m.Overridable {
		t.Error("Overridable should follow overriddenByDependencies (default true)")
	}
	s.OverriddenByDependencies = false
	m, _ = c.Lookup(compile, "g", "n")
	if m.Overridable {
		t.Error("Overridable should reflect the current settings")
	}
}

func TestContainerIdentity(t *testing.T) {
	a, b := newTestContainer(t), newTestContainer(t)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("IDs should be unique and non-empty: %q %q", a.ID(), b.ID())
	}
}

func TestScopes(t *testing.T) {
	c := newTestContainer(t, &bom.Bom{Coordinate: coords.New("g", "bom", "1")})
	mustAdd(t, c, "test", "g:n:1")
	mustAdd(t, c, Global, "g:n:1")
	mustImport(t, c, compile, "g:bom:1", nil)

	want := []Scope{Global, compile, "test"}
	if got := c.Scopes(); !slices.Equal(got, want) {
		t.Errorf("Scopes() = %v, want %v", got, want)
	}
}

func TestConcurrentReads(t *testing.T) {
	c := newTestContainer(t)
	for _, id := range []string{"g:a:1", "g:b:1", "g:c:1"} {
		mustAdd(t, c, Global, id)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if len(c.ManagedVersions(compile)) != 3 {
					t.Error("unexpected projection size")
					return
				}
				c.Lookup(compile, "g", "a")
				c.ImportedPropertiesForScope(compile)
			}
		}()
	}
	wg.Wait()
}

func TestImportBomWithoutResolver(t *testing.T) {
	c := New(nil, WithLogger(log.New(io.Discard)))
	err := c.ImportBom(context.Background(), Global, coords.New("g", "a", "1"), nil)
	if !dmerrors.Is(err, dmerrors.ErrCodeBomResolution) {
		t.Errorf("expected BOM_RESOLUTION, got %v", err)
	}
}

func TestImportBomResolverError(t *testing.T) {
	cause := dmerrors.New(dmerrors.ErrCodeNetwork, "connection refused")
	calls := 0
	r := bom.ResolverFunc(func(context.Context, coords.Coordinate) (*bom.Bom, error) {
		calls++
		return nil, cause
	})
	c := New(r, WithLogger(log.New(io.Discard)))

	err := c.ImportBom(context.Background(), compile, coords.New("g", "a", "1"), nil)
	if dmerrors.GetCode(err) != dmerrors.ErrCodeBomResolution {
		t.Fatalf("expected BOM_RESOLUTION, got %v", err)
	}
	if !errors.Is(err, cause) || !dmerrors.Is(err, dmerrors.ErrCodeNetwork) {
		t.Error("cause should be preserved")
	}
	if calls != 1 {
		t.Errorf("resolution must not be retried, calls = %d", calls)
	}
}
