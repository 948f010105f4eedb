package management

import (
	"maps"
	"slices"
	"strings"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

// ManagedVersionsForScope returns group:name → version for scope.
// With includeGlobal, Global entries not shadowed by the scope are included.
// Querying Global returns the Global entries only.
func (c *Container) ManagedVersionsForScope(scope Scope, includeGlobal bool) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[string]string{}
	if scope != Global && includeGlobal {
		for k, s := range c.tables[Global] {
			out[k.String()] = s.active().Version
		}
	}
	for k, s := range c.tables[scope] {
		out[k.String()] = s.active().Version
	}
	return out
}

// ManagedVersions is ManagedVersionsForScope(scope, true).
func (c *Container) ManagedVersions(scope Scope) map[string]string {
	return c.ManagedVersionsForScope(scope, true)
}

// ManagedForScope returns the effective entries for scope, sorted by key.
func (c *Container) ManagedForScope(scope Scope, includeGlobal bool) []Managed {
	c.mu.RLock()
	defer c.mu.RUnlock()

	merged := map[coords.Key]*slot{}
	if scope != Global && includeGlobal {
		maps.Copy(merged, c.tables[Global])
	}
	maps.Copy(merged, c.tables[scope])

	out := make([]Managed, 0, len(merged))
	for _, s := range merged {
		out = append(out, s.managed(c.settings.OverriddenByDependencies))
	}
	slices.SortFunc(out, func(a, b Managed) int {
		return strings.Compare(a.Coordinate.Key().String(), b.Coordinate.Key().String())
	})
	return out
}

// Lookup returns the managed version of group:name for scope: the scope's
// own entry if present, else the Global entry. ok is false when the
// coordinate is unmanaged and the requested version should be used as is.
func (c *Container) Lookup(scope Scope, group, name string) (m Managed, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := coords.Key{Group: group, Name: name}
	if s, found := c.tables[scope][key]; found {
		return s.managed(c.settings.OverriddenByDependencies), true
	}
	if s, found := c.tables[Global][key]; found {
		return s.managed(c.settings.OverriddenByDependencies), true
	}
	return Managed{}, false
}

// History returns every declaration of group:name made in scope, including
// superseded ones, in declaration order. Global entries are not included
// for non-global scopes.
func (c *Container) History(scope Scope, group, name string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.tables[scope][coords.Key{Group: group, Name: name}]
	if !ok {
		return nil
	}
	out := make([]Entry, len(s.history))
	for i, e := range s.history {
		out[i] = e.clone()
	}
	return out
}

// ImportedBoms returns the BOMs imported into scope, transitive ones
// included, in the order they were resolved.
func (c *Container) ImportedBoms(scope Scope) []ImportedBom {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ImportedBom, len(c.imports[scope]))
	for i, b := range c.imports[scope] {
		out[i] = b.clone()
	}
	return out
}

// ImportedPropertiesForScope returns the properties of the BOMs imported
// into scope by the user, with overrides applied. Global imports come first
// and are overlaid by the scope's own; among imports, later ones win.
// BOMs pulled in transitively do not contribute.
func (c *Container) ImportedPropertiesForScope(scope Scope) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[string]string{}
	scopes := []Scope{Global}
	if scope != Global {
		scopes = append(scopes, scope)
	}
	for _, s := range scopes {
		for _, b := range c.imports[s] {
			if b.Parent == nil {
				maps.Copy(out, b.Properties)
			}
		}
	}
	return out
}

// Scopes returns every scope that has entries or imports, Global first
// when present, then by name.
func (c *Container) Scopes() []Scope {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := map[Scope]bool{}
	for s := range c.tables {
		seen[s] = true
	}
	for s := range c.imports {
		seen[s] = true
	}
	return slices.Sorted(maps.Keys(seen))
}
