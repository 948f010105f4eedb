// Package dsl provides builder-style handlers that turn declaration shapes
// into calls against a [management.Container].
//
// Each nested block is a function receiving a handler scoped to the
// enclosing declaration. What the block collects is applied to the container
// once the function returns without error:
//
//	ext := dsl.NewExtension(container, proj)
//	err := ext.Imports(ctx, func(h *dsl.ImportsHandler) error {
//	    return h.MavenBom("org.springframework.boot:spring-boot-dependencies:3.2.0",
//	        func(b *dsl.MavenBomHandler) error {
//	            b.BomProperty("spring-framework.version", "6.1.5")
//	            return nil
//	        })
//	})
package dsl

import (
	"context"

	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

// Handler configures dependency management for one or more scopes.
type Handler interface {
	Imports(ctx context.Context, fn func(*ImportsHandler) error) error
	Dependencies(fn func(*DependenciesHandler) error) error
}

// Extension is the project-level entry point. Its own Imports and
// Dependencies target the Global scope.
type Extension struct {
	container *management.Container
	project   *project.Project
	global    *Configurer
}

// NewExtension returns an extension over container. proj supplies property
// lookups and the set of known configurations; it may be nil, in which case
// no configuration is known and every property lookup fails.
func NewExtension(container *management.Container, proj *project.Project) *Extension {
	if proj == nil {
		proj = project.New("", nil)
	}
	return &Extension{
		container: container,
		project:   proj,
		global:    &Configurer{container: container, project: proj, scope: management.Global},
	}
}

// Imports configures BOM imports for the Global scope.
func (e *Extension) Imports(ctx context.Context, fn func(*ImportsHandler) error) error {
	return e.global.Imports(ctx, fn)
}

// Dependencies configures managed dependencies for the Global scope.
func (e *Extension) Dependencies(fn func(*DependenciesHandler) error) error {
	return e.global.Dependencies(fn)
}

// ForScope returns a configurer for a declared configuration, or
// UNKNOWN_SCOPE.
func (e *Extension) ForScope(name string) (*Configurer, error) {
	if _, err := e.project.Configuration(name); err != nil {
		return nil, err
	}
	return &Configurer{container: e.container, project: e.project, scope: management.Scope(name)}, nil
}

// Scopes returns a handler applying each block to every named
// configuration, in the order given.
func (e *Extension) Scopes(names ...string) (CompoundConfigurer, error) {
	out := make(CompoundConfigurer, 0, len(names))
	for _, name := range names {
		c, err := e.ForScope(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ImportedProperties returns the properties of BOMs imported into Global.
func (e *Extension) ImportedProperties() map[string]string {
	return e.container.ImportedPropertiesForScope(management.Global)
}

// ManagedVersions returns the Global managed versions.
func (e *Extension) ManagedVersions() map[string]string {
	return e.container.ManagedVersions(management.Global)
}

// OwnManagedVersions returns the Global managed versions without fallback.
// For Global the two are the same; the form exists for symmetry with
// per-scope queries.
func (e *Extension) OwnManagedVersions() map[string]string {
	return e.container.ManagedVersionsForScope(management.Global, false)
}

func (e *Extension) SetApplyMavenExclusions(apply bool) {
	e.container.Settings().ApplyMavenExclusions = apply
}

func (e *Extension) SetOverriddenByDependencies(overridden bool) {
	e.container.Settings().OverriddenByDependencies = overridden
}

// GeneratedPomCustomization configures how a POM writer treats managed
// versions and imported BOMs.
func (e *Extension) GeneratedPomCustomization(fn func(*PomCustomizationHandler) error) error {
	h := &PomCustomizationHandler{pending: e.container.Settings().PomCustomization}
	if err := fn(h); err != nil {
		return err
	}
	e.container.Settings().PomCustomization = h.pending
	return nil
}

// PomCustomizationSettings returns the current POM customization.
func (e *Extension) PomCustomizationSettings() settings.PomCustomization {
	return e.container.Settings().PomCustomization
}

// Configurer targets a single scope.
type Configurer struct {
	container *management.Container
	project   *project.Project
	scope     management.Scope
}

// Scope returns the configured scope.
func (c *Configurer) Scope() management.Scope { return c.scope }

func (c *Configurer) Imports(ctx context.Context, fn func(*ImportsHandler) error) error {
	return fn(&ImportsHandler{ctx: ctx, container: c.container, project: c.project, scope: c.scope})
}

func (c *Configurer) Dependencies(fn func(*DependenciesHandler) error) error {
	return fn(&DependenciesHandler{container: c.container, project: c.project, scope: c.scope})
}

// CompoundConfigurer applies each block to several scopes in turn. The
// first failure stops the remaining scopes.
type CompoundConfigurer []*Configurer

func (cc CompoundConfigurer) Imports(ctx context.Context, fn func(*ImportsHandler) error) error {
	for _, c := range cc {
		if err := c.Imports(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}

func (cc CompoundConfigurer) Dependencies(fn func(*DependenciesHandler) error) error {
	for _, c := range cc {
		if err := c.Dependencies(fn); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Handler = (*Extension)(nil)
	_ Handler = (*Configurer)(nil)
	_ Handler = CompoundConfigurer(nil)
)
