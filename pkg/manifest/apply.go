package manifest

import (
	"context"

	"github.com/Alen-lv/dependency-management-plugin/pkg/bom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/dsl"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
)

// Apply replays the manifest through ext. Settings are applied first, then
// the global block, then each configuration in name order. proj resolves
// ${name} references and must be the project ext was built with.
func (m *Manifest) Apply(ctx context.Context, ext *dsl.Extension, proj *project.Project) error {
	r := resolver{proj}

	if v := m.Settings.ApplyMavenExclusions; v != nil {
		ext.SetApplyMavenExclusions(*v)
	}
	if v := m.Settings.OverriddenByDependencies; v != nil {
		ext.SetOverriddenByDependencies(*v)
	}
	if m.Pom.Enabled != nil || m.Pom.IncludeImportedBoms != "" {
		err := ext.GeneratedPomCustomization(func(h *dsl.PomCustomizationHandler) error {
			if m.Pom.Enabled != nil {
				h.SetEnabled(*m.Pom.Enabled)
			}
			if m.Pom.IncludeImportedBoms == "" {
				return nil
			}
			return h.IncludeImportedBomsBy(m.Pom.IncludeImportedBoms)
		})
		if err != nil {
			return err
		}
	}

	if err := applyBlock(ctx, ext, m.global(), r); err != nil {
		return err
	}
	for _, name := range m.ConfigurationNames() {
		c, err := ext.ForScope(name)
		if err != nil {
			return err
		}
		if err := applyBlock(ctx, c, m.Configurations[name], r); err != nil {
			return err
		}
	}
	return nil
}

// applyBlock applies imports before direct declarations, which is the
// order a build script conventionally uses.
func applyBlock(ctx context.Context, h dsl.Handler, b Block, r resolver) error {
	if len(b.Imports) > 0 {
		err := h.Imports(ctx, func(ih *dsl.ImportsHandler) error {
			for _, imp := range b.Imports {
				if err := applyImport(ih, imp, r); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(b.Dependencies) == 0 && len(b.DependencySets) == 0 {
		return nil
	}
	return h.Dependencies(func(dh *dsl.DependenciesHandler) error {
		for _, d := range b.Dependencies {
			if err := applyDependency(dh, d, r); err != nil {
				return err
			}
		}
		for _, s := range b.DependencySets {
			if err := applyDependencySet(dh, s, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyImport(h *dsl.ImportsHandler, imp ImportSpec, r resolver) error {
	id, err := r.resolve(imp.Bom)
	if err != nil {
		return err
	}
	overrides, err := r.resolveMap(imp.Properties)
	if err != nil {
		return err
	}
	return h.MavenBom(id, func(b *dsl.MavenBomHandler) error {
		b.BomProperties(overrides)
		return nil
	})
}

func applyDependency(h *dsl.DependenciesHandler, d DependencySpec, r resolver) error {
	excl := exclusionsBlock(d.Exclusions, r)
	if d.ID != "" {
		id, err := r.resolve(d.ID)
		if err != nil {
			return err
		}
		return h.Dependency(id, excl)
	}
	// Omitted fields stay absent so the error names them.
	id := map[string]string{}
	for k, v := range map[string]string{"group": d.Group, "name": d.Name, "version": d.Version} {
		if v != "" {
			id[k] = v
		}
	}
	m, err := r.resolveMap(id)
	if err != nil {
		return err
	}
	return h.DependencyMap(m, excl)
}

func applyDependencySet(h *dsl.DependenciesHandler, s DependencySetSpec, r resolver) error {
	spec, err := r.resolveMap(map[string]string{"group": s.Group, "version": s.Version})
	if err != nil {
		return err
	}
	return h.DependencySet(spec, func(sh *dsl.DependencySetHandler) error {
		for _, a := range s.Artifacts {
			name, err := r.resolve(a)
			if err != nil {
				return err
			}
			if err := sh.Entry(name, exclusionsBlock(s.Exclusions[a], r)); err != nil {
				return err
			}
		}
		return nil
	})
}

func exclusionsBlock(ids []string, r resolver) func(*dsl.DependencyHandler) error {
	return func(h *dsl.DependencyHandler) error {
		for _, id := range ids {
			v, err := r.resolve(id)
			if err != nil {
				return err
			}
			if err := h.Exclude(v); err != nil {
				return err
			}
		}
		return nil
	}
}

type resolver struct {
	project *project.Project
}

// resolve substitutes ${name} references with project properties. The
// first undefined name fails with UNKNOWN_PROPERTY.
func (r resolver) resolve(s string) (string, error) {
	if !bom.HasPlaceholder(s) {
		return s, nil
	}
	v, ok := bom.Interpolate(s, r.project.Properties())
	if ok {
		return v, nil
	}
	for _, name := range bom.Placeholders(v) {
		if _, err := r.project.Property(name); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (r resolver) resolveMap(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		rv, err := r.resolve(v)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}
