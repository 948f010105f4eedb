package dsl

import (
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
)

// DependenciesHandler declares managed versions in one scope.
type DependenciesHandler struct {
	container *management.Container
	project   *project.Project
	scope     management.Scope
}

// Dependency declares "group:name:version". An optional block declares
// exclusions.
func (h *DependenciesHandler) Dependency(id string, configure ...func(*DependencyHandler) error) error {
	c, err := coords.ParseCoordinate(id)
	if err != nil {
		return err
	}
	return h.configure(c, configure)
}

// DependencyMap declares a dependency from "group", "name" and "version" keys.
func (h *DependenciesHandler) DependencyMap(id map[string]string, configure ...func(*DependencyHandler) error) error {
	c, err := coords.FromMap(id)
	if err != nil {
		return err
	}
	return h.configure(c, configure)
}

// DependencySet declares several artifacts sharing the "group" and
// "version" of spec. Nothing is added unless both are present and the
// block succeeds.
func (h *DependenciesHandler) DependencySet(spec map[string]string, fn func(*DependencySetHandler) error) error {
	set := coords.DependencySetFromMap(spec)
	if err := set.Validate(); err != nil {
		return err
	}
	sh := &DependencySetHandler{set: set}
	if fn != nil {
		if err := fn(sh); err != nil {
			return err
		}
	}
	for i, c := range sh.set.Expand() {
		if err := h.container.AddManagedVersion(h.scope, c.Group, c.Name, c.Version, sh.exclusions[i]...); err != nil {
			return err
		}
	}
	return nil
}

// Property resolves a project property.
func (h *DependenciesHandler) Property(name string) (string, error) {
	return h.project.Property(name)
}

func (h *DependenciesHandler) configure(c coords.Coordinate, configure []func(*DependencyHandler) error) error {
	dh := &DependencyHandler{}
	for _, fn := range configure {
		if err := fn(dh); err != nil {
			return err
		}
	}
	return h.container.AddManagedVersion(h.scope, c.Group, c.Name, c.Version, dh.exclusions...)
}

// DependencyHandler collects the exclusions of one dependency.
type DependencyHandler struct {
	exclusions []coords.Exclusion
}

// Exclude adds an exclusion written "group:name" or "group".
func (h *DependencyHandler) Exclude(id string) error {
	e, err := coords.ParseExclusion(id)
	if err != nil {
		return err
	}
	h.exclusions = append(h.exclusions, e)
	return nil
}

// ExcludeMap adds an exclusion from "group" and optional "name" keys.
func (h *DependencyHandler) ExcludeMap(m map[string]string) error {
	e, err := coords.ExclusionFromMap(m)
	if err != nil {
		return err
	}
	h.exclusions = append(h.exclusions, e)
	return nil
}

// Exclusions returns what has been collected so far.
func (h *DependencyHandler) Exclusions() []coords.Exclusion {
	return append([]coords.Exclusion(nil), h.exclusions...)
}

// DependencySetHandler collects the artifacts of a dependency set.
type DependencySetHandler struct {
	set        coords.DependencySet
	exclusions [][]coords.Exclusion
}

// Entry adds an artifact, with optional exclusions.
func (h *DependencySetHandler) Entry(name string, configure ...func(*DependencyHandler) error) error {
	dh := &DependencyHandler{}
	for _, fn := range configure {
		if err := fn(dh); err != nil {
			return err
		}
	}
	h.set.Artifacts = append(h.set.Artifacts, name)
	h.exclusions = append(h.exclusions, dh.exclusions)
	return nil
}
