// Package project models the parts of a build project that declarations
// refer to: its properties and its declared configurations.
package project

import (
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// Project is a property source with a fixed set of configurations.
type Project struct {
	Name           string
	properties     map[string]string
	configurations mapset.Set[string]
}

// New returns a project declaring configurations.
func New(name string, properties map[string]string, configurations ...string) *Project {
	p := &Project{
		Name:           name,
		properties:     maps.Clone(properties),
		configurations: mapset.NewSet(configurations...),
	}
	if p.properties == nil {
		p.properties = map[string]string{}
	}
	return p
}

// Property returns the value of a project property, or UNKNOWN_PROPERTY.
func (p *Project) Property(name string) (string, error) {
	v, ok := p.properties[name]
	if !ok {
		return "", dmerrors.New(dmerrors.ErrCodeUnknownProperty,
			"Could not get unknown property '%s' for project '%s'", name, p.Name)
	}
	return v, nil
}

// SetProperty defines or replaces a project property.
func (p *Project) SetProperty(name, value string) { p.properties[name] = value }

// Properties returns a copy of every property.
func (p *Project) Properties() map[string]string { return maps.Clone(p.properties) }

// AddConfiguration declares configurations.
func (p *Project) AddConfiguration(names ...string) { p.configurations.Append(names...) }

// Configuration returns name if the project declares it, or UNKNOWN_SCOPE.
func (p *Project) Configuration(name string) (string, error) {
	if !p.configurations.Contains(name) {
		return "", dmerrors.New(dmerrors.ErrCodeUnknownScope,
			"Configuration with name '%s' not found in project '%s'", name, p.Name)
	}
	return name, nil
}

// Configurations returns the declared configuration names, sorted.
func (p *Project) Configurations() []string {
	names := p.configurations.ToSlice()
	slices.Sort(names)
	return names
}
