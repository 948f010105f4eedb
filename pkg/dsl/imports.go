package dsl

import (
	"context"
	"maps"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

// ImportsHandler declares BOM imports in one scope. It is only valid for
// the duration of the block it was passed to.
type ImportsHandler struct {
	ctx       context.Context
	container *management.Container
	project   *project.Project
	scope     management.Scope
}

// MavenBom imports the BOM "groupId:artifactId:version". An optional block
// supplies property overrides.
func (h *ImportsHandler) MavenBom(id string, configure ...func(*MavenBomHandler) error) error {
	c, err := coords.ParseBomCoordinate(id)
	if err != nil {
		return err
	}
	bh := &MavenBomHandler{properties: map[string]string{}}
	for _, fn := range configure {
		if err := fn(bh); err != nil {
			return err
		}
	}
	return h.container.ImportBom(h.ctx, h.scope, c, bh.properties)
}

// Property resolves a project property.
func (h *ImportsHandler) Property(name string) (string, error) {
	return h.project.Property(name)
}

// MavenBomHandler collects property overrides for one BOM import.
type MavenBomHandler struct {
	properties map[string]string
}

// BomProperty overrides a single BOM property.
func (h *MavenBomHandler) BomProperty(name, value string) {
	h.properties[name] = value
}

// BomProperties overrides several BOM properties.
func (h *MavenBomHandler) BomProperties(props map[string]string) {
	maps.Copy(h.properties, props)
}

// Properties returns a copy of the collected overrides.
func (h *MavenBomHandler) Properties() map[string]string {
	return maps.Clone(h.properties)
}

// PomCustomizationHandler edits the POM customization settings.
type PomCustomizationHandler struct {
	pending settings.PomCustomization
}

// SetEnabled turns generated POM customization on or off.
func (h *PomCustomizationHandler) SetEnabled(enabled bool) {
	h.pending.Enabled = enabled
}

// IncludeImportedBomsBy sets the action by name, ignoring case.
func (h *PomCustomizationHandler) IncludeImportedBomsBy(action string) error {
	a, err := settings.ParseIncludeImportedBomAction(action)
	if err != nil {
		return err
	}
	h.pending.IncludeImportedBoms = a
	return nil
}

// IncludeImportedBomsByAction sets the action.
func (h *PomCustomizationHandler) IncludeImportedBomsByAction(a settings.IncludeImportedBomAction) {
	h.pending.IncludeImportedBoms = a
}
