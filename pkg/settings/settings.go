// Package settings holds the project-wide switches that shape how managed
// versions are consumed downstream.
package settings

import (
	"strings"

	"github.com/spf13/viper"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// Settings are read by dependency-graph resolution and POM generation.
// The container itself only reports them alongside managed versions.
type Settings struct {
	// ApplyMavenExclusions propagates exclusions declared on BOM entries
	// into resolution. Exclusions declared directly always apply.
	ApplyMavenExclusions bool

	// OverriddenByDependencies lets a version requested by a direct
	// dependency declaration win over the managed version.
	OverriddenByDependencies bool

	PomCustomization PomCustomization
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		ApplyMavenExclusions:     true,
		OverriddenByDependencies: true,
		PomCustomization:         DefaultPomCustomization(),
	}
}

// IncludeImportedBomAction controls how imported BOMs are written into a
// generated POM.
type IncludeImportedBomAction string

const (
	// IncludeNone leaves imported BOMs out of the generated POM.
	IncludeNone IncludeImportedBomAction = "NONE"
	// IncludeImporting adds an import-scoped entry per imported BOM.
	IncludeImporting IncludeImportedBomAction = "IMPORTING"
	// IncludeCopying copies the BOMs' managed versions into the POM.
	IncludeCopying IncludeImportedBomAction = "COPYING"
)

var actions = []IncludeImportedBomAction{IncludeNone, IncludeImporting, IncludeCopying}

// ParseIncludeImportedBomAction parses an action name, ignoring case.
func ParseIncludeImportedBomAction(s string) (IncludeImportedBomAction, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range actions {
		if string(a) == want {
			return a, nil
		}
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return "", dmerrors.New(dmerrors.ErrCodeValidation,
		"unknown includeImportedBomsBy value '%s', expected one of %s", s, strings.Join(names, ", "))
}

// PomCustomization is configuration for a POM-writing collaborator.
// Nothing in this module writes POMs.
type PomCustomization struct {
	Enabled             bool
	IncludeImportedBoms IncludeImportedBomAction
}

// DefaultPomCustomization is enabled and imports BOMs by reference.
func DefaultPomCustomization() PomCustomization {
	return PomCustomization{Enabled: true, IncludeImportedBoms: IncludeImporting}
}

// Viper keys read by [FromViper].
const (
	KeyApplyMavenExclusions     = "apply-maven-exclusions"
	KeyOverriddenByDependencies = "overridden-by-dependencies"
	KeyPomEnabled               = "pom.enabled"
	KeyPomIncludeImportedBoms   = "pom.include-imported-boms"
)

// SetDefaults registers the default values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyApplyMavenExclusions, d.ApplyMavenExclusions)
	v.SetDefault(KeyOverriddenByDependencies, d.OverriddenByDependencies)
	v.SetDefault(KeyPomEnabled, d.PomCustomization.Enabled)
	v.SetDefault(KeyPomIncludeImportedBoms, string(d.PomCustomization.IncludeImportedBoms))
}

// FromViper reads settings from v. Keys that are not set keep their defaults.
func FromViper(v *viper.Viper) (Settings, error) {
	s := Default()
	if v.IsSet(KeyApplyMavenExclusions) {
		s.ApplyMavenExclusions = v.GetBool(KeyApplyMavenExclusions)
	}
	if v.IsSet(KeyOverriddenByDependencies) {
		s.OverriddenByDependencies = v.GetBool(KeyOverriddenByDependencies)
	}
	if v.IsSet(KeyPomEnabled) {
		s.PomCustomization.Enabled = v.GetBool(KeyPomEnabled)
	}
	if v.IsSet(KeyPomIncludeImportedBoms) {
		a, err := ParseIncludeImportedBomAction(v.GetString(KeyPomIncludeImportedBoms))
		if err != nil {
			return Settings{}, err
		}
		s.PomCustomization.IncludeImportedBoms = a
	}
	return s, nil
}
