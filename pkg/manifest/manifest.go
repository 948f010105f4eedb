// Package manifest reads dependency management declarations from a TOML
// file and replays them through [dsl.Extension].
//
// A manifest looks like:
//
//	[project]
//	name = "demo"
//	configurations = ["compile", "runtime"]
//
//	[project.properties]
//	slf4jVersion = "2.0.9"
//
//	[settings]
//	apply-maven-exclusions = true
//
//	[[imports]]
//	bom = "org.springframework.boot:spring-boot-dependencies:3.2.0"
//	properties = { "spring-framework.version" = "6.1.5" }
//
//	[[dependencies]]
//	id = "com.google.guava:guava:33.0.0-jre"
//	exclusions = ["com.google.code.findbugs:jsr305"]
//
//	[[dependency-sets]]
//	group = "org.slf4j"
//	version = "${slf4jVersion}"
//	artifacts = ["slf4j-api", "slf4j-simple"]
//
//	[[configurations.runtime.dependencies]]
//	id = "org.postgresql:postgresql:42.7.1"
//
// Values written ${name} are resolved against the project properties.
package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
)

// DefaultFile is the manifest name looked up in the working directory.
const DefaultFile = "dependency-management.toml"

// Manifest is a decoded declaration file.
type Manifest struct {
	Project        ProjectSpec         `toml:"project"`
	Settings       SettingsSpec        `toml:"settings"`
	Pom            PomSpec             `toml:"pom"`
	Imports        []ImportSpec        `toml:"imports"`
	Dependencies   []DependencySpec    `toml:"dependencies"`
	DependencySets []DependencySetSpec `toml:"dependency-sets"`
	Configurations map[string]Block    `toml:"configurations"`

	// Path is the file the manifest was read from, if any.
	Path string `toml:"-"`
}

type ProjectSpec struct {
	Name           string            `toml:"name"`
	Configurations []string          `toml:"configurations"`
	Properties     map[string]string `toml:"properties"`
}

// SettingsSpec fields are pointers so that an absent key leaves the
// current value alone.
type SettingsSpec struct {
	ApplyMavenExclusions     *bool `toml:"apply-maven-exclusions"`
	OverriddenByDependencies *bool `toml:"overridden-by-dependencies"`
}

type PomSpec struct {
	Enabled             *bool  `toml:"enabled"`
	IncludeImportedBoms string `toml:"include-imported-boms"`
}

// Block holds the declarations of one scope.
type Block struct {
	Imports        []ImportSpec        `toml:"imports"`
	Dependencies   []DependencySpec    `toml:"dependencies"`
	DependencySets []DependencySetSpec `toml:"dependency-sets"`
}

type ImportSpec struct {
	Bom        string            `toml:"bom"`
	Properties map[string]string `toml:"properties"`
}

// DependencySpec is either the string form (ID) or the map form (Group,
// Name, Version), never both.
type DependencySpec struct {
	ID         string   `toml:"id"`
	Group      string   `toml:"group"`
	Name       string   `toml:"name"`
	Version    string   `toml:"version"`
	Exclusions []string `toml:"exclusions"`
}

type DependencySetSpec struct {
	Group     string   `toml:"group"`
	Version   string   `toml:"version"`
	Artifacts []string `toml:"artifacts"`
	// Exclusions maps an artifact name to its exclusions.
	Exclusions map[string][]string `toml:"exclusions"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dmerrors.Wrap(dmerrors.ErrCodeNotFound, err, "manifest %s not found", path)
		}
		return nil, dmerrors.Wrap(dmerrors.ErrCodeInternal, err, "read manifest %s", path)
	}
	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	m.Path = path
	if m.Project.Name == "" {
		if abs, err := filepath.Abs(path); err == nil {
			m.Project.Name = filepath.Base(filepath.Dir(abs))
		}
	}
	return m, nil
}

// Parse decodes manifest data. source names the data in error messages.
// Unknown keys are rejected.
func Parse(data []byte, source string) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, dmerrors.Wrap(dmerrors.ErrCodeInvalidManifest, err, "invalid manifest %s", source)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, dmerrors.New(dmerrors.ErrCodeInvalidManifest,
			"invalid manifest %s: unknown keys %s", source, strings.Join(keys, ", "))
	}
	if err := m.validate(source); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate(source string) error {
	blocks := map[string]Block{"": m.global()}
	for name, b := range m.Configurations {
		blocks[name] = b
	}
	for scope, b := range blocks {
		for _, d := range b.Dependencies {
			if d.ID != "" && (d.Group != "" || d.Name != "" || d.Version != "") {
				return dmerrors.New(dmerrors.ErrCodeInvalidManifest,
					"invalid manifest %s: dependency %q%s mixes id with group/name/version", source, d.ID, scopeSuffix(scope))
			}
		}
		for _, imp := range b.Imports {
			if imp.Bom == "" {
				return dmerrors.New(dmerrors.ErrCodeInvalidManifest,
					"invalid manifest %s: import%s has no bom", source, scopeSuffix(scope))
			}
		}
	}
	return nil
}

func scopeSuffix(scope string) string {
	if scope == "" {
		return ""
	}
	return " in configuration " + scope
}

func (m *Manifest) global() Block {
	return Block{Imports: m.Imports, Dependencies: m.Dependencies, DependencySets: m.DependencySets}
}

// ConfigurationNames returns the configurations with declarations, sorted.
func (m *Manifest) ConfigurationNames() []string {
	names := make([]string, 0, len(m.Configurations))
	for name := range m.Configurations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewProject builds the project described by the manifest. Without an
// explicit configuration list, every configuration with declarations is
// declared.
func (m *Manifest) NewProject() *project.Project {
	configs := m.Project.Configurations
	if configs == nil {
		configs = m.ConfigurationNames()
	}
	return project.New(m.Project.Name, m.Project.Properties, configs...)
}
