package management

import (
	"maps"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

// Scope names a dependency-resolution bucket such as "compile" or
// "testRuntime". Every scope falls back to [Global], and only to Global.
type Scope string

// Global holds project-wide defaults visible to every scope.
const Global Scope = ""

// String returns the scope name, or "global".
func (s Scope) String() string {
	if s == Global {
		return "global"
	}
	return string(s)
}

// Origin records how an entry entered the container.
type Origin int

const (
	// OriginDirect is an explicit declaration.
	OriginDirect Origin = iota
	// OriginBom is a version contributed by an imported BOM.
	OriginBom
)

func (o Origin) String() string {
	if o == OriginBom {
		return "bom"
	}
	return "direct"
}

// Entry is one recorded declaration. Superseded entries stay available
// through [Container.History].
type Entry struct {
	Key        coords.Key
	Version    string
	Exclusions coords.Exclusions
	Scope      Scope
	Origin     Origin
	// Bom is the declaring BOM for OriginBom entries.
	Bom      coords.Coordinate
	Sequence uint64
}

func (e Entry) clone() Entry {
	e.Exclusions = e.Exclusions.Clone()
	return e
}

// Managed is the effective managed version of one coordinate as seen from
// a scope.
type Managed struct {
	Coordinate coords.Coordinate
	// Scope is where the entry lives: the queried scope or Global.
	Scope  Scope
	Origin Origin
	Bom    coords.Coordinate

	// Exclusions is DirectExclusions ∪ BomExclusions.
	Exclusions       coords.Exclusions
	DirectExclusions coords.Exclusions
	BomExclusions    coords.Exclusions

	// Overridable reports whether a directly requested version may replace
	// Coordinate.Version during resolution.
	Overridable bool
	Sequence    uint64
}

// ImportedBom records one BOM import.
type ImportedBom struct {
	Coordinate coords.Coordinate
	Scope      Scope
	// Properties are the BOM's own properties overlaid with Overrides.
	Properties map[string]string
	Overrides  map[string]string
	// Parent is the importing BOM for transitive imports, nil for imports
	// declared by the user.
	Parent *coords.Coordinate
}

func (b ImportedBom) clone() ImportedBom {
	b.Properties = maps.Clone(b.Properties)
	b.Overrides = maps.Clone(b.Overrides)
	if b.Parent != nil {
		p := *b.Parent
		b.Parent = &p
	}
	return b
}
