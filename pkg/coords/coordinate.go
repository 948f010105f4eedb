// Package coords defines the value types shared by every layer of dependency
// management: coordinates, version-table keys, exclusions and dependency sets.
//
// Coordinates are identified for lookup purposes by their [Key] (group and
// name only). The version is the value being managed, never part of the
// identity.
package coords

import (
	"strings"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

const (
	keyGroup   = "group"
	keyName    = "name"
	keyVersion = "version"
)

// Key identifies a managed dependency in a version table.
type Key struct {
	Group string
	Name  string
}

// String returns "group:name".
func (k Key) String() string { return k.Group + ":" + k.Name }

// Coordinate is an immutable group:name:version triple.
type Coordinate struct {
	Group   string
	Name    string
	Version string
}

// New returns a Coordinate with surrounding whitespace trimmed from each part.
func New(group, name, version string) Coordinate {
	return Coordinate{
		Group:   strings.TrimSpace(group),
		Name:    strings.TrimSpace(name),
		Version: strings.TrimSpace(version),
	}
}

// Key returns the version-table key of c.
func (c Coordinate) Key() Key { return Key{Group: c.Group, Name: c.Name} }

// String returns "group:name:version".
func (c Coordinate) String() string { return c.Group + ":" + c.Name + ":" + c.Version }

// IsComplete reports whether group, name and version all have text.
func (c Coordinate) IsComplete() bool {
	return dmerrors.HasText(c.Group) && dmerrors.HasText(c.Name) && dmerrors.HasText(c.Version)
}

// Validate returns a VALIDATION error naming every blank component. A
// component containing ':' or a control character is rejected as well,
// since it would make the string form ambiguous.
func (c Coordinate) Validate() error {
	fields := []dmerrors.Field{
		{Name: keyGroup, Value: c.Group},
		{Name: keyName, Value: c.Name},
		{Name: keyVersion, Value: c.Version},
	}
	if err := dmerrors.RequireText("managed version '"+c.String()+"'", fields...); err != nil {
		return err
	}
	for _, f := range fields {
		if err := dmerrors.ValidateCoordinatePart(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// ParseCoordinate parses a dependency identifier of the form "group:name:version".
// Any other number of components yields a MALFORMED_COORDINATE error that
// cites the required form.
func ParseCoordinate(id string) (Coordinate, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return Coordinate{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Dependency identifier '%s' is malformed. The required form is 'group:name:version'", id)
	}
	return New(parts[0], parts[1], parts[2]), nil
}

// ParseBomCoordinate parses BOM coordinates of the form "groupId:artifactId:version".
// All three components must have text.
func ParseBomCoordinate(id string) (Coordinate, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return Coordinate{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Bom coordinates '%s' must be of the form groupId:artifactId:version", id)
	}
	c := New(parts[0], parts[1], parts[2])
	if !c.IsComplete() {
		return Coordinate{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Bom coordinates '%s' must be of the form groupId:artifactId:version", id)
	}
	return c, nil
}

// ParseKey parses "group:name".
func ParseKey(id string) (Key, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 2 || !dmerrors.HasText(parts[0]) || !dmerrors.HasText(parts[1]) {
		return Key{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Identifier '%s' is malformed. The required form is 'group:name'", id)
	}
	return Key{Group: strings.TrimSpace(parts[0]), Name: strings.TrimSpace(parts[1])}, nil
}

// FromMap builds a Coordinate from a map with "group", "name" and "version" keys.
// Missing keys are reported together, in that order, as a VALIDATION error.
func FromMap(id map[string]string) (Coordinate, error) {
	var missing []string
	for _, k := range []string{keyGroup, keyName, keyVersion} {
		if _, ok := id[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Coordinate{}, dmerrors.New(dmerrors.ErrCodeValidation,
			"Dependency identifier '%s' did not specify %s", formatMap(id), strings.Join(missing, ", "))
	}
	return New(id[keyGroup], id[keyName], id[keyVersion]), nil
}

// formatMap renders a coordinate map in a stable key order for messages.
func formatMap(m map[string]string) string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	write := func(k, v string) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k + ":" + v)
	}
	for _, k := range []string{keyGroup, keyName, keyVersion} {
		if v, ok := m[k]; ok {
			write(k, v)
		}
	}
	for _, k := range sortedKeys(m) {
		if k != keyGroup && k != keyName && k != keyVersion {
			write(k, m[k])
		}
	}
	b.WriteByte(']')
	return b.String()
}
