package coords

import (
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// DependencySet is shorthand for several artifacts sharing a group and version.
// It is expanded at declaration time and never stored as such.
type DependencySet struct {
	Group     string
	Version   string
	Artifacts []string
}

// DependencySetFromMap reads the "group" and "version" keys of spec.
func DependencySetFromMap(spec map[string]string) DependencySet {
	return DependencySet{Group: spec[keyGroup], Version: spec[keyVersion]}
}

// Validate requires both a group and a version.
func (s DependencySet) Validate() error {
	if !dmerrors.HasText(s.Group) || !dmerrors.HasText(s.Version) {
		return dmerrors.New(dmerrors.ErrCodeValidation, "A dependency set requires both a group and a version")
	}
	return nil
}

// Expand returns one coordinate per artifact, in declaration order.
func (s DependencySet) Expand() []Coordinate {
	out := make([]Coordinate, 0, len(s.Artifacts))
	for _, a := range s.Artifacts {
		out = append(out, New(s.Group, a, s.Version))
	}
	return out
}
