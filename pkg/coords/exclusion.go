package coords

import (
	"maps"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// Wildcard is accepted in place of an exclusion name to mean "every artifact".
const Wildcard = "*"

// Exclusion names a transitive dependency to omit.
// An empty Name excludes everything published under Group.
type Exclusion struct {
	Group string
	Name  string
}

// String returns "group:name", or "group" for a group-wide exclusion.
func (e Exclusion) String() string {
	if e.Name == "" {
		return e.Group
	}
	return e.Group + ":" + e.Name
}

// Matches reports whether the exclusion applies to k.
func (e Exclusion) Matches(k Key) bool {
	return e.Group == k.Group && (e.Name == "" || e.Name == k.Name)
}

// NewExclusion normalizes a group/name pair, mapping the wildcard to "".
func NewExclusion(group, name string) Exclusion {
	name = strings.TrimSpace(name)
	if name == Wildcard {
		name = ""
	}
	return Exclusion{Group: strings.TrimSpace(group), Name: name}
}

// ParseExclusion parses "group:name" or "group".
func ParseExclusion(id string) (Exclusion, error) {
	parts := strings.Split(id, ":")
	if len(parts) > 2 || !dmerrors.HasText(parts[0]) {
		return Exclusion{}, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Exclusion '%s' is malformed. The required form is 'group:name' or 'group'", id)
	}
	if len(parts) == 1 {
		return NewExclusion(parts[0], ""), nil
	}
	return NewExclusion(parts[0], parts[1]), nil
}

// ExclusionFromMap builds an exclusion from a map with a "group" key and an
// optional "name" key ("module" is accepted as an alias).
func ExclusionFromMap(m map[string]string) (Exclusion, error) {
	group := m[keyGroup]
	if !dmerrors.HasText(group) {
		return Exclusion{}, dmerrors.New(dmerrors.ErrCodeValidation,
			"Exclusion '%s' did not specify group", formatMap(m))
	}
	name, ok := m[keyName]
	if !ok {
		name = m["module"]
	}
	return NewExclusion(group, name), nil
}

// Exclusions is a set of exclusions. The zero value is not usable; call
// [NewExclusions].
type Exclusions struct {
	set mapset.Set[Exclusion]
}

// NewExclusions returns a set holding items.
func NewExclusions(items ...Exclusion) Exclusions {
	return Exclusions{set: mapset.NewThreadUnsafeSet(items...)}
}

// Add inserts e into the set.
func (s Exclusions) Add(e ...Exclusion) { s.set.Append(e...) }

// Len returns the number of exclusions.
func (s Exclusions) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

// Contains reports whether e is in the set.
func (s Exclusions) Contains(e Exclusion) bool {
	return s.set != nil && s.set.Contains(e)
}

// Union returns a new set holding the exclusions of both s and o.
func (s Exclusions) Union(o Exclusions) Exclusions {
	out := s.Clone()
	if o.set != nil {
		out.set.Append(o.set.ToSlice()...)
	}
	return out
}

// Clone returns an independent copy of s.
func (s Exclusions) Clone() Exclusions {
	if s.set == nil {
		return NewExclusions()
	}
	return Exclusions{set: s.set.Clone()}
}

// Equal reports whether s and o hold the same exclusions.
func (s Exclusions) Equal(o Exclusions) bool {
	if s.Len() != o.Len() {
		return false
	}
	return s.Len() == 0 || s.set.Equal(o.set)
}

// Excludes reports whether any exclusion in the set matches k.
func (s Exclusions) Excludes(k Key) bool {
	for _, e := range s.Sorted() {
		if e.Matches(k) {
			return true
		}
	}
	return false
}

// Sorted returns the exclusions ordered by group, then name.
func (s Exclusions) Sorted() []Exclusion {
	if s.set == nil {
		return nil
	}
	items := s.set.ToSlice()
	slices.SortFunc(items, func(a, b Exclusion) int {
		if c := strings.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items
}

// Strings returns the sorted exclusions in their string form.
func (s Exclusions) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = e.String()
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
