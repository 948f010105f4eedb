package management

import (
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

// slot holds every declaration of one key within one scope.
//
// The active entry is the latest DIRECT entry if any, else the latest BOM
// entry. Exclusions are tracked per origin class. An entry that matches the
// active version adds its exclusions to its class. A new winner with a
// different version resets both classes to its own exclusions. A losing
// entry with a different version contributes nothing.
type slot struct {
	direct  *Entry
	bom     *Entry
	history []Entry

	directExcl coords.Exclusions
	bomExcl    coords.Exclusions
}

func newSlot() *slot {
	return &slot{directExcl: coords.NewExclusions(), bomExcl: coords.NewExclusions()}
}

func (s *slot) active() *Entry {
	if s.direct != nil {
		return s.direct
	}
	return s.bom
}

// apply records e and reports whether it became the active entry.
func (s *slot) apply(e Entry) bool {
	s.history = append(s.history, e)
	prev := s.active()
	won := e.Origin == OriginDirect || s.direct == nil

	stored := e.clone()
	if e.Origin == OriginDirect {
		s.direct = &stored
	} else {
		s.bom = &stored
	}

	switch {
	case prev != nil && prev.Version == e.Version:
		s.classExclusions(e.Origin).Add(e.Exclusions.Sorted()...)
	case won:
		s.directExcl = coords.NewExclusions()
		s.bomExcl = coords.NewExclusions()
		s.classExclusions(e.Origin).Add(e.Exclusions.Sorted()...)
	}
	return won
}

func (s *slot) classExclusions(o Origin) coords.Exclusions {
	if o == OriginDirect {
		return s.directExcl
	}
	return s.bomExcl
}

func (s *slot) managed(overridable bool) Managed {
	a := s.active()
	return Managed{
		Coordinate:       coords.New(a.Key.Group, a.Key.Name, a.Version),
		Scope:            a.Scope,
		Origin:           a.Origin,
		Bom:              a.Bom,
		Exclusions:       s.directExcl.Union(s.bomExcl),
		DirectExclusions: s.directExcl.Clone(),
		BomExclusions:    s.bomExcl.Clone(),
		Overridable:      overridable,
		Sequence:         a.Sequence,
	}
}
