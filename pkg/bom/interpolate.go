package bom

import (
	"regexp"
	"strings"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

// MaxInterpolationDepth bounds nested substitution, so that a property
// defined in terms of itself terminates.
const MaxInterpolationDepth = 16

var placeholderRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces ${name} placeholders in s with values from props.
// Substituted values are themselves interpolated, up to MaxInterpolationDepth
// rounds. ok is false if any placeholder remains.
func Interpolate(s string, props map[string]string) (string, bool) {
	for range MaxInterpolationDepth {
		if !strings.Contains(s, "${") {
			return s, true
		}
		next := placeholderRE.ReplaceAllStringFunc(s, func(m string) string {
			if v, ok := props[m[2:len(m)-1]]; ok {
				return v
			}
			return m
		})
		if next == s {
			break
		}
		s = next
	}
	return s, !HasPlaceholder(s)
}

// HasPlaceholder reports whether s still contains a ${...} reference.
func HasPlaceholder(s string) bool {
	return placeholderRE.MatchString(s)
}

// InterpolateCoordinate interpolates every component of c.
func InterpolateCoordinate(c coords.Coordinate, props map[string]string) (coords.Coordinate, bool) {
	g, ok1 := Interpolate(c.Group, props)
	n, ok2 := Interpolate(c.Name, props)
	v, ok3 := Interpolate(c.Version, props)
	return coords.New(g, n, v), ok1 && ok2 && ok3
}

// InterpolateExclusions interpolates each exclusion, dropping any that
// still hold a placeholder.
func InterpolateExclusions(in []coords.Exclusion, props map[string]string) []coords.Exclusion {
	out := make([]coords.Exclusion, 0, len(in))
	for _, e := range in {
		g, ok1 := Interpolate(e.Group, props)
		n, ok2 := Interpolate(e.Name, props)
		if ok1 && ok2 {
			out = append(out, coords.NewExclusion(g, n))
		}
	}
	return out
}

// Placeholders returns the names referenced by ${...} in s, in order of
// appearance.
func Placeholders(s string) []string {
	var out []string
	for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
