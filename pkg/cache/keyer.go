package cache

import (
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
)

// Keyer generates cache keys.
type Keyer interface {
	// PomKey returns the key for the POM of c downloaded from repository.
	PomKey(repository string, c coords.Coordinate) string
}

// DefaultKeyer hashes key components so keys stay a fixed length
// regardless of repository URL or coordinate size.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PomKey(repository string, c coords.Coordinate) string {
	return hashKey("pom", repository, c.Group, c.Name, c.Version)
}

// ScopedKeyer wraps a Keyer with a prefix so several tools, or several
// versions of this one, can share a Redis instance without collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "depmgmt:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PomKey(repository string, c coords.Coordinate) string {
	return k.prefix + k.inner.PomKey(repository, c)
}
