// Package bom obtains the contents of Bill-of-Materials POMs.
//
// A [Resolver] turns a BOM coordinate into a [Bom]: its property table, its
// managed dependencies and the further BOMs it imports. Values are returned
// exactly as declared. Placeholders such as ${spring.version} are left in
// place so that the caller can apply its own property overrides before
// calling [Interpolate].
//
// [MavenResolver] reads POM XML from a [Source] and follows <parent> chains.
// Sources include the HTTP repository client in pkg/integrations/maven, a
// local repository directory ([DirSource]) and an ordered fallback chain
// ([ChainSource]). [StaticResolver] serves BOMs from memory.
package bom

import (
	"context"
	"maps"
	"sync"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// Bom is the resolved content of one BOM.
type Bom struct {
	Coordinate          coords.Coordinate
	Properties          map[string]string
	ManagedDependencies []ManagedDependency
	// Imports lists the BOMs this BOM imports, in declaration order.
	Imports []coords.Coordinate
}

// ManagedDependency is one <dependencyManagement> entry.
type ManagedDependency struct {
	Coordinate coords.Coordinate
	Exclusions []coords.Exclusion
}

// Resolver obtains BOM contents. Implementations must be safe for
// concurrent use.
type Resolver interface {
	ResolveBom(ctx context.Context, coordinate coords.Coordinate) (*Bom, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, coordinate coords.Coordinate) (*Bom, error)

func (f ResolverFunc) ResolveBom(ctx context.Context, coordinate coords.Coordinate) (*Bom, error) {
	return f(ctx, coordinate)
}

// StaticResolver serves BOMs from memory.
type StaticResolver struct {
	mu   sync.RWMutex
	boms map[coords.Coordinate]*Bom
}

// NewStaticResolver returns a resolver holding boms, keyed by their Coordinate.
func NewStaticResolver(boms ...*Bom) *StaticResolver {
	r := &StaticResolver{boms: make(map[coords.Coordinate]*Bom, len(boms))}
	for _, b := range boms {
		r.Add(b)
	}
	return r
}

// Add registers b, replacing any BOM with the same coordinate.
func (r *StaticResolver) Add(b *Bom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boms[b.Coordinate] = b
}

func (r *StaticResolver) ResolveBom(_ context.Context, coordinate coords.Coordinate) (*Bom, error) {
	r.mu.RLock()
	b, ok := r.boms[coordinate]
	r.mu.RUnlock()
	if !ok {
		return nil, dmerrors.New(dmerrors.ErrCodeNotFound, "BOM %s not found", coordinate)
	}
	return b.Clone(), nil
}

// Clone returns a deep copy of b.
func (b *Bom) Clone() *Bom {
	out := &Bom{
		Coordinate: b.Coordinate,
		Properties: maps.Clone(b.Properties),
		Imports:    append([]coords.Coordinate(nil), b.Imports...),
	}
	if out.Properties == nil {
		out.Properties = map[string]string{}
	}
	out.ManagedDependencies = make([]ManagedDependency, len(b.ManagedDependencies))
	for i, md := range b.ManagedDependencies {
		out.ManagedDependencies[i] = ManagedDependency{
			Coordinate: md.Coordinate,
			Exclusions: append([]coords.Exclusion(nil), md.Exclusions...),
		}
	}
	return out
}

// CachingResolver memoizes successful resolutions of another Resolver.
// A BOM imported into several scopes is then fetched and parsed once.
type CachingResolver struct {
	inner Resolver
	mu    sync.Mutex
	boms  map[coords.Coordinate]*Bom
}

// NewCachingResolver wraps inner.
func NewCachingResolver(inner Resolver) *CachingResolver {
	return &CachingResolver{inner: inner, boms: map[coords.Coordinate]*Bom{}}
}

func (r *CachingResolver) ResolveBom(ctx context.Context, coordinate coords.Coordinate) (*Bom, error) {
	r.mu.Lock()
	b, ok := r.boms[coordinate]
	r.mu.Unlock()
	if ok {
		return b.Clone(), nil
	}

	b, err := r.inner.ResolveBom(ctx, coordinate)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.boms[coordinate] = b
	r.mu.Unlock()
	return b.Clone(), nil
}
