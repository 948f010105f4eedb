// Package resolution applies managed versions and exclusions to the
// dependencies a build requests.
//
// It is the consumer of the container's per-coordinate projection: a
// request either keeps the managed version or, when the request is direct
// and the managed entry is overridable, keeps its own. Exclusions from
// direct declarations always apply; those contributed by BOMs apply only
// while applyMavenExclusions is on.
package resolution

import (
	"github.com/Masterminds/semver/v3"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
)

// Request is one dependency as the build graph asks for it.
type Request struct {
	Group   string
	Name    string
	Version string // empty when the build leaves the version to management
	// Direct marks a first-level dependency of the project, as opposed to
	// one reached transitively.
	Direct bool
}

// Source says where the selected version came from.
type Source int

const (
	SourceRequested Source = iota
	SourceManaged
)

func (s Source) String() string {
	if s == SourceManaged {
		return "managed"
	}
	return "requested"
}

// Direction compares the selected version with the one it replaced.
type Direction int

const (
	Unchanged Direction = iota
	Upgrade
	Downgrade
	// Incomparable means at least one version is not semver-like.
	Incomparable
)

func (d Direction) String() string {
	switch d {
	case Upgrade:
		return "upgrade"
	case Downgrade:
		return "downgrade"
	case Incomparable:
		return "unknown"
	default:
		return "unchanged"
	}
}

// Result is the outcome for one request.
type Result struct {
	Coordinate coords.Coordinate
	Source     Source
	// Replaced is the losing candidate, if there was one.
	Replaced   string
	Direction  Direction
	Exclusions coords.Exclusions
	// Managed is set when the coordinate is managed in the scope.
	Managed *management.Managed
}

// Version returns the selected version.
func (r Result) Version() string { return r.Coordinate.Version }

// Excludes reports whether the transitive dependency k is dropped.
func (r Result) Excludes(k coords.Key) bool { return r.Exclusions.Excludes(k) }

// Resolver reads from a finished container.
type Resolver struct {
	container *management.Container
}

func New(c *management.Container) *Resolver {
	return &Resolver{container: c}
}

// Resolve selects the version for req as seen from scope. A request
// without a version for an unmanaged coordinate is a VALIDATION error.
func (r *Resolver) Resolve(scope management.Scope, req Request) (Result, error) {
	if err := dmerrors.RequireText("Dependency request", dmerrors.Field{Name: "group", Value: req.Group},
		dmerrors.Field{Name: "name", Value: req.Name}); err != nil {
		return Result{}, err
	}

	m, ok := r.container.Lookup(scope, req.Group, req.Name)
	if !ok {
		if req.Version == "" {
			return Result{}, dmerrors.New(dmerrors.ErrCodeValidation,
				"No version requested for %s:%s and it is not managed in %s", req.Group, req.Name, scope)
		}
		return Result{
			Coordinate: coords.New(req.Group, req.Name, req.Version),
			Source:     SourceRequested,
			Exclusions: coords.NewExclusions(),
		}, nil
	}

	res := Result{
		Coordinate: m.Coordinate,
		Source:     SourceManaged,
		Exclusions: r.exclusions(m),
		Managed:    &m,
	}
	switch {
	case req.Version == "" || req.Version == m.Coordinate.Version:
	case req.Direct && m.Overridable:
		res.Coordinate = coords.New(req.Group, req.Name, req.Version)
		res.Source = SourceRequested
		res.Replaced = m.Coordinate.Version
		res.Direction = Compare(m.Coordinate.Version, req.Version)
	default:
		res.Replaced = req.Version
		res.Direction = Compare(req.Version, m.Coordinate.Version)
	}
	return res, nil
}

// ResolveAll resolves each request in order and stops at the first error.
func (r *Resolver) ResolveAll(scope management.Scope, reqs []Request) ([]Result, error) {
	out := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := r.Resolve(scope, req)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *Resolver) exclusions(m management.Managed) coords.Exclusions {
	if r.container.Settings().ApplyMavenExclusions {
		return m.DirectExclusions.Union(m.BomExclusions)
	}
	return m.DirectExclusions.Clone()
}

// Compare classifies moving from version from to version to.
func Compare(from, to string) Direction {
	a, err := semver.NewVersion(from)
	if err != nil {
		return Incomparable
	}
	b, err := semver.NewVersion(to)
	if err != nil {
		return Incomparable
	}
	switch a.Compare(b) {
	case -1:
		return Upgrade
	case 1:
		return Downgrade
	default:
		return Unchanged
	}
}
