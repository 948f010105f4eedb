// Package management implements the dependency management container: the
// per-scope table of managed versions that every declaration form feeds.
//
// Declarations enter through two operations only. [Container.AddManagedVersion]
// records an explicit version, and [Container.ImportBom] folds a BOM (and the
// BOMs it imports) into a scope. When a key is declared more than once the
// active entry is chosen as follows:
//
//  1. Within one scope and origin class, the later declaration wins.
//  2. A DIRECT declaration beats a BOM declaration in the same scope.
//  3. A scope's own entry beats the Global entry.
//
// Exclusions accumulate while the version stays the same and reset when a
// different version takes over.
//
// The container is built during a single-threaded configuration phase and
// read concurrently afterwards. One RWMutex guards the table; BOM retrieval
// runs outside it.
package management

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/Alen-lv/dependency-management-plugin/pkg/bom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/observability"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

type importKey struct {
	scope Scope
	bom   coords.Coordinate
}

// Container is the dependency management container.
type Container struct {
	id       string
	resolver bom.Resolver
	settings *settings.Settings
	logger   *log.Logger

	mu        sync.RWMutex
	sequence  uint64
	tables    map[Scope]map[coords.Key]*slot
	imports   map[Scope][]ImportedBom
	imported  mapset.Set[importKey]
	importing mapset.Set[importKey]
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithSettings shares s with the container. Changes made to s later are
// visible to subsequent queries.
func WithSettings(s *settings.Settings) Option {
	return func(c *Container) { c.settings = s }
}

// New returns an empty container that retrieves BOMs through resolver.
// A nil resolver makes every BOM import fail with BOM_RESOLUTION.
func New(resolver bom.Resolver, opts ...Option) *Container {
	c := &Container{
		id:        uuid.NewString(),
		resolver:  resolver,
		tables:    map[Scope]map[coords.Key]*slot{},
		imports:   map[Scope][]ImportedBom{},
		imported:  mapset.NewThreadUnsafeSet[importKey](),
		importing: mapset.NewThreadUnsafeSet[importKey](),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.settings == nil {
		s := settings.Default()
		c.settings = &s
	}
	return c
}

// ID identifies this container instance.
func (c *Container) ID() string { return c.id }

// Settings returns the settings consulted by queries.
func (c *Container) Settings() *settings.Settings { return c.settings }

// AddManagedVersion records an explicit managed version for group:name in
// scope. It fails with VALIDATION, naming every blank field, if group, name
// or version is blank.
func (c *Container) AddManagedVersion(scope Scope, group, name, version string, exclusions ...coords.Exclusion) error {
	coord := coords.New(group, name, version)
	if err := coord.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(scope, coord, coords.NewExclusions(exclusions...), OriginDirect, coords.Coordinate{})
	return nil
}

func (c *Container) addLocked(scope Scope, coord coords.Coordinate, excl coords.Exclusions, origin Origin, from coords.Coordinate) {
	c.sequence++
	table, ok := c.tables[scope]
	if !ok {
		table = map[coords.Key]*slot{}
		c.tables[scope] = table
	}
	s, ok := table[coord.Key()]
	if !ok {
		s = newSlot()
		table[coord.Key()] = s
	}

	won := s.apply(Entry{
		Key:        coord.Key(),
		Version:    coord.Version,
		Exclusions: excl,
		Scope:      scope,
		Origin:     origin,
		Bom:        from,
		Sequence:   c.sequence,
	})
	observability.Container().OnManagedVersion(string(scope), origin.String(), won)
	if !won {
		c.logger.Debug("managed version shadowed", "scope", scope, "coordinate", coord, "origin", origin,
			"active", s.active().Version)
	}
}

// ImportBom imports the BOM at coordinate into scope.
//
// The BOM's properties are overlaid with overrides, which always win. Its
// own imports are folded first, in declaration order, into the same scope
// with the same overrides. Its managed dependencies are registered last,
// so they take precedence over those of the BOMs it imports.
//
// A BOM already imported into scope, or currently being imported there, is
// skipped without error. When the user imports a BOM that an earlier import
// pulled in transitively, the existing record becomes a user-level import
// and takes the new overrides into its properties; the managed versions it
// registered are left as they are. Retrieval failures are returned as BOM_RESOLUTION.
func (c *Container) ImportBom(ctx context.Context, scope Scope, coordinate coords.Coordinate, overrides map[string]string) error {
	if !coordinate.IsComplete() {
		return dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Bom coordinates '%s' must be of the form groupId:artifactId:version", coordinate)
	}
	return c.importBom(ctx, scope, coordinate, maps.Clone(overrides), nil)
}

func (c *Container) importBom(ctx context.Context, scope Scope, coordinate coords.Coordinate, overrides map[string]string, parent *coords.Coordinate) error {
	hooks := observability.Container()
	key := importKey{scope: scope, bom: coordinate}

	c.mu.Lock()
	switch {
	case c.importing.Contains(key):
		c.mu.Unlock()
		c.logger.Debug("skipping cyclic BOM import", "scope", scope, "bom", coordinate)
		hooks.OnBomImportSkipped(ctx, string(scope), coordinate.String(), "cycle")
		return nil
	case c.imported.Contains(key):
		var ignored []string
		if parent == nil {
			ignored = c.promoteLocked(scope, coordinate, overrides)
		}
		c.mu.Unlock()
		if len(ignored) > 0 {
			c.logger.Warn("BOM already imported transitively; its managed versions keep the earlier properties",
				"scope", scope, "bom", coordinate, "overrides", ignored)
		}
		c.logger.Debug("skipping duplicate BOM import", "scope", scope, "bom", coordinate)
		hooks.OnBomImportSkipped(ctx, string(scope), coordinate.String(), "duplicate")
		return nil
	}
	c.importing.Add(key)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.importing.Remove(key)
		c.mu.Unlock()
	}()

	start := time.Now()
	hooks.OnBomImportStart(ctx, string(scope), coordinate.String())
	entries, err := c.foldBom(ctx, scope, coordinate, overrides, parent)
	hooks.OnBomImportComplete(ctx, string(scope), coordinate.String(), entries, time.Since(start), err)
	return err
}

// promoteLocked turns a transitive import record for coordinate into a
// user-level one, so its properties and the new overrides show up in
// ImportedPropertiesForScope. It returns the overrides that change a
// property the managed versions were already interpolated with.
func (c *Container) promoteLocked(scope Scope, coordinate coords.Coordinate, overrides map[string]string) []string {
	records := c.imports[scope]
	i := slices.IndexFunc(records, func(b ImportedBom) bool { return b.Coordinate == coordinate })
	if i < 0 || records[i].Parent == nil {
		return nil
	}
	rec := &records[i]
	rec.Parent = nil

	var changed []string
	for k, v := range overrides {
		if old, ok := rec.Properties[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	slices.Sort(changed)
	if rec.Overrides == nil {
		rec.Overrides = map[string]string{}
	}
	if rec.Properties == nil {
		rec.Properties = map[string]string{}
	}
	maps.Copy(rec.Overrides, overrides)
	maps.Copy(rec.Properties, overrides)
	return changed
}

func (c *Container) foldBom(ctx context.Context, scope Scope, coordinate coords.Coordinate, overrides map[string]string, parent *coords.Coordinate) (int, error) {
	if c.resolver == nil {
		return 0, dmerrors.New(dmerrors.ErrCodeBomResolution, "Failed to resolve BOM %s: no resolver configured", coordinate)
	}
	b, err := c.resolver.ResolveBom(ctx, coordinate)
	if err != nil {
		return 0, dmerrors.Wrap(dmerrors.ErrCodeBomResolution, err, "Failed to resolve BOM %s", coordinate)
	}
	if b == nil {
		return 0, dmerrors.New(dmerrors.ErrCodeBomResolution, "Failed to resolve BOM %s: resolver returned no BOM", coordinate)
	}

	props := maps.Clone(b.Properties)
	if props == nil {
		props = map[string]string{}
	}
	maps.Copy(props, overrides)

	c.mu.Lock()
	c.imported.Add(importKey{scope: scope, bom: coordinate})
	c.imports[scope] = append(c.imports[scope], ImportedBom{
		Coordinate: coordinate,
		Scope:      scope,
		Properties: maps.Clone(props),
		Overrides:  maps.Clone(overrides),
		Parent:     parent,
	})
	c.mu.Unlock()

	c.logger.Debug("importing BOM", "scope", scope, "bom", coordinate, "imports", len(b.Imports))
	for _, imp := range b.Imports {
		ic, ok := bom.InterpolateCoordinate(imp, props)
		if !ok || !ic.IsComplete() {
			c.logger.Warn("skipping BOM import with unresolved coordinates", "bom", coordinate, "import", imp)
			continue
		}
		if err := c.importBom(ctx, scope, ic, overrides, &coordinate); err != nil {
			return 0, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for _, md := range b.ManagedDependencies {
		mc, ok := bom.InterpolateCoordinate(md.Coordinate, props)
		if !ok || !mc.IsComplete() {
			c.logger.Warn("skipping managed dependency with unresolved coordinates", "bom", coordinate,
				"dependency", md.Coordinate)
			continue
		}
		excl := coords.NewExclusions(bom.InterpolateExclusions(md.Exclusions, props)...)
		c.addLocked(scope, mc, excl, OriginBom, coordinate)
		added++
	}
	return added, nil
}
