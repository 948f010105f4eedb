package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alen-lv/dependency-management-plugin/pkg/bom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/cache"
	"github.com/Alen-lv/dependency-management-plugin/pkg/dsl"
	"github.com/Alen-lv/dependency-management-plugin/pkg/integrations/maven"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/manifest"
	"github.com/Alen-lv/dependency-management-plugin/pkg/project"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

// session is a loaded manifest and the container it produced.
type session struct {
	manifest  *manifest.Manifest
	project   *project.Project
	container *management.Container
	ext       *dsl.Extension
	cache     cache.Cache
}

func (s *session) Close() error { return s.cache.Close() }

// scope maps a --scope value to a scope, checking that the project declares
// it. Empty and "global" mean Global.
func (s *session) scope(name string) (management.Scope, error) {
	if name == "" || name == "global" {
		return management.Global, nil
	}
	c, err := s.ext.ForScope(name)
	if err != nil {
		return "", err
	}
	return c.Scope(), nil
}

// load reads the manifest and replays it into a new container.
func (c *CLI) load(ctx context.Context) (*session, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	m, err := manifest.Load(c.v.GetString(keyManifest))
	if err != nil {
		return nil, err
	}
	st, err := settings.FromViper(c.v)
	if err != nil {
		return nil, err
	}

	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	src, err := c.newSource(ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	resolver := bom.NewCachingResolver(bom.NewMavenResolver(src, logger))
	container := management.New(resolver, management.WithLogger(logger), management.WithSettings(&st))
	proj := m.NewProject()
	ext := dsl.NewExtension(container, proj)

	logger.Debug("applying manifest", "path", m.Path, "container", container.ID())
	if err := m.Apply(ctx, ext, proj); err != nil {
		_ = ch.Close()
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %s", filepath.Base(m.Path)))

	return &session{manifest: m, project: proj, container: container, ext: ext, cache: ch}, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.v.GetBool(keyNoCache) {
		return cache.NewNullCache(), nil
	}
	if addr := c.v.GetString(keyRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     addr,
			Password: c.v.GetString(keyRedisPassword),
			DB:       c.v.GetInt(keyRedisDB),
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSource chains the local repository, when it exists, before the remote
// repositories in flag order.
func (c *CLI) newSource(ch cache.Cache) (bom.Source, error) {
	var chain bom.ChainSource

	local := c.v.GetString(keyLocalRepository)
	if local == "" {
		if dir, err := bom.DefaultLocalRepository(); err == nil {
			local = dir
		}
	}
	if local != "" {
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			chain = append(chain, bom.DirSource{Root: local})
		}
	}

	for _, repo := range c.v.GetStringSlice(keyRepositories) {
		client, err := maven.NewClient(ch, repo, c.v.GetDuration(keyCacheTTL),
			maven.WithOffline(c.v.GetBool(keyOffline)),
			maven.WithRefresh(c.v.GetBool(keyRefresh)))
		if err != nil {
			return nil, err
		}
		chain = append(chain, client)
	}
	return chain, nil
}

// cacheDir returns the POM cache directory, honouring XDG_CACHE_HOME.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return cache.DefaultDir()
}
