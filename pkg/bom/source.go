package bom

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/integrations/maven"
)

// Source returns raw POM bytes for a coordinate. A missing POM must be
// reported with [dmerrors.ErrCodeNotFound] so that [ChainSource] can fall
// through to the next source.
type Source interface {
	FetchPOM(ctx context.Context, coordinate coords.Coordinate) ([]byte, error)
}

// DirSource reads POMs from a directory laid out like a Maven repository,
// typically ~/.m2/repository.
type DirSource struct {
	Root string
}

// DefaultLocalRepository returns ~/.m2/repository.
func DefaultLocalRepository() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

func (s DirSource) FetchPOM(_ context.Context, c coords.Coordinate) ([]byte, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(maven.PomPath(c)))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, dmerrors.Wrap(dmerrors.ErrCodeNotFound, err, "POM %s not found in %s", c, s.Root)
	}
	if err != nil {
		return nil, dmerrors.Wrap(dmerrors.ErrCodeInternal, err, "reading %s", path)
	}
	return data, nil
}

// ChainSource tries each source in order. It moves to the next source only
// when the current one reports NOT_FOUND; any other failure is returned.
type ChainSource []Source

func (c ChainSource) FetchPOM(ctx context.Context, coord coords.Coordinate) ([]byte, error) {
	if len(c) == 0 {
		return nil, dmerrors.New(dmerrors.ErrCodeNotFound, "POM %s not found: no sources configured", coord)
	}
	var lastErr error
	for _, s := range c {
		data, err := s.FetchPOM(ctx, coord)
		if err == nil {
			return data, nil
		}
		if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
