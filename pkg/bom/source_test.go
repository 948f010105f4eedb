package bom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "org", "example", "example-bom", "1.0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "example-bom-1.0.pom"), []byte("<project/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := DirSource{Root: root}
	data, err := src.FetchPOM(context.Background(), coords.New("org.example", "example-bom", "1.0"))
	if err != nil || string(data) != "<project/>" {
		t.Fatalf("FetchPOM() = %q, %v", data, err)
	}

	_, err = src.FetchPOM(context.Background(), coords.New("org.example", "example-bom", "2.0"))
	if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

type failingSource struct{ err error }

func (f failingSource) FetchPOM(context.Context, coords.Coordinate) ([]byte, error) {
	return nil, f.err
}

func TestChainSource(t *testing.T) {
	ctx := context.Background()
	c := coords.New("g", "a", "1")
	found := mapSource{"g:a:1": "<project/>"}

	t.Run("falls through not found", func(t *testing.T) {
		data, err := ChainSource{mapSource{}, found}.FetchPOM(ctx, c)
		if err != nil || string(data) != "<project/>" {
			t.Errorf("FetchPOM() = %q, %v", data, err)
		}
	})

	t.Run("stops on other errors", func(t *testing.T) {
		boom := dmerrors.Wrap(dmerrors.ErrCodeNetwork, errors.New("reset"), "fetch")
		_, err := ChainSource{failingSource{boom}, found}.FetchPOM(ctx, c)
		if !dmerrors.Is(err, dmerrors.ErrCodeNetwork) {
			t.Errorf("expected NETWORK_ERROR, got %v", err)
		}
	})

	t.Run("all missing", func(t *testing.T) {
		_, err := ChainSource{mapSource{}, mapSource{}}.FetchPOM(ctx, c)
		if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ChainSource{}.FetchPOM(ctx, c)
		if !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})
}
