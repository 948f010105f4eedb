package bom

import (
	"context"
	"testing"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

func TestStaticResolver(t *testing.T) {
	c := coords.New("org.example", "bom", "1.0")
	r := NewStaticResolver(&Bom{
		Coordinate: c,
		Properties: map[string]string{"v": "1"},
		ManagedDependencies: []ManagedDependency{
			{Coordinate: coords.New("g", "a", "${v}")},
		},
	})

	b, err := r.ResolveBom(context.Background(), c)
	if err != nil {
		t.Fatalf("ResolveBom() error = %v", err)
	}
	b.Properties["v"] = "mutated"
	b.ManagedDependencies[0].Coordinate.Version = "mutated"

	again, _ := r.ResolveBom(context.Background(), c)
	if again.Properties["v"] != "1" || again.ManagedDependencies[0].Coordinate.Version != "${v}" {
		t.Error("ResolveBom should return independent copies")
	}

	if _, err := r.ResolveBom(context.Background(), coords.New("x", "y", "z")); !dmerrors.Is(err, dmerrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestCachingResolver(t *testing.T) {
	c := coords.New("org.example", "bom", "1.0")
	calls := 0
	inner := ResolverFunc(func(_ context.Context, coord coords.Coordinate) (*Bom, error) {
		calls++
		if coord != c {
			return nil, dmerrors.New(dmerrors.ErrCodeNotFound, "missing")
		}
		return &Bom{Coordinate: c}, nil
	})

	r := NewCachingResolver(inner)
	for range 3 {
		if _, err := r.ResolveBom(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("inner resolver called %d times, want 1", calls)
	}

	for range 2 {
		_, _ = r.ResolveBom(context.Background(), coords.New("x", "y", "z"))
	}
	if calls != 3 {
		t.Errorf("failures should not be cached, calls = %d", calls)
	}
}
