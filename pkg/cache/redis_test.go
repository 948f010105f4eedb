package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis is an in-memory redisClient built from go-redis result constructors.
type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := newRedisCache(fake, "depmgmt:")

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("miss expected, hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<project/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.data["depmgmt:k"]; !ok {
		t.Error("Set should apply the key prefix")
	}
	if fake.ttls["depmgmt:k"] != time.Hour {
		t.Errorf("ttl = %v, want 1h", fake.ttls["depmgmt:k"])
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<project/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}

	if err := c.Close(); err != nil || !fake.closed {
		t.Error("Close should close the client")
	}
}

func TestRedisCacheNegativeTTL(t *testing.T) {
	fake := newFakeRedis()
	c := newRedisCache(fake, "")
	if err := c.Set(context.Background(), "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if fake.ttls["k"] != 0 {
		t.Errorf("negative ttl should become 0, got %v", fake.ttls["k"])
	}
}

func TestRedisCacheBackendError(t *testing.T) {
	fake := newFakeRedis()
	fake.failGet = errors.New("connection refused")
	c := newRedisCache(fake, "")

	_, hit, err := c.Get(context.Background(), "k")
	if hit || err == nil {
		t.Errorf("backend failure should surface as an error, hit=%v err=%v", hit, err)
	}
}
