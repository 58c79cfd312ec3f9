package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcruzdev/bundlecart-backend/pkg/config"
)

func TestReadBytesReportsAbsence(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	payload, found, err := client.ReadBytes(ctx, "bc:guest_cart:missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || payload != nil {
		t.Fatalf("expected absent key, got found=%v payload=%q", found, payload)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.GuestCartKey("guest-1")
	if err := client.WriteBytes(ctx, key, []byte(`[{"product_id":"p1"}]`), time.Hour); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	payload, found, err := client.ReadBytes(ctx, key)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist after write")
	}
	if string(payload) != `[{"product_id":"p1"}]` {
		t.Fatalf("unexpected payload %q", payload)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, found, _ := client.ReadBytes(ctx, key); found {
		t.Fatal("expected key gone after del")
	}
}

func TestGuestCartKeyNamespacing(t *testing.T) {
	client := &Client{}
	if got := client.GuestCartKey("abc"); got != "bc:guest_cart:abc" {
		t.Fatalf("unexpected guest cart key %s", got)
	}
}

func TestOptionsFromConfigPrefersURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:pw@redis.internal:6380/2",
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "redis.internal:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("expected pool size fallback applied, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when no url or address is configured")
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
