package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	return New(srv.Addr(), "", 0), srv
}

func TestFixedWindowAllowBlocksOverLimit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := c.FixedWindowAllow(ctx, "ratelimit:u1", 3, time.Minute)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d within limit should pass", i)
		}
	}
	// 第 N+1 个请求被拒
	ok, err := c.FixedWindowAllow(ctx, "ratelimit:u1", 3, time.Minute)
	if err != nil {
		t.Fatalf("request 4: %v", err)
	}
	if ok {
		t.Fatal("request over limit should be blocked")
	}
}

func TestFixedWindowAllowKeysAreIndependent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if ok, _ := c.FixedWindowAllow(ctx, "ratelimit:u1", 1, time.Minute); !ok {
		t.Fatal("first request for u1 should pass")
	}
	if ok, _ := c.FixedWindowAllow(ctx, "ratelimit:u1", 1, time.Minute); ok {
		t.Fatal("second request for u1 should be blocked")
	}
	if ok, _ := c.FixedWindowAllow(ctx, "ratelimit:u2", 1, time.Minute); !ok {
		t.Fatal("u2 has its own window")
	}
}

func TestFixedWindowAllowResetsAfterWindow(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	if ok, _ := c.FixedWindowAllow(ctx, "ratelimit:u1", 1, time.Minute); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := c.FixedWindowAllow(ctx, "ratelimit:u1", 1, time.Minute); ok {
		t.Fatal("second request in window should be blocked")
	}
	// 计数键必须带 TTL，否则窗口永不重置
	if srv.TTL("ratelimit:u1") <= 0 {
		t.Fatal("window key should carry a TTL")
	}
	srv.FastForward(2 * time.Minute)
	if ok, err := c.FixedWindowAllow(ctx, "ratelimit:u1", 1, time.Minute); err != nil || !ok {
		t.Fatalf("request after window should pass: ok=%v err=%v", ok, err)
	}
}
