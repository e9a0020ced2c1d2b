package redis

import (
	"testing"

	"sosdesk/internal/config"
)

func TestClientOptions_FromConfig(t *testing.T) {
	t.Parallel()

	opts := clientOptions(config.RedisConfig{Addr: "cache:6379", Password: "pw", DB: 3, PoolSize: 25})
	if opts.Addr != "cache:6379" || opts.Password != "pw" {
		t.Fatalf("unexpected endpoint: %+v", opts)
	}
	if opts.DB != 3 || opts.PoolSize != 25 {
		t.Fatalf("db/pool not carried over: db=%d pool=%d", opts.DB, opts.PoolSize)
	}
}
