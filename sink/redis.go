package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/taskgraph/graph"
)

// RedisSink appends lifecycle events to a Redis stream, one XADD per
// event, under a key namespaced by run. It never reads the stream
// back; a run's history lives entirely in Redis for whatever external
// tooling wants to tail it.
type RedisSink struct {
	client *redis.Client
	key    string
	ttl    time.Duration

	tokens []unsubscribe
}

// RedisOptions configures a RedisSink.
type RedisOptions struct {
	// Run namespaces the stream key as "taskgraph:events:<Run>".
	// Defaults to "default".
	Run string
	// TTL expires the stream key after the given duration of
	// inactivity. Zero disables expiry.
	TTL time.Duration
}

// NewRedisSink creates a sink backed by client. It does not attach to
// any graph until Attach is called.
func NewRedisSink(client *redis.Client, opts RedisOptions) *RedisSink {
	run := opts.Run
	if run == "" {
		run = "default"
	}
	return &RedisSink{
		client: client,
		key:    fmt.Sprintf("taskgraph:events:%s", run),
		ttl:    opts.TTL,
	}
}

// Attach subscribes the sink to g's signal bus. Call Close to
// unsubscribe.
func (s *RedisSink) Attach(g graph.Graph[string]) {
	s.tokens = attachCommon(g, s.append)
}

func (s *RedisSink) append(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	ctx := context.Background()
	pipe := s.client.TxPipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: s.key,
		Values: map[string]any{"event": string(b)},
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

// Close unsubscribes the sink from every signal it attached to. It
// does not close the underlying Redis client, which the caller owns.
func (s *RedisSink) Close() {
	for _, u := range s.tokens {
		u()
	}
	s.tokens = nil
}
