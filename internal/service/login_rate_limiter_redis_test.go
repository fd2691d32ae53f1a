package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeLimiterClient struct {
	counts  map[string]int64
	evalErr error
	deleted []string
}

func (f *fakeLimiterClient) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.evalErr != nil {
		cmd.SetErr(f.evalErr)
		return cmd
	}
	f.counts[keys[0]]++
	cmd.SetVal(f.counts[keys[0]])
	return cmd
}

func (f *fakeLimiterClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for _, k := range keys {
		delete(f.counts, k)
		f.deleted = append(f.deleted, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func newFakeRedisLimiter(client *fakeLimiterClient, max int) *redisLoginRateLimiter {
	return &redisLoginRateLimiter{
		client: client,
		window: time.Minute,
		max:    max,
		prefix: "auth:login:rl:",
	}
}

func TestRedisLoginRateLimiter_Allow(t *testing.T) {
	client := &fakeLimiterClient{counts: map[string]int64{}}
	limiter := newFakeRedisLimiter(client, 2)

	if !limiter.Allow("Ann@X.com") || !limiter.Allow("ann@x.com") {
		t.Fatalf("expected first two attempts allowed")
	}
	if limiter.Allow("ann@x.com") {
		t.Fatalf("expected third attempt blocked")
	}
	if client.counts["auth:login:rl:ann@x.com"] != 3 {
		t.Fatalf("expected normalized key to be counted, got %+v", client.counts)
	}
}

func TestRedisLoginRateLimiter_FailOpen(t *testing.T) {
	client := &fakeLimiterClient{counts: map[string]int64{}, evalErr: errors.New("connection refused")}
	limiter := newFakeRedisLimiter(client, 1)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("ann@x.com") {
			t.Fatalf("expected limiter to allow when redis fails")
		}
	}
}

func TestRedisLoginRateLimiter_Reset(t *testing.T) {
	client := &fakeLimiterClient{counts: map[string]int64{}}
	limiter := newFakeRedisLimiter(client, 1)

	limiter.Allow("ann@x.com")
	limiter.Reset(" ann@x.com ")
	if len(client.deleted) != 1 || client.deleted[0] != "auth:login:rl:ann@x.com" {
		t.Fatalf("unexpected deleted keys: %+v", client.deleted)
	}
	if !limiter.Allow("ann@x.com") {
		t.Fatalf("expected attempt allowed after reset")
	}
}

func TestNewRedisLoginRateLimiter_NilClient(t *testing.T) {
	if NewRedisLoginRateLimiter(nil, time.Minute, 5) != nil {
		t.Fatalf("expected nil limiter without client")
	}
}
