// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	responseKeyPrefix   = "public:"
	generationKeyPrefix = "public-gen:"

	// DefaultResponseTTL bounds staleness if an invalidation is lost.
	DefaultResponseTTL = 5 * time.Minute

	// noGeneration never matches a stored generation, so Set skips.
	noGeneration int64 = -1
)

var errStaleGeneration = errors.New("response cache generation changed")

// Record kinds with a cached public response.
const (
	KindAbout    = "about"
	KindJourney  = "journey"
	KindProfile  = "profile"
	KindProjects = "projects"
	KindFilters  = "project-filters"
	KindSkills   = "skills"
)

// Responses caches encoded public JSON responses per record kind. A nil
// *Responses is valid and caches nothing.
//
// Every kind has a generation counter that Invalidate bumps. Readers take
// the generation before loading from the store and Set only stores the
// body if the generation is still the same, so a read that raced a write
// cannot put the pre-write body back.
type Responses struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponses creates a response cache backed by the given Valkey client.
func NewResponses(client *redis.Client, ttl time.Duration) *Responses {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	return &Responses{client: client, ttl: ttl}
}

// Get returns the cached body for kind and the kind's current generation.
// On a miss the generation is what the caller passes to Set.
func (c *Responses) Get(ctx context.Context, kind string) ([]byte, int64, bool) {
	if c == nil {
		return nil, noGeneration, false
	}
	vals, err := c.client.MGet(ctx, responseKeyPrefix+kind, generationKeyPrefix+kind).Result()
	if err != nil {
		slog.Warn("response cache get error", "kind", kind, "error", err)
		return nil, noGeneration, false
	}
	gen := parseGeneration(kind, vals[1])
	body, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	slog.Debug("response cache hit", "kind", kind)
	return []byte(body), gen, true
}

func parseGeneration(kind string, v any) int64 {
	if v == nil {
		return 0
	}
	s, _ := v.(string)
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		slog.Warn("response cache generation unreadable", "kind", kind, "value", v)
		return noGeneration
	}
	return gen
}

// Set stores body for kind with the configured TTL, provided kind is still
// at generation gen. It reports whether the body was stored.
func (c *Responses) Set(ctx context.Context, kind string, gen int64, body []byte) bool {
	if c == nil || gen < 0 {
		return false
	}
	genKey := generationKeyPrefix + kind
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, responseKeyPrefix+kind, body, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		slog.Debug("response cache set skipped after invalidation", "kind", kind)
	default:
		slog.Warn("response cache set error", "kind", kind, "error", err)
	}
	return false
}

// Invalidate drops the cached responses of the given kinds and bumps their
// generations in one transaction.
func (c *Responses) Invalidate(ctx context.Context, kinds ...string) {
	if c == nil || len(kinds) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range kinds {
			pipe.Incr(ctx, generationKeyPrefix+k)
			pipe.Del(ctx, responseKeyPrefix+k)
		}
		return nil
	})
	if err != nil {
		slog.Warn("response cache invalidate error", "kinds", kinds, "error", err)
		return
	}
	slog.Debug("response cache invalidated", "kinds", kinds)
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Generations are left alone.
func (c *Responses) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}
