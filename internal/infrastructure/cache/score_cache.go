package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"creditbureau-backend/internal/domain/score"

	"github.com/redis/go-redis/v9"
)

// ScoreCache keeps computed scores in Redis under a per-consumer generation.
//
//	score:gen:<consumer>        counter, bumped on every record write
//	score:val:<consumer>:<gen>  JSON score.Result, expires after ttl
//
// A write bumps the generation, so entries computed before it are never read again.
type ScoreCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewScoreCache(rdb *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{rdb: rdb, ttl: ttl}
}

func genKey(consumerID string) string { return "score:gen:" + consumerID }

func valKey(consumerID string, gen int64) string {
	return fmt.Sprintf("score:val:%s:%d", consumerID, gen)
}

func (c *ScoreCache) generation(ctx context.Context, consumerID string) (int64, error) {
	s, err := c.rdb.Get(ctx, genKey(consumerID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *ScoreCache) Get(ctx context.Context, consumerID string) (*score.Result, int64, error) {
	gen, err := c.generation(ctx, consumerID)
	if err != nil {
		return nil, 0, err
	}
	b, err := c.rdb.Get(ctx, valKey(consumerID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, err
	}
	var res score.Result
	if err := json.Unmarshal(b, &res); err != nil {
		// unreadable entry counts as a miss
		return nil, gen, nil
	}
	return &res, gen, nil
}

// Set stores res only if gen is still current. The generation key is WATCHed,
// so a write that lands between Get and Set makes the store a no-op.
func (c *ScoreCache) Set(ctx context.Context, consumerID string, gen int64, res score.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(consumerID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, valKey(consumerID, gen), b, c.ttl)
			return nil
		})
		return err
	}, genKey(consumerID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *ScoreCache) Invalidate(ctx context.Context, consumerID string) error {
	return c.rdb.Incr(ctx, genKey(consumerID)).Err()
}
