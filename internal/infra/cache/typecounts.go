package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumeo-io/asset-catalog/internal/pkg/apperr"
)

const (
	typeCountsKey       = "asset:type_counts"
	refreshedAtField    = "refreshed_at"
	refreshedTimeLayout = time.RFC3339Nano
)

// TypeCounts is the materialized count-by-type summary. It is replaced
// whole on refresh and never kept transactionally in sync with asset
// mutations; readers during a refresh see the old or the new summary,
// never a mix (MULTI/EXEC).
type TypeCounts struct {
	rdb *redis.Client
}

func NewTypeCounts(rdb *redis.Client) *TypeCounts {
	return &TypeCounts{rdb: rdb}
}

func (c *TypeCounts) Replace(ctx context.Context, counts map[string]int64, refreshedAt time.Time) error {
	fields := map[string]interface{}{
		refreshedAtField: refreshedAt.UTC().Format(refreshedTimeLayout),
	}
	for k, v := range counts {
		fields[k] = v
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, typeCountsKey)
	pipe.HSet(ctx, typeCountsKey, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Store(err)
	}
	return nil
}

// Read returns the cached counts and when they were materialized. A zero
// time means refresh has never run.
func (c *TypeCounts) Read(ctx context.Context) (map[string]int64, time.Time, error) {
	vals, err := c.rdb.HGetAll(ctx, typeCountsKey).Result()
	if err != nil {
		return nil, time.Time{}, apperr.Store(err)
	}
	return parseTypeCounts(vals)
}

// parseTypeCounts decodes the raw hash fields. Only Replace writes the
// key, so a field that does not parse means the summary is corrupt; that
// surfaces as an error rather than a silently smaller summary.
func parseTypeCounts(vals map[string]string) (map[string]int64, time.Time, error) {
	counts := make(map[string]int64, len(vals))
	var refreshedAt time.Time
	for k, v := range vals {
		if k == refreshedAtField {
			ts, err := time.Parse(refreshedTimeLayout, v)
			if err != nil {
				return nil, time.Time{}, apperr.Store(fmt.Errorf("parse %s %q: %w", refreshedAtField, v, err))
			}
			refreshedAt = ts
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, time.Time{}, apperr.Store(fmt.Errorf("parse count field %q=%q: %w", k, v, err))
		}
		counts[k] = n
	}
	return counts, refreshedAt, nil
}
