package service

import (
	"context"
	"time"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
	"github.com/lumeo-io/asset-catalog/internal/modules/repo"
)

// TypeCountStore is the materialized summary the aggregate cache lives in.
// *cache.TypeCounts is the redis implementation.
type TypeCountStore interface {
	Replace(ctx context.Context, counts map[string]int64, refreshedAt time.Time) error
	Read(ctx context.Context) (map[string]int64, time.Time, error)
}

type StatsService interface {
	// CountsByType is the live path: computed from current rows on
	// every call.
	CountsByType(ctx context.Context) (map[model.AssetType]int64, error)
	// RefreshCache recomputes the summary and replaces the cached copy
	// atomically. Nothing refreshes the cache implicitly.
	RefreshCache(ctx context.Context) (*TypeCountSummary, error)
	// CachedCounts is the cheap, possibly stale read path.
	CachedCounts(ctx context.Context) (*TypeCountSummary, error)
}

type TypeCountSummary struct {
	Counts      map[model.AssetType]int64 `json:"counts"`
	RefreshedAt *time.Time                `json:"refreshed_at,omitempty"`
}

type statsService struct {
	r     repo.AssetRepo
	store TypeCountStore
}

func NewStatsService(r repo.AssetRepo, store TypeCountStore) StatsService {
	return &statsService{r: r, store: store}
}

func (s *statsService) CountsByType(ctx context.Context) (map[model.AssetType]int64, error) {
	return s.r.CountsByType(ctx)
}

func (s *statsService) RefreshCache(ctx context.Context) (*TypeCountSummary, error) {
	counts, err := s.r.CountsByType(ctx)
	if err != nil {
		return nil, err
	}

	flat := make(map[string]int64, len(counts))
	for t, n := range counts {
		flat[string(t)] = n
	}

	now := time.Now().UTC()
	if err := s.store.Replace(ctx, flat, now); err != nil {
		return nil, err
	}
	return &TypeCountSummary{Counts: counts, RefreshedAt: &now}, nil
}

func (s *statsService) CachedCounts(ctx context.Context) (*TypeCountSummary, error) {
	flat, refreshedAt, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := &TypeCountSummary{Counts: make(map[model.AssetType]int64, len(flat))}
	for t, n := range flat {
		out.Counts[model.AssetType(t)] = n
	}
	if !refreshedAt.IsZero() {
		out.RefreshedAt = &refreshedAt
	}
	return out, nil
}
