package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lumeo-io/asset-catalog/internal/modules/model"
)

// MockTypeCountStore is a mock implementation of TypeCountStore
type MockTypeCountStore struct {
	mock.Mock
}

func (m *MockTypeCountStore) Replace(ctx context.Context, counts map[string]int64, refreshedAt time.Time) error {
	args := m.Called(ctx, counts, refreshedAt)
	return args.Error(0)
}

func (m *MockTypeCountStore) Read(ctx context.Context) (map[string]int64, time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, time.Time{}, args.Error(2)
	}
	return args.Get(0).(map[string]int64), args.Get(1).(time.Time), args.Error(2)
}

func TestStatsService_CountsByType(t *testing.T) {
	t.Run("live counts bypass the cache", func(t *testing.T) {
		mockRepo := &MockAssetRepo{}
		mockStore := &MockTypeCountStore{}
		mockRepo.On("CountsByType", mock.Anything).Return(map[model.AssetType]int64{
			model.AssetTypeImage: 3,
			model.AssetTypeVideo: 1,
		}, nil)

		svc := NewStatsService(mockRepo, mockStore)

		counts, err := svc.CountsByType(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), counts[model.AssetTypeImage])
		assert.Equal(t, int64(1), counts[model.AssetTypeVideo])
		mockStore.AssertNotCalled(t, "Read", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repo error", func(t *testing.T) {
		mockRepo := &MockAssetRepo{}
		mockRepo.On("CountsByType", mock.Anything).Return(nil, errors.New("count error"))

		svc := NewStatsService(mockRepo, &MockTypeCountStore{})

		counts, err := svc.CountsByType(context.Background())

		assert.Error(t, err)
		assert.Nil(t, counts)
	})
}

func TestStatsService_RefreshCache(t *testing.T) {
	t.Run("recomputes and replaces the cached copy", func(t *testing.T) {
		mockRepo := &MockAssetRepo{}
		mockStore := &MockTypeCountStore{}
		mockRepo.On("CountsByType", mock.Anything).Return(map[model.AssetType]int64{
			model.AssetTypeImage: 5,
		}, nil)
		mockStore.On("Replace", mock.Anything, map[string]int64{"image": 5}, mock.MatchedBy(func(ts time.Time) bool {
			return !ts.IsZero()
		})).Return(nil)

		svc := NewStatsService(mockRepo, mockStore)

		summary, err := svc.RefreshCache(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, summary)
		assert.Equal(t, int64(5), summary.Counts[model.AssetTypeImage])
		assert.NotNil(t, summary.RefreshedAt)
		mockRepo.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		mockRepo := &MockAssetRepo{}
		mockStore := &MockTypeCountStore{}
		mockRepo.On("CountsByType", mock.Anything).Return(map[model.AssetType]int64{}, nil)
		mockStore.On("Replace", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		svc := NewStatsService(mockRepo, mockStore)

		summary, err := svc.RefreshCache(context.Background())

		assert.Error(t, err)
		assert.Nil(t, summary)
	})

	t.Run("repo error skips the store", func(t *testing.T) {
		mockRepo := &MockAssetRepo{}
		mockStore := &MockTypeCountStore{}
		mockRepo.On("CountsByType", mock.Anything).Return(nil, errors.New("count error"))

		svc := NewStatsService(mockRepo, mockStore)

		_, err := svc.RefreshCache(context.Background())

		assert.Error(t, err)
		mockStore.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatsService_CachedCounts(t *testing.T) {
	t.Run("returns the cached summary", func(t *testing.T) {
		refreshedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		mockStore := &MockTypeCountStore{}
		mockStore.On("Read", mock.Anything).Return(map[string]int64{"image": 2, "video": 4}, refreshedAt, nil)

		svc := NewStatsService(&MockAssetRepo{}, mockStore)

		summary, err := svc.CachedCounts(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(2), summary.Counts[model.AssetTypeImage])
		assert.Equal(t, int64(4), summary.Counts[model.AssetTypeVideo])
		assert.NotNil(t, summary.RefreshedAt)
		assert.Equal(t, refreshedAt, *summary.RefreshedAt)
	})

	t.Run("never-refreshed cache has no timestamp", func(t *testing.T) {
		mockStore := &MockTypeCountStore{}
		mockStore.On("Read", mock.Anything).Return(map[string]int64{}, time.Time{}, nil)

		svc := NewStatsService(&MockAssetRepo{}, mockStore)

		summary, err := svc.CachedCounts(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, summary.Counts)
		assert.Nil(t, summary.RefreshedAt)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		mockStore := &MockTypeCountStore{}
		mockStore.On("Read", mock.Anything).Return(nil, time.Time{}, errors.New("redis down"))

		svc := NewStatsService(&MockAssetRepo{}, mockStore)

		summary, err := svc.CachedCounts(context.Background())

		assert.Error(t, err)
		assert.Nil(t, summary)
	})
}
