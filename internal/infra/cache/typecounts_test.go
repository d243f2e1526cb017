package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumeo-io/asset-catalog/internal/pkg/apperr"
)

func TestParseTypeCounts(t *testing.T) {
	refreshedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	counts, ts, err := parseTypeCounts(map[string]string{
		"image":          "3",
		"video":          "1",
		refreshedAtField: refreshedAt.Format(refreshedTimeLayout),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), counts["image"])
	assert.Equal(t, int64(1), counts["video"])
	assert.True(t, ts.Equal(refreshedAt))
}

func TestParseTypeCounts_EmptyHash(t *testing.T) {
	counts, ts, err := parseTypeCounts(map[string]string{})

	assert.NoError(t, err)
	assert.Empty(t, counts)
	assert.True(t, ts.IsZero())
}

func TestParseTypeCounts_MalformedCount(t *testing.T) {
	counts, _, err := parseTypeCounts(map[string]string{
		"image": "three",
	})

	assert.Error(t, err)
	assert.Nil(t, counts)
	var se *apperr.StoreError
	assert.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "image")
}

func TestParseTypeCounts_MalformedTimestamp(t *testing.T) {
	counts, _, err := parseTypeCounts(map[string]string{
		refreshedAtField: "yesterday",
	})

	assert.Error(t, err)
	assert.Nil(t, counts)
	assert.Contains(t, err.Error(), refreshedAtField)
}
