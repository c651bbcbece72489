package batch

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlin-del/SiteSheets/models"
)

// stubAggregator validates like the real pipeline but fabricates records.
type stubAggregator struct{}

func (s *stubAggregator) Aggregate(ctx context.Context, q models.SiteQuery) (*models.SiteRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return models.NewSiteRecord(q), nil
}

func testLogger() log.Interface {
	return &log.Logger{Handler: discard.New(), Level: log.ErrorLevel}
}

func validQuery(lat float64) models.SiteQuery {
	return models.SiteQuery{Latitude: lat, Longitude: -0.1}
}

func TestRunPreservesOrderAndIsolatesFailures(t *testing.T) {
	queries := []models.SiteQuery{
		validQuery(51.50),
		validQuery(51.51),
		{Latitude: math.NaN(), Longitude: -0.1}, // malformed row
		validQuery(51.53),
	}

	runner := NewRunner(&stubAggregator{}, 2, testLogger())
	items := runner.Run(context.Background(), queries, nil)

	require.Len(t, items, 4)
	for i, item := range items {
		assert.Equal(t, i, item.Index)
	}

	assert.False(t, items[0].Failed())
	assert.False(t, items[1].Failed())
	assert.True(t, items[2].Failed())
	assert.Contains(t, items[2].Err, "latitude")
	assert.False(t, items[3].Failed())

	assert.Equal(t, 51.53, items[3].Record.Latitude)
}

func TestRunReportsProgress(t *testing.T) {
	queries := make([]models.SiteQuery, 5)
	for i := range queries {
		queries[i] = validQuery(51.5 + float64(i)/100)
	}

	var mu sync.Mutex
	var calls []int
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		calls = append(calls, done)
	}

	runner := NewRunner(&stubAggregator{}, 3, testLogger())
	runner.Run(context.Background(), queries, progress)

	require.Len(t, calls, 5)
	seen := make(map[int]bool)
	for _, c := range calls {
		seen[c] = true
	}
	for i := 1; i <= 5; i++ {
		assert.True(t, seen[i], fmt.Sprintf("progress should report %d/5 once", i))
	}
}

func TestRunEmptyBatch(t *testing.T) {
	runner := NewRunner(&stubAggregator{}, 2, testLogger())
	items := runner.Run(context.Background(), nil, nil)
	assert.Empty(t, items)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queries := []models.SiteQuery{validQuery(51.5), validQuery(51.6)}
	runner := NewRunner(&stubAggregator{}, 1, testLogger())
	items := runner.Run(ctx, queries, nil)

	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.Failed())
		assert.Equal(t, "cancelled", item.Err)
	}
}
