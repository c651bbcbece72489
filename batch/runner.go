// Package batch applies the site aggregator over a sequence of queries,
// preserving input order and isolating each row's failure.
package batch

import (
	"context"
	"sync/atomic"

	"github.com/apex/log"

	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/utils"
)

// SiteAggregator is the single capability the runner needs.
type SiteAggregator interface {
	Aggregate(ctx context.Context, q models.SiteQuery) (*models.SiteRecord, error)
}

// ProgressFunc is invoked after each row completes.
type ProgressFunc func(done, total int)

// Runner processes batches of site queries with bounded concurrency.
type Runner struct {
	agg            SiteAggregator
	maxConcurrency int
	logger         log.Interface
}

// NewRunner creates a Runner that aggregates up to maxConcurrency rows at a
// time.
func NewRunner(agg SiteAggregator, maxConcurrency int, logger log.Interface) *Runner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Runner{agg: agg, maxConcurrency: maxConcurrency, logger: logger}
}

// Run aggregates every query, returning one BatchItem per input row in input
// order. A row's failure (invalid coordinates, malformed input) yields a
// failure marker for that row only. Cancellation stops scheduling new rows;
// rows already running finish normally.
func (r *Runner) Run(ctx context.Context, queries []models.SiteQuery, progress ProgressFunc) []models.BatchItem {
	total := len(queries)
	items := make([]models.BatchItem, total)
	var done int64

	pool := utils.NewWorkerPool(r.maxConcurrency, 0)
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			r.logger.Warnf("[batch] cancelled after scheduling %d/%d rows", i, total)
			for j := i; j < total; j++ {
				items[j] = models.BatchItem{
					Index:     j,
					Latitude:  queries[j].Latitude,
					Longitude: queries[j].Longitude,
					Err:       "cancelled",
				}
			}
			break
		}

		i, q := i, q
		pool.Submit(func() {
			item := models.BatchItem{Index: i, Latitude: q.Latitude, Longitude: q.Longitude}

			record, err := r.agg.Aggregate(ctx, q)
			if err != nil {
				r.logger.Warnf("[batch] row %d failed: %v", i, err)
				item.Err = err.Error()
			} else {
				item.Record = record
			}
			items[i] = item

			completed := int(atomic.AddInt64(&done, 1))
			if progress != nil {
				progress(completed, total)
			}
		})
	}
	pool.Wait()

	return items
}
