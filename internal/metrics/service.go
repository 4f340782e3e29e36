/*
Package metrics tracks basic site usage: one counter per day plus a
running total.

Counters live in the key-value storage chain under the
"metrics:visits:" prefix, one small document per day, so a day's write
never contends with another day's and old days can be dropped without
touching the total. Visit recording is fire-and-forget from the client's
point of view; a storage failure is logged and swallowed.
*/
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

// dateLayout is the per-day counter key suffix.
const dateLayout = "2006-01-02"

// DefaultStatsDays is how far back Stats reaches when the caller does not
// say.
const DefaultStatsDays = 30

// MaxStatsDays bounds the per-day window an admin can request.
const MaxStatsDays = 365

// DayCount is one day's visit counter.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Stats is the admin metrics view.
type Stats struct {
	Total int64      `json:"total"`
	Daily []DayCount `json:"daily"`
}

// Service implements visit counting.
type Service struct {
	kv     storage.Store
	logger *slog.Logger

	// now is swapped in tests to pin the day boundary.
	now func() time.Time
}

// NewService creates the metrics service.
func NewService(kv storage.Store, logger *slog.Logger) *Service {
	return &Service{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

/*
RecordVisit increments today's counter and the running total.

Description: Best-effort. The two counters are read-modify-written
without coordination; concurrent visits can undercount by a few hits,
which is acceptable for portfolio analytics. Errors are logged and
swallowed so a storage outage never breaks page loads.

Parameters:
  - ctx: context.Context
*/
func (service *Service) RecordVisit(ctx context.Context) {

	today := service.now().UTC().Format(dateLayout)

	if err := service.increment(ctx, constants.StoragePrefixVisits+today); err != nil {
		service.logger.WarnContext(ctx, "visit_count_failed",
			slog.String("date", today),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := service.increment(ctx, constants.StorageKeyVisitsAll); err != nil {
		service.logger.WarnContext(ctx, "visit_total_failed",
			slog.String("error", err.Error()),
		)
	}
}

/*
Stats returns the running total and the last N daily counters.

Parameters:
  - ctx: context.Context
  - days: int (clamped to [1, MaxStatsDays]; 0 means DefaultStatsDays)

Returns:
  - Stats: Total plus one entry per day, oldest first, zero-filled for
    days with no visits
  - error: Storage failures after all fallback tiers
*/
func (service *Service) Stats(ctx context.Context, days int) (Stats, error) {

	if days <= 0 {
		days = DefaultStatsDays
	}
	if days > MaxStatsDays {
		days = MaxStatsDays
	}

	total, err := service.counter(ctx, constants.StorageKeyVisitsAll)
	if err != nil {
		return Stats{}, err
	}

	today := service.now().UTC()
	daily := make([]DayCount, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset).Format(dateLayout)
		count, err := service.counter(ctx, constants.StoragePrefixVisits+date)
		if err != nil {
			return Stats{}, err
		}
		daily = append(daily, DayCount{Date: date, Count: count})
	}

	return Stats{Total: total, Daily: daily}, nil
}

// increment bumps one counter document by one.
func (service *Service) increment(ctx context.Context, key string) error {

	count, err := service.counter(ctx, key)
	if err != nil {
		return err
	}

	return storage.SetJSON(ctx, service.kv, key, count+1)
}

// counter reads one counter document, treating absence as zero.
func (service *Service) counter(ctx context.Context, key string) (int64, error) {

	var count int64
	err := storage.GetJSON(ctx, service.kv, key, &count)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}
