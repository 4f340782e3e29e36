package metrics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/internal/platform/storage"
)

func newTestService(day time.Time) *Service {
	service := NewService(storage.NewMemoryStore(), slog.New(slog.DiscardHandler))
	service.now = func() time.Time { return day }
	return service
}

func TestService_RecordVisit(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	service := newTestService(day)

	service.RecordVisit(ctx)
	service.RecordVisit(ctx)
	service.RecordVisit(ctx)

	stats, err := service.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	require.Len(t, stats.Daily, 1)
	assert.Equal(t, "2026-08-29", stats.Daily[0].Date)
	assert.Equal(t, int64(3), stats.Daily[0].Count)
}

func TestService_Stats_Window(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	service := newTestService(day)

	// Two visits yesterday, one today
	service.now = func() time.Time { return day.AddDate(0, 0, -1) }
	service.RecordVisit(ctx)
	service.RecordVisit(ctx)
	service.now = func() time.Time { return day }
	service.RecordVisit(ctx)

	stats, err := service.Stats(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	require.Len(t, stats.Daily, 3)

	// Oldest first, zero-filled for silent days
	assert.Equal(t, "2026-08-27", stats.Daily[0].Date)
	assert.Zero(t, stats.Daily[0].Count)
	assert.Equal(t, int64(2), stats.Daily[1].Count)
	assert.Equal(t, int64(1), stats.Daily[2].Count)
}

func TestService_Stats_Clamping(t *testing.T) {
	ctx := context.Background()
	service := newTestService(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))

	stats, err := service.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, stats.Daily, DefaultStatsDays)

	stats, err = service.Stats(ctx, 100000)
	require.NoError(t, err)
	assert.Len(t, stats.Daily, MaxStatsDays)
}
