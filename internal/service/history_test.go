package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unit-converter/internal/models"
	"unit-converter/internal/repository"
	"unit-converter/internal/storage"
)

func newTestHistory(t *testing.T, store storage.Store, limit int, clk *clock) *HistoryStore {
	t.Helper()
	h := NewHistoryStore(context.Background(), repository.NewHistoryRepository(store, "unitconv"), limit, zap.NewNop())
	require.NoError(t, h.LoadError())
	if clk != nil {
		h.now = clk.Now
	}
	return h
}

func TestHistoryAddNewestFirst(t *testing.T) {
	ctx := context.Background()
	clk := newClock(testEpoch)
	h := newTestHistory(t, storage.NewMemoryStore(), 0, clk)
	assert.Equal(t, models.DefaultHistoryLimit, h.Limit())

	first, err := h.Add(ctx, 1, 100, models.UnitMeter, models.UnitCentimeter, models.CategoryLength)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := h.Add(ctx, 0, 32, models.UnitCelsius, models.UnitFahrenheit, models.CategoryTemperature)
	require.NoError(t, err)

	entries := h.List()
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, testEpoch.Add(time.Minute), entries[0].Timestamp)
}

func TestHistoryCapKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clk := newClock(testEpoch)
	h := newTestHistory(t, store, 50, clk)

	for i := 0; i < 51; i++ {
		_, err := h.Add(ctx, float64(i), float64(i)*1000, models.UnitKilogram, models.UnitGram, models.CategoryWeight)
		require.NoError(t, err)
		clk.Advance(time.Second)
	}

	entries := h.List()
	require.Len(t, entries, 50)
	assert.Equal(t, 50.0, entries[0].Value)
	assert.Equal(t, 1.0, entries[49].Value)

	persisted, err := repository.NewHistoryRepository(store, "unitconv").LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 50)
	assert.Equal(t, entries, persisted)
}

func TestHistoryTrimsOnLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	h := newTestHistory(t, store, 10, nil)
	for i := 0; i < 10; i++ {
		_, err := h.Add(ctx, float64(i), float64(i), models.UnitInch, models.UnitInch, models.CategoryLength)
		require.NoError(t, err)
	}

	smaller := newTestHistory(t, store, 3, nil)
	entries := smaller.List()
	require.Len(t, entries, 3)
	assert.Equal(t, 9.0, entries[0].Value)
}

func TestHistoryRejectsInvalidUnits(t *testing.T) {
	h := newTestHistory(t, storage.NewMemoryStore(), 0, nil)

	_, err := h.Add(context.Background(), 1, 1, "Lightyear", models.UnitMeter, models.CategoryLength)
	assert.ErrorIs(t, err, models.ErrUnknownUnit)
	assert.Empty(t, h.List())
}

func TestHistoryRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(t, storage.NewMemoryStore(), 0, nil)

	a, err := h.Add(ctx, 1, 2.2, models.UnitKilogram, models.UnitPound, models.CategoryWeight)
	require.NoError(t, err)
	b, err := h.Add(ctx, 2, 4.4, models.UnitKilogram, models.UnitPound, models.CategoryWeight)
	require.NoError(t, err)

	require.NoError(t, h.Remove(ctx, "missing"))
	require.NoError(t, h.Remove(ctx, a.ID))
	entries := h.List()
	require.Len(t, entries, 1)
	assert.Equal(t, b.ID, entries[0].ID)

	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.List())
	assert.Empty(t, h.GroupedByDay(nil))
	assert.NotNil(t, h.GroupedByDay(nil))
}

func TestHistoryGroupedByDay(t *testing.T) {
	ctx := context.Background()
	clk := newClock(time.Date(2025, 7, 20, 23, 30, 0, 0, time.UTC))
	h := newTestHistory(t, storage.NewMemoryStore(), 0, clk)

	add := func() models.HistoryEntry {
		e, err := h.Add(ctx, 1, 1000, models.UnitKilometer, models.UnitMeter, models.CategoryLength)
		require.NoError(t, err)
		return e
	}

	day1 := add()
	clk.Advance(time.Hour)
	day2a := add()
	clk.Advance(time.Hour)
	day2b := add()

	groups := h.GroupedByDay(time.UTC)
	require.Len(t, groups, 2)
	assert.Equal(t, "2025-07-21", groups[0].Label())
	assert.Equal(t, []string{day2b.ID, day2a.ID}, ids(groups[0].Entries))
	assert.Equal(t, "2025-07-20", groups[1].Label())
	assert.Equal(t, []string{day1.ID}, ids(groups[1].Entries))

	// Two hours east all three land on the 21st.
	east := time.FixedZone("UTC+2", 2*60*60)
	groups = h.GroupedByDay(east)
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-07-21", groups[0].Label())
	assert.Len(t, groups[0].Entries, 3)
}

func TestHistoryPersistenceFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	h := newTestHistory(t, store, 0, nil)

	store.setFailing(true)
	entry, err := h.Add(ctx, 5, 500, models.UnitMeter, models.UnitCentimeter, models.CategoryLength)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.NotEmpty(t, entry.ID)
	assert.Len(t, h.List(), 1)

	store.setFailing(false)
	reloaded := newTestHistory(t, store, 0, nil)
	assert.Empty(t, reloaded.List())
}

func ids(entries []models.HistoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestHistoryRejectsNonFinite(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	h := newTestHistory(t, store, 0, nil)

	for _, pair := range [][2]float64{{1e308, math.Inf(1)}, {math.NaN(), 1}, {1, math.Inf(-1)}} {
		_, err := h.Add(ctx, pair[0], pair[1], models.UnitKilometer, models.UnitMeter, models.CategoryLength)
		assert.ErrorIs(t, err, models.ErrInvalidValue)
	}
	assert.Empty(t, h.List())
	assert.Zero(t, store.Writes())

	// later writes still persist
	_, err := h.Add(ctx, 1, 1000, models.UnitKilometer, models.UnitMeter, models.CategoryLength)
	require.NoError(t, err)
	assert.Len(t, newTestHistory(t, store, 0, nil).List(), 1)
}

func TestHistoryCorruptValueStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "unitconv:history", []byte(`[{"id":`)))

	h := NewHistoryStore(ctx, repository.NewHistoryRepository(store, "unitconv"), 0, zap.NewNop())
	assert.ErrorIs(t, h.LoadError(), models.ErrPersistence)
	assert.Empty(t, h.List())

	_, err := h.Add(ctx, 0, 32, models.UnitCelsius, models.UnitFahrenheit, models.CategoryTemperature)
	require.NoError(t, err)
	assert.Len(t, newTestHistory(t, store, 0, nil).List(), 1)
}
