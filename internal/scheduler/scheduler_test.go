package scheduler_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/scheduler"
)

var now = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func fresh() models.MasteryRecord {
	return models.MasteryRecord{MasteryLevel: 0, Streak: 0, Easiness: 2.5, IntervalDays: 0}
}

func TestUpdateOnAttempt_FirstCorrect(t *testing.T) {
	updated := scheduler.UpdateOnAttempt(fresh(), true, now)

	assert.Equal(t, 1, updated.Streak)
	assert.Equal(t, 1, updated.MasteryLevel)
	assert.InDelta(t, 2.6, updated.Easiness, 1e-9)
	assert.InDelta(t, 2.6, updated.IntervalDays, 1e-9, "streak 1 uses base interval 1")
	assert.WithinDuration(t, now.Add(62*time.Hour+24*time.Minute), updated.DueAt, time.Second)
}

func TestUpdateOnAttempt_Incorrect(t *testing.T) {
	rec := models.MasteryRecord{MasteryLevel: 2, Streak: 3, Easiness: 2.5, IntervalDays: 1}

	updated := scheduler.UpdateOnAttempt(rec, false, now)

	assert.Equal(t, 0, updated.Streak)
	assert.Equal(t, 1, updated.MasteryLevel)
	assert.InDelta(t, 2.3, updated.Easiness, 1e-9)
	assert.InDelta(t, scheduler.MissIntervalDays, updated.IntervalDays, 1e-9)
	assert.True(t, updated.DueAt.After(now))
	assert.True(t, updated.DueAt.Before(now.Add(2*time.Hour)))
}

func TestUpdateOnAttempt_IntervalProgression(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		easiness float64
		expected float64
	}{
		{"second in a row uses base 3", 1, 2.5, 3 * 2.6},
		{"third in a row uses 2^3", 2, 2.5, 8 * 2.6},
		{"long streak is capped at 30", 5, 2.5, 30},
		{"low easiness", 2, 1.3, 8 * 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.MasteryRecord{MasteryLevel: 2, Streak: tt.streak, Easiness: tt.easiness}
			updated := scheduler.UpdateOnAttempt(rec, true, now)
			assert.InDelta(t, tt.expected, updated.IntervalDays, 1e-9)
			assert.Equal(t, tt.streak+1, updated.Streak)
		})
	}
}

func TestUpdateOnAttempt_MonotonicMastery(t *testing.T) {
	for level := 0; level <= 5; level++ {
		rec := models.MasteryRecord{MasteryLevel: level, Easiness: 2.5}
		updated := scheduler.UpdateOnAttempt(rec, true, now)
		assert.Equal(t, min(5, level+1), updated.MasteryLevel)

		missed := scheduler.UpdateOnAttempt(rec, false, now)
		assert.Equal(t, max(0, level-1), missed.MasteryLevel)
		assert.Equal(t, 0, missed.Streak)
	}
}

func TestUpdateOnAttempt_EasinessFloor(t *testing.T) {
	rec := fresh()
	for i := 0; i < 20; i++ {
		rec = scheduler.UpdateOnAttempt(rec, false, now)
		require.GreaterOrEqual(t, rec.Easiness, models.MinEasiness)
		require.GreaterOrEqual(t, rec.MasteryLevel, 0)
	}
	assert.InDelta(t, models.MinEasiness, rec.Easiness, 1e-9)
}

func TestUpdateOnAttempt_DoesNotMutateInput(t *testing.T) {
	rec := fresh()
	_ = scheduler.UpdateOnAttempt(rec, true, now)
	assert.Equal(t, fresh(), rec)
}

func record(factID int64, level int, dueOffset time.Duration) models.MasteryRecord {
	return models.MasteryRecord{FactID: factID, MasteryLevel: level, Easiness: 2.5, DueAt: now.Add(dueOffset)}
}

func factIDs(recs []models.MasteryRecord) []int64 {
	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.FactID
	}
	return ids
}

func TestSelectNextBatch_WeaknessFirst(t *testing.T) {
	due := []models.MasteryRecord{
		record(1, 3, -time.Hour),
		record(2, 0, -time.Minute),
		record(3, 0, -2*time.Hour),
		record(4, 1, -10*time.Hour),
	}

	batch := scheduler.SelectNextBatch(due, nil, 10)

	assert.Equal(t, []int64{3, 2, 4, 1}, factIDs(batch))
}

func TestSelectNextBatch_FillsFromBacklog(t *testing.T) {
	due := []models.MasteryRecord{record(1, 2, -time.Hour)}
	backlog := []models.MasteryRecord{
		record(10, 4, time.Hour),
		record(11, 1, 5*time.Hour),
		record(12, 1, 2*time.Hour),
	}

	batch := scheduler.SelectNextBatch(due, backlog, 3)

	assert.Equal(t, []int64{1, 12, 11}, factIDs(batch))
}

func TestSelectNextBatch_DueOnlyWhenEnough(t *testing.T) {
	var due []models.MasteryRecord
	for i := int64(1); i <= 12; i++ {
		due = append(due, record(i, 0, -time.Duration(i)*time.Minute))
	}
	backlog := []models.MasteryRecord{record(99, 0, time.Hour)}

	batch := scheduler.SelectNextBatch(due, backlog, 10)

	require.Len(t, batch, 10)
	assert.NotContains(t, factIDs(batch), int64(99))
	assert.Equal(t, int64(12), batch[0].FactID, "most overdue first among equal levels")
}

func TestSelectNextBatch_Bounds(t *testing.T) {
	due := []models.MasteryRecord{record(1, 0, -time.Hour), record(2, 0, -time.Hour)}
	backlog := []models.MasteryRecord{record(3, 0, time.Hour)}

	for k := 1; k <= 6; k++ {
		batch := scheduler.SelectNextBatch(due, backlog, k)
		assert.LessOrEqual(t, len(batch), k)
		assert.LessOrEqual(t, len(batch), len(due)+len(backlog))
	}
}

func TestSelectNextBatch_Empty(t *testing.T) {
	batch := scheduler.SelectNextBatch(nil, nil, 10)
	assert.NotNil(t, batch)
	assert.Empty(t, batch)
}

func TestSelectNextBatch_DefaultSize(t *testing.T) {
	var due []models.MasteryRecord
	for i := int64(1); i <= 20; i++ {
		due = append(due, record(i, 0, -time.Minute))
	}
	assert.Len(t, scheduler.SelectNextBatch(due, nil, 0), scheduler.DefaultBatchSize)
}

func TestSelectNextBatch_StableAndPure(t *testing.T) {
	due := []models.MasteryRecord{
		record(5, 1, -time.Hour),
		record(6, 1, -time.Hour),
		record(7, 0, -time.Hour),
	}
	original := append([]models.MasteryRecord(nil), due...)

	first := scheduler.SelectNextBatch(due, nil, 10)
	second := scheduler.SelectNextBatch(due, nil, 10)

	assert.Equal(t, first, second)
	assert.Equal(t, original, due, "input must not be reordered")
	assert.Equal(t, []int64{7, 5, 6}, factIDs(first))
}

func TestSeedOffset(t *testing.T) {
	a := scheduler.SeedOffset("user-1", 42)
	assert.Equal(t, a, scheduler.SeedOffset("user-1", 42))
	assert.GreaterOrEqual(t, a, time.Duration(0))
	assert.Less(t, a, scheduler.SeedWindow)

	distinct := map[time.Duration]bool{}
	for id := int64(1); id <= 144; id++ {
		distinct[scheduler.SeedOffset("user-1", id)] = true
	}
	assert.Greater(t, len(distinct), 100, "offsets should spread across the window")
}

func TestNewRecord(t *testing.T) {
	rec := scheduler.NewRecord("kid", 7, now)

	assert.Equal(t, "kid", rec.UserID)
	assert.Equal(t, int64(7), rec.FactID)
	assert.Equal(t, 0, rec.MasteryLevel)
	assert.Equal(t, 0, rec.Streak)
	assert.Equal(t, models.InitialEasiness, rec.Easiness)
	assert.True(t, rec.IsDue(now))
	offset := now.Sub(rec.DueAt)
	assert.InDelta(t, offset.Hours()/24, rec.IntervalDays, 1e-9)
	assert.False(t, math.IsNaN(rec.IntervalDays))
}
