// Package scheduler implements the mastery update rule and batch selection
// for multiplication facts. All functions are pure.
package scheduler

import (
	"cmp"
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/vytor/factflash/internal/models"
)

const (
	DefaultBatchSize = 10

	MaxIntervalDays  = 30.0
	MissIntervalDays = 0.04 // roughly one hour

	easinessGain    = 0.1
	easinessPenalty = 0.2

	// SeedWindow bounds how far in the past a freshly seeded record is due.
	SeedWindow = 72 * time.Hour
)

// UpdateOnAttempt returns the record after one attempt answered at now.
func UpdateOnAttempt(rec models.MasteryRecord, correct bool, now time.Time) models.MasteryRecord {
	if correct {
		rec.Streak++
		rec.Easiness = math.Max(models.MinEasiness, rec.Easiness+easinessGain)
		rec.MasteryLevel = min(models.MaxMasteryLevel, rec.MasteryLevel+1)
		rec.IntervalDays = math.Min(MaxIntervalDays, baseInterval(rec.Streak)*rec.Easiness)
	} else {
		rec.Streak = 0
		rec.Easiness = math.Max(models.MinEasiness, rec.Easiness-easinessPenalty)
		rec.MasteryLevel = max(models.MinMasteryLevel, rec.MasteryLevel-1)
		rec.IntervalDays = MissIntervalDays
	}
	rec.DueAt = now.Add(days(rec.IntervalDays))
	return rec
}

func baseInterval(streak int) float64 {
	switch streak {
	case 1:
		return 1
	case 2:
		return 3
	default:
		return math.Pow(2, float64(streak))
	}
}

func days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}

// SelectNextBatch picks up to k records, weakest and most overdue first.
// Backlog records only fill whatever the due records leave open.
func SelectNextBatch(due, backlog []models.MasteryRecord, k int) []models.MasteryRecord {
	if k <= 0 {
		k = DefaultBatchSize
	}

	batch := make([]models.MasteryRecord, 0, min(k, len(due)+len(backlog)))
	batch = append(batch, weakestFirst(due, k)...)
	if short := k - len(batch); short > 0 {
		batch = append(batch, weakestFirst(backlog, short)...)
	}
	return batch
}

func weakestFirst(recs []models.MasteryRecord, take int) []models.MasteryRecord {
	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, compareWeakness)
	if len(sorted) > take {
		sorted = sorted[:take]
	}
	return sorted
}

func compareWeakness(x, y models.MasteryRecord) int {
	if c := cmp.Compare(x.MasteryLevel, y.MasteryLevel); c != 0 {
		return c
	}
	if c := x.DueAt.Compare(y.DueAt); c != 0 {
		return c
	}
	return cmp.Compare(x.FactID, y.FactID)
}

// SeedOffset is the deterministic per-(user, fact) stagger applied when a
// record is first created. It lies in [0, SeedWindow).
func SeedOffset(userID string, factID int64) time.Duration {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(factID, 10)))
	minutes := h.Sum32() % uint32(SeedWindow/time.Minute)
	return time.Duration(minutes) * time.Minute
}

// NewRecord builds the initial mastery state for a user and fact at now.
func NewRecord(userID string, factID int64, now time.Time) models.MasteryRecord {
	offset := SeedOffset(userID, factID)
	return models.MasteryRecord{
		UserID:       userID,
		FactID:       factID,
		MasteryLevel: models.MinMasteryLevel,
		Streak:       0,
		Easiness:     models.InitialEasiness,
		IntervalDays: offset.Hours() / 24,
		DueAt:        now.Add(-offset),
	}
}
