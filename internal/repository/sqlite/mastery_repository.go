package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/repository"
)

var masteryColumns = []string{
	"id", "user_id", "fact_id", "mastery_level", "streak", "easiness", "interval_days",
	"due_at", "last_latency_ms", "last_accuracy", "created_at", "updated_at",
}

type masteryRepository struct {
	db *sql.DB
}

// NewMasteryRepository creates a new MasteryRepository implementation
func NewMasteryRepository(db *sql.DB) repository.MasteryRepository {
	return &masteryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMastery(row rowScanner) (models.MasteryRecord, error) {
	var m models.MasteryRecord
	var latency sql.NullInt64
	var accuracy sql.NullFloat64
	err := row.Scan(&m.ID, &m.UserID, &m.FactID, &m.MasteryLevel, &m.Streak, &m.Easiness, &m.IntervalDays,
		&m.DueAt, &latency, &accuracy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if latency.Valid {
		m.LastLatencyMs = &latency.Int64
	}
	if accuracy.Valid {
		m.LastAccuracy = &accuracy.Float64
	}
	return m, nil
}

func (r *masteryRepository) Find(ctx context.Context, userID string, filter models.MasteryFilter) ([]models.MasteryRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("finding mastery records: user_id=%s, due_before=%v, due_after=%v", userID, filter.DueBefore, filter.DueAfter)

	query := sqlBuilder.Select(masteryColumns...).
		From("user_facts").
		Where(squirrel.Eq{"user_id": userID})

	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"due_at": utc(*filter.DueBefore)})
	}
	if filter.DueAfter != nil {
		query = query.Where(squirrel.Gt{"due_at": utc(*filter.DueAfter)})
	}
	query = query.OrderBy("fact_id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to query mastery records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.MasteryRecord
	for rows.Next() {
		m, err := scanMastery(rows)
		if err != nil {
			log.Error("failed to scan mastery row: %v", err)
			return nil, err
		}
		records = append(records, m)
	}
	log.Debug("found %d mastery records", len(records))
	return records, rows.Err()
}

func (r *masteryRepository) InsertIfAbsent(ctx context.Context, records []models.MasteryRecord) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("inserting %d mastery records if absent", len(records))

	if len(records) == 0 {
		return nil
	}

	now := utc(time.Now())
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, chunk := range chunks(records, insertChunkSize) {
			query := sqlBuilder.Insert("user_facts").
				Options("OR IGNORE").
				Columns("user_id", "fact_id", "mastery_level", "streak", "easiness", "interval_days", "due_at", "created_at", "updated_at")
			for _, m := range chunk {
				query = query.Values(m.UserID, m.FactID, m.MasteryLevel, m.Streak, m.Easiness, m.IntervalDays, utc(m.DueAt), now, now)
			}

			sql, args, err := query.ToSql()
			if err != nil {
				log.Error("failed to build query: %v", err)
				return err
			}
			res, err := tx.ExecContext(ctx, sql, args...)
			if err != nil {
				log.Error("failed to insert mastery records: %v", err)
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				log.Debug("inserted %d of %d mastery records", n, len(chunk))
			}
		}
		return nil
	})
}

func (r *masteryRepository) Get(ctx context.Context, userID string, factID int64) (*models.MasteryRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("getting mastery record: user_id=%s, fact_id=%d", userID, factID)

	query := sqlBuilder.Select(masteryColumns...).
		From("user_facts").
		Where(squirrel.Eq{"user_id": userID, "fact_id": factID})

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	m, err := scanMastery(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("mastery record not found: user_id=%s, fact_id=%d", userID, factID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery record: %v", err)
		return nil, err
	}
	return &m, nil
}

func (r *masteryRepository) Update(ctx context.Context, m models.MasteryRecord) (*models.MasteryRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("updating mastery record: id=%d, level=%d, streak=%d, interval=%.2f, easiness=%.2f",
		m.ID, m.MasteryLevel, m.Streak, m.IntervalDays, m.Easiness)

	res, err := r.db.ExecContext(ctx, `
UPDATE user_facts
SET mastery_level = ?, streak = ?, easiness = ?, interval_days = ?, due_at = ?,
    last_latency_ms = ?, last_accuracy = ?, updated_at = ?
WHERE id = ?
`, m.MasteryLevel, m.Streak, m.Easiness, m.IntervalDays, utc(m.DueAt),
		nullInt64(m.LastLatencyMs), nullFloat64(m.LastAccuracy), utc(time.Now()), m.ID)
	if err != nil {
		log.Error("failed to update mastery record: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("mastery record not found: id=%d", m.ID)
		return nil, nil
	}

	updated, err := scanMastery(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, fact_id, mastery_level, streak, easiness, interval_days, due_at, last_latency_ms, last_accuracy, created_at, updated_at
FROM user_facts WHERE id = ?`, m.ID))
	if err != nil {
		log.Error("failed to reload mastery record: %v", err)
		return nil, err
	}
	return &updated, nil
}

func (r *masteryRepository) Stats(ctx context.Context, userID string, now time.Time) (*models.MasteryStats, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("fetching mastery stats: user_id=%s", userID)

	now = utc(now)
	stats := models.MasteryStats{LevelCounts: make(map[int]int, models.MaxMasteryLevel+1)}
	for level := models.MinMasteryLevel; level <= models.MaxMasteryLevel; level++ {
		stats.LevelCounts[level] = 0
	}

	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*) AS total_facts,
    COALESCE(SUM(CASE WHEN due_at <= ? THEN 1 ELSE 0 END), 0) AS due_now,
    COALESCE(SUM(CASE WHEN due_at > ? AND due_at <= ? THEN 1 ELSE 0 END), 0) AS due_within_day,
    COALESCE(AVG(easiness), 0) AS avg_easiness,
    COALESCE(AVG(interval_days), 0) AS avg_interval_days
FROM user_facts
WHERE user_id = ?
`, now, now, now.Add(24*time.Hour), userID).Scan(
		&stats.TotalFacts,
		&stats.DueNow,
		&stats.DueWithinDay,
		&stats.AvgEasiness,
		&stats.AvgIntervalDays,
	)
	if err != nil {
		log.Error("failed to get mastery stats: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT mastery_level, COUNT(*)
FROM user_facts
WHERE user_id = ?
GROUP BY mastery_level
`, userID)
	if err != nil {
		log.Error("failed to query mastery levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			log.Error("failed to scan mastery level row: %v", err)
			return nil, err
		}
		stats.LevelCounts[level] = count
	}
	return &stats, rows.Err()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
