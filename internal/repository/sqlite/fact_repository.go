package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/repository"
)

type factRepository struct {
	db *sql.DB
}

// NewFactRepository creates a new FactRepository implementation
func NewFactRepository(db *sql.DB) repository.FactRepository {
	return &factRepository{db: db}
}

func (r *factRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("fact_repo")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&count); err != nil {
		log.Error("failed to count facts: %v", err)
		return 0, err
	}
	log.Debug("fact catalog has %d rows", count)
	return count, nil
}

func (r *factRepository) InsertBatch(ctx context.Context, facts []models.Fact) error {
	log := logger.FromContext(ctx).WithPrefix("fact_repo")
	log.Debug("inserting %d facts", len(facts))

	if len(facts) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, chunk := range chunks(facts, insertChunkSize) {
			query := sqlBuilder.Insert("facts").Options("OR IGNORE").Columns("a", "b", "op")
			for _, f := range chunk {
				op := f.Op
				if op == "" {
					op = models.OpMultiply
				}
				query = query.Values(f.A, f.B, op)
			}

			sql, args, err := query.ToSql()
			if err != nil {
				log.Error("failed to build query: %v", err)
				return err
			}
			if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
				log.Error("failed to insert facts: %v", err)
				return err
			}
		}
		return nil
	})
}

func (r *factRepository) Get(ctx context.Context, id int64) (*models.Fact, error) {
	log := logger.FromContext(ctx).WithPrefix("fact_repo")
	log.Debug("getting fact: id=%d", id)

	var f models.Fact
	err := r.db.QueryRowContext(ctx, `SELECT id, a, b, op FROM facts WHERE id = ?`, id).
		Scan(&f.ID, &f.A, &f.B, &f.Op)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("fact not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get fact: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *factRepository) List(ctx context.Context, orderBy models.FactOrder, take int) ([]models.Fact, error) {
	log := logger.FromContext(ctx).WithPrefix("fact_repo")
	log.Debug("listing facts: order=%s, take=%d", orderBy, take)

	query := sqlBuilder.Select("id", "a", "b", "op").From("facts")

	switch orderBy {
	case models.FactOrderID:
		query = query.OrderBy("id ASC")
	default:
		query = query.OrderBy("a ASC", "b ASC")
	}
	if take > 0 {
		query = query.Limit(uint64(take))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to list facts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var facts []models.Fact
	for rows.Next() {
		var f models.Fact
		if err := rows.Scan(&f.ID, &f.A, &f.B, &f.Op); err != nil {
			log.Error("failed to scan fact row: %v", err)
			return nil, err
		}
		facts = append(facts, f)
	}
	log.Debug("found %d facts", len(facts))
	return facts, rows.Err()
}
