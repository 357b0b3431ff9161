package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: id=%s", id)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, created_at)
VALUES (?, ?)
ON CONFLICT(id) DO NOTHING
`, id, utc(time.Now()))
	if err != nil {
		log.Error("failed to upsert user: %v", err)
	}
	return err
}
