package services

import (
	"context"

	"github.com/vytor/factflash/internal/catalog"
	"github.com/vytor/factflash/internal/hints"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/problems"
)

// ContentService serves hints and word problems. Operands are floored and
// clamped into [0, 12] before use, so any numeric input is accepted.
type ContentService interface {
	Hint(ctx context.Context, a, b float64) string
	WordProblem(ctx context.Context, a, b float64, theme string) models.WordProblem
}

type contentService struct{}

// NewContentService creates a new ContentService
func NewContentService() ContentService {
	return contentService{}
}

func (contentService) Hint(ctx context.Context, a, b float64) string {
	x, y := catalog.SanitizeOperand(a), catalog.SanitizeOperand(b)
	logger.FromContext(ctx).Debug("hint requested: %v x %v -> %d x %d", a, b, x, y)
	return hints.Hint(x, y)
}

func (contentService) WordProblem(ctx context.Context, a, b float64, theme string) models.WordProblem {
	x, y := catalog.SanitizeOperand(a), catalog.SanitizeOperand(b)
	logger.FromContext(ctx).Debug("word problem requested: %v x %v -> %d x %d, theme=%q", a, b, x, y, theme)
	return problems.Generate(x, y, theme)
}
