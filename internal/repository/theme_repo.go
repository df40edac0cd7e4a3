package repository

import (
	"context"
	"fmt"
	"time"

	"market-intel/config"
	"market-intel/internal/model"
	"market-intel/pkg/apperrors"
	"market-intel/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ThemeRepository interface {
	// Insert persists a theme candidate unless an identical (source, title)
	// was recorded inside the dedup window. Returns apperrors.ErrDuplicateSkip
	// on a window hit.
	Insert(ctx context.Context, theme *model.MarketTheme) error
	GetRecentBySentiment(ctx context.Context, sentiment string, since time.Time) ([]model.MarketTheme, error)
	GetRecent(ctx context.Context, since time.Time) ([]model.MarketTheme, error)
}

type themeRepository struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewThemeRepository(db *gorm.DB, cfg *config.Config) ThemeRepository {
	return &themeRepository{db: db, cfg: cfg}
}

func (r *themeRepository) Insert(ctx context.Context, theme *model.MarketTheme) error {
	window := r.cfg.Pipeline.ThemeDedupWindow

	if theme.RecordedAt.IsZero() {
		theme.RecordedAt = utils.TimeNowUTC()
	}
	theme.DedupKey = utils.DedupKey(theme.RecordedAt, window, theme.Source, theme.Title)

	// Recency pre-check over the sliding window. Not atomic on its own, the
	// unique index on dedup_key is the backstop for overlapping runs.
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MarketTheme{}).
		Where("source = ? AND title = ? AND recorded_at > ?", theme.Source, theme.Title, theme.RecordedAt.Add(-window)).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing theme: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("theme %q from %s: %w", theme.Title, theme.Source, apperrors.ErrDuplicateSkip)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedup_key"}}, DoNothing: true}).
		Create(theme)
	if result.Error != nil {
		return fmt.Errorf("failed to insert theme: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("theme %q from %s: %w", theme.Title, theme.Source, apperrors.ErrDuplicateSkip)
	}

	return nil
}

func (r *themeRepository) GetRecentBySentiment(ctx context.Context, sentiment string, since time.Time) ([]model.MarketTheme, error) {
	var themes []model.MarketTheme
	err := r.db.WithContext(ctx).
		Where("sentiment = ? AND recorded_at > ?", sentiment, since).
		Order("recorded_at ASC, id ASC").
		Find(&themes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent %s themes: %w", sentiment, err)
	}
	return themes, nil
}

func (r *themeRepository) GetRecent(ctx context.Context, since time.Time) ([]model.MarketTheme, error) {
	var themes []model.MarketTheme
	err := r.db.WithContext(ctx).
		Where("recorded_at > ?", since).
		Order("recorded_at DESC, id DESC").
		Find(&themes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent themes: %w", err)
	}
	return themes, nil
}
