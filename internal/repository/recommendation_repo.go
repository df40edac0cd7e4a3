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

type RecommendationRepository interface {
	// Insert persists a recommendation unless (symbol, matching theme) was
	// already recommended inside the dedup window.
	Insert(ctx context.Context, rec *model.Recommendation) error
	GetRecent(ctx context.Context, since time.Time) ([]model.Recommendation, error)
}

type recommendationRepository struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewRecommendationRepository(db *gorm.DB, cfg *config.Config) RecommendationRepository {
	return &recommendationRepository{db: db, cfg: cfg}
}

func (r *recommendationRepository) Insert(ctx context.Context, rec *model.Recommendation) error {
	window := r.cfg.Pipeline.RecommendationDedupWindow

	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = utils.TimeNowUTC()
	}
	rec.DedupKey = utils.DedupKey(rec.GeneratedAt, window, rec.Symbol, rec.MatchingTheme)

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recommendation{}).
		Where("symbol = ? AND matching_theme = ? AND generated_at > ?", rec.Symbol, rec.MatchingTheme, rec.GeneratedAt.Add(-window)).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing recommendation: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("recommendation %s for %q: %w", rec.Symbol, rec.MatchingTheme, apperrors.ErrDuplicateSkip)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedup_key"}}, DoNothing: true}).
		Create(rec)
	if result.Error != nil {
		return fmt.Errorf("failed to insert recommendation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recommendation %s for %q: %w", rec.Symbol, rec.MatchingTheme, apperrors.ErrDuplicateSkip)
	}

	return nil
}

func (r *recommendationRepository) GetRecent(ctx context.Context, since time.Time) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.db.WithContext(ctx).
		Where("generated_at > ?", since).
		Order("generated_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent recommendations: %w", err)
	}
	return recs, nil
}
