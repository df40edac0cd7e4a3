package repository

import (
	"context"
	"fmt"

	"market-intel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewsArticleRepository interface {
	// InsertBatch appends articles, skipping ones whose external id is
	// already stored. Returns the number of new rows.
	InsertBatch(ctx context.Context, articles []model.NewsArticle) (int64, error)
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]model.NewsArticle, error)
}

type newsArticleRepository struct {
	db *gorm.DB
}

func NewNewsArticleRepository(db *gorm.DB) NewsArticleRepository {
	return &newsArticleRepository{db: db}
}

func (r *newsArticleRepository) InsertBatch(ctx context.Context, articles []model.NewsArticle) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(&articles)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert news articles: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *newsArticleRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]model.NewsArticle, error) {
	var articles []model.NewsArticle
	query := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to load news for %s: %w", symbol, err)
	}
	return articles, nil
}
