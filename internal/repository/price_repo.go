package repository

import (
	"context"
	"fmt"

	"market-intel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricePointRepository interface {
	// InsertBatch appends price points, silently skipping (symbol, date)
	// pairs that already exist. Returns the number of new rows.
	InsertBatch(ctx context.Context, points []model.PricePoint) (int64, error)
	GetHistory(ctx context.Context, symbol string, limit int) ([]model.PricePoint, error)
}

type pricePointRepository struct {
	db *gorm.DB
}

func NewPricePointRepository(db *gorm.DB) PricePointRepository {
	return &pricePointRepository{db: db}
}

func (r *pricePointRepository) InsertBatch(ctx context.Context, points []model.PricePoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&points)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert price points: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *pricePointRepository) GetHistory(ctx context.Context, symbol string, limit int) ([]model.PricePoint, error) {
	var points []model.PricePoint
	query := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", symbol, err)
	}
	return points, nil
}
