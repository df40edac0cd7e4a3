package model

import "time"

// PricePoint is one daily close for a symbol. Append-only, unique per
// (symbol, date).
type PricePoint struct {
	ID        uint      `gorm:"primarykey"`
	Symbol    string    `gorm:"not null;size:10;uniqueIndex:idx_price_points_symbol_date"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_price_points_symbol_date"`
	Close     float64   `gorm:"not null"`
	Volume    int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PricePoint) TableName() string {
	return "price_points"
}
