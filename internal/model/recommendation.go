package model

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation ties a validated instrument selection to the theme that
// produced it. RawSelection keeps the model's answer verbatim for audit.
type Recommendation struct {
	ID            uint           `gorm:"primarykey"`
	Symbol        string         `gorm:"not null;size:10"`
	CompanyName   string         `gorm:"not null"`
	Price         float64        `gorm:"not null;default:0"`
	MatchingTheme string         `gorm:"not null;size:200"`
	Reasoning     string         `gorm:"not null"`
	RawSelection  datatypes.JSON `gorm:"type:jsonb"`
	DedupKey      string         `gorm:"not null;uniqueIndex"`
	GeneratedAt   time.Time      `gorm:"not null;index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
