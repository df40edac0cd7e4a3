package model

import (
	"time"

	"gorm.io/datatypes"
)

// NewsArticle is a headline captured for a watch-list symbol. ExternalID is a
// hash of the article URL so re-ingesting the same feed stays idempotent.
type NewsArticle struct {
	ID          uint           `gorm:"primarykey"`
	Symbol      string         `gorm:"not null;size:10;index"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"not null"`
	Source      string         `gorm:"not null"`
	URL         string         `gorm:"not null"`
	ExternalID  string         `gorm:"not null;uniqueIndex"`
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	PublishedAt time.Time      `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (NewsArticle) TableName() string {
	return "news_articles"
}
