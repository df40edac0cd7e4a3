package model

import "time"

const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
	SentimentNeutral = "Neutral"
)

// MarketTheme is an extracted macro thesis attributed to a source
// institution. Rows are immutable; a theme seen again after its dedup window
// elapses is recorded as a new row, never an update.
type MarketTheme struct {
	ID         uint      `gorm:"primarykey"`
	Source     string    `gorm:"not null;size:100"`
	Title      string    `gorm:"not null;size:200"`
	Sentiment  string    `gorm:"not null"`
	Reasoning  string    `gorm:"not null"`
	DedupKey   string    `gorm:"not null;uniqueIndex"`
	RecordedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MarketTheme) TableName() string {
	return "market_themes"
}
