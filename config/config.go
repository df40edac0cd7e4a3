package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger         `mapstructure:"logger"`
	DB           Database       `mapstructure:"database"`
	API          API            `mapstructure:"api"`
	Google       GoogleSearch   `mapstructure:"google"`
	Scraper      Scraper        `mapstructure:"scraper"`
	Gemini       Gemini         `mapstructure:"gemini"`
	AlphaVantage AlphaVantage   `mapstructure:"alphavantage"`
	NewsAPI      NewsAPI        `mapstructure:"newsapi"`
	Pipeline     Pipeline       `mapstructure:"pipeline"`
	Cache        Cache          `mapstructure:"cache"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type GoogleSearch struct {
	APIKey         string        `mapstructure:"api_key"`
	SearchEngineID string        `mapstructure:"search_engine_id"`
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryWait      time.Duration `mapstructure:"retry_wait"`
}

type Scraper struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type AlphaVantage struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	RetryWait           time.Duration `mapstructure:"retry_wait"`
	HistoryLimit        int           `mapstructure:"history_limit"`
}

type NewsAPI struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAgeDays  int           `mapstructure:"max_age_days"`
	MaxArticles int           `mapstructure:"max_articles"`
}

type Pipeline struct {
	Institutions              []string      `mapstructure:"institutions"`
	Watchlist                 []string      `mapstructure:"watchlist"`
	OutlookYear               int           `mapstructure:"outlook_year"`
	MaxPromptChars            int           `mapstructure:"max_prompt_chars"`
	ThemeDedupWindow          time.Duration `mapstructure:"theme_dedup_window"`
	RecommendationDedupWindow time.Duration `mapstructure:"recommendation_dedup_window"`
	Schedule                  string        `mapstructure:"schedule"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

func Load() (*Config, error) {
	// .env is optional, deployments set the environment directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("google.base_url", "https://www.googleapis.com/customsearch/v1")
	viper.SetDefault("google.timeout", "30s")
	viper.SetDefault("google.max_attempts", 3)
	viper.SetDefault("google.retry_wait", "2s")

	viper.SetDefault("scraper.navigation_timeout", "30s")
	viper.SetDefault("scraper.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", "60s")
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 250000)

	viper.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	viper.SetDefault("alphavantage.timeout", "30s")
	// Free tier allows 5 calls per minute.
	viper.SetDefault("alphavantage.max_request_per_minute", 4)
	viper.SetDefault("alphavantage.max_attempts", 3)
	viper.SetDefault("alphavantage.retry_wait", "2s")
	viper.SetDefault("alphavantage.history_limit", 10)

	viper.SetDefault("newsapi.base_url", "https://newsapi.org/v2")
	viper.SetDefault("newsapi.timeout", "30s")
	viper.SetDefault("newsapi.max_age_days", 3)
	viper.SetDefault("newsapi.max_articles", 5)

	viper.SetDefault("pipeline.institutions", []string{"Morgan Stanley", "J.P. Morgan", "BlackRock", "Goldman Sachs"})
	viper.SetDefault("pipeline.watchlist", []string{"MSFT", "TSLA", "NVDA", "AAPL", "SPY"})
	viper.SetDefault("pipeline.outlook_year", time.Now().Year())
	viper.SetDefault("pipeline.max_prompt_chars", 12000)
	viper.SetDefault("pipeline.theme_dedup_window", "24h")
	viper.SetDefault("pipeline.recommendation_dedup_window", "48h")
	viper.SetDefault("pipeline.schedule", "")

	viper.SetDefault("cache.default_expiration", "5m")
	viper.SetDefault("cache.cleanup_interval", "10m")
}
