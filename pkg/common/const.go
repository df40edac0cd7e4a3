package common

const (
	PROVIDER_GOOGLE_SEARCH = "google_search"
	PROVIDER_GEMINI        = "gemini"
	PROVIDER_ALPHAVANTAGE  = "alphavantage"
	PROVIDER_NEWSAPI       = "newsapi"
)

const (
	KEY_PRICE_HISTORY = "price_history:%s"
	KEY_API_THEMES    = "api:themes"
	KEY_API_RECS      = "api:recommendations"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)
