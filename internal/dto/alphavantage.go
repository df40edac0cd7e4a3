package dto

// AlphaVantageDailyResponse models the TIME_SERIES_DAILY payload. The series
// is keyed by date string; the key being absent entirely is how the API
// signals quota exhaustion or an unknown symbol.
type AlphaVantageDailyResponse struct {
	TimeSeries map[string]AlphaVantageDailyEntry `json:"Time Series (Daily)"`
}

type AlphaVantageDailyEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
