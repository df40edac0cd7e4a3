package dto

// GoogleSearchResponse is the subset of the Custom Search JSON API response
// the scout consumes.
type GoogleSearchResponse struct {
	Items []GoogleSearchItem `json:"items"`
}

type GoogleSearchItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}
