package dto

// NewsAPIEverythingResponse is the subset of the NewsAPI /v2/everything
// payload ingested for watch-list symbols.
type NewsAPIEverythingResponse struct {
	Status   string           `json:"status"`
	Articles []NewsAPIArticle `json:"articles"`
}

type NewsAPIArticle struct {
	Source      NewsAPISource `json:"source"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

type NewsAPISource struct {
	Name string `json:"name"`
}
