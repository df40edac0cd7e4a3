package dto

type GeminiAPIRequest struct {
	SystemInstruction *Content  `json:"system_instruction,omitempty"`
	Contents          []Content `json:"contents"`
}

type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// ThemeCandidate is one entry of the JSON array the extractor prompt asks
// the model to return.
type ThemeCandidate struct {
	Title     string `json:"title"`
	Sentiment string `json:"sentiment"`
	Reason    string `json:"reason"`
}

// InstrumentMatch is one entry of the matcher's JSON answer. The ticker is
// unvalidated model output until checked against the universe.
type InstrumentMatch struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}
