package db

// FuzzyQuery is the input for a fuzzy text match over one collection.
type FuzzyQuery struct {
	Collection string
	Path       string // document field matched against the text
	Text       string
	MaxEdits   int
	Limit      int // 0 = every candidate up to the driver's cap
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Doc holds the raw JSON document as
// stored by the backend.
type SearchEntry struct {
	ID    string
	Score float64
	Doc   []byte
}
