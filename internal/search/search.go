// Package search finds ideas by title, description, owner or university.
package search

// Result is a single search hit returned to the caller.
type Result struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	OwnerName  string `json:"ownerName"`
	University string `json:"university"`
	Status     string `json:"status"`
}

// Query describes a search request.
type Query struct {
	Text         string
	FilterStatus string // empty = all statuses
	Limit        int
	Offset       int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// IdeaRecord is the data we index for an idea.
type IdeaRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerName   string `json:"ownerName"`
	University  string `json:"university"`
	Status      string `json:"status"`
}
