package domain

// Stats summarizes a deck for the dashboard.
type Stats struct {
	TotalCards    int `json:"totalCards"`
	DueCards      int `json:"dueCards"`
	MasteredCards int `json:"masteredCards"`
}
