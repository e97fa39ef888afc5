package domain

// Item is a learnable entry from a catalog source.
// ID is derived from the content and is the key the scheduler stores.
type Item struct {
	Front   string
	Back    string
	Context string
	ID      string
}
