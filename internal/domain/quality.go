package domain

import "fmt"

// Quality is the caller's rating of how well an item was recalled.
// Anything below Hard counts as a failed recall.
type Quality int

const (
	Again Quality = 1
	Hard  Quality = 3
	Good  Quality = 4
	Easy  Quality = 5
)

// Buttons lists the qualities offered to a reviewer, in display order.
var Buttons = []Quality{Again, Hard, Good, Easy}

func (q Quality) String() string {
	switch q {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}
