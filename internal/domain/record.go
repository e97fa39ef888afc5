package domain

import (
	"encoding/json"
	"time"
)

// ReviewRecord holds the scheduling state of one saved item.
// Timestamps are milliseconds since the Unix epoch.
type ReviewRecord struct {
	ItemID      string  `json:"itemId"`
	SavedAt     int64   `json:"savedAt"`
	NextReview  int64   `json:"nextReview"`
	Interval    int     `json:"interval"`
	EaseFactor  float64 `json:"easeFactor"`
	Repetitions int     `json:"repetitions"`
}

// NewRecord returns the state of an item saved at now.
func NewRecord(itemID string, now time.Time, initialEase float64) ReviewRecord {
	ms := now.UnixMilli()
	return ReviewRecord{
		ItemID:      itemID,
		SavedAt:     ms,
		NextReview:  ms,
		Interval:    0,
		EaseFactor:  initialEase,
		Repetitions: 0,
	}
}

// IsDue reports whether the record should be reviewed at now.
func (r ReviewRecord) IsDue(now time.Time) bool {
	return r.NextReview <= now.UnixMilli()
}

// NextReviewTime returns NextReview as a time.Time.
func (r ReviewRecord) NextReviewTime() time.Time {
	return time.UnixMilli(r.NextReview)
}

// UnmarshalJSON accepts the legacy "wordId" key in place of "itemId".
func (r *ReviewRecord) UnmarshalJSON(data []byte) error {
	type plain ReviewRecord
	var aux struct {
		plain
		WordID string `json:"wordId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ReviewRecord(aux.plain)
	if r.ItemID == "" {
		r.ItemID = aux.WordID
	}
	return nil
}
