package domain

import (
	"encoding/json"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNewRecordIsDueImmediately(t *testing.T) {
	r := NewRecord("privet", t0, 2.5)

	if !r.IsDue(t0) {
		t.Errorf("Expected a fresh record to be due at its save time")
	}
	if r.SavedAt != r.NextReview {
		t.Errorf("Expected savedAt and nextReview to match, but got %d and %d", r.SavedAt, r.NextReview)
	}
}

func TestIsDue(t *testing.T) {
	r := ReviewRecord{ItemID: "a", NextReview: t0.UnixMilli()}

	testCases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before", now: t0.Add(-time.Millisecond), want: false},
		{name: "exactly at", now: t0, want: true},
		{name: "after", now: t0.Add(time.Hour), want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.IsDue(tc.now); got != tc.want {
				t.Errorf("Expected IsDue %v, but got %v", tc.want, got)
			}
		})
	}
}

func TestNextReviewTime(t *testing.T) {
	r := ReviewRecord{NextReview: t0.Add(6 * 24 * time.Hour).UnixMilli()}

	if got, want := r.NextReviewTime(), t0.Add(6*24*time.Hour); !got.Equal(want) {
		t.Errorf("Expected %s, but got %s", want, got)
	}
}

func TestUnmarshalLegacyWordID(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want string
	}{
		{name: "item id", data: `{"itemId":"privet"}`, want: "privet"},
		{name: "legacy word id", data: `{"wordId":"poka"}`, want: "poka"},
		{name: "item id wins", data: `{"itemId":"privet","wordId":"poka"}`, want: "privet"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var r ReviewRecord
			if err := json.Unmarshal([]byte(tc.data), &r); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if r.ItemID != tc.want {
				t.Errorf("Expected item id %q, but got %q", tc.want, r.ItemID)
			}
		})
	}
}
