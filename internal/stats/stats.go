// Package stats derives dashboard counts from a snapshot of review records.
package stats

import (
	"time"

	"github.com/conorfennell/zeal/internal/domain"
)

// Compute counts all, due and mastered records. mastered decides which
// records count as learned.
func Compute(recs []domain.ReviewRecord, now time.Time, mastered func(domain.ReviewRecord) bool) domain.Stats {
	s := domain.Stats{TotalCards: len(recs)}
	for _, r := range recs {
		if r.IsDue(now) {
			s.DueCards++
		}
		if mastered(r) {
			s.MasteredCards++
		}
	}
	return s
}
