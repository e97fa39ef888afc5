package sm2

import (
	"math"
	"time"

	"github.com/conorfennell/zeal/internal/domain"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Params holds the constants of the SM-2 update rule.
// DefaultParams reproduces the classic schedule; other values are for tuning.
type Params struct {
	InitialEase         float64       // ease factor of a freshly saved item
	MinEase             float64       // hard floor for the ease factor
	RetryDelay          time.Duration // delay before a failed item is due again
	FirstInterval       int           // days after the first successful review
	SecondInterval      int           // days after the second successful review
	PassThreshold       domain.Quality
	MasteredRepetitions int // consecutive successes that count as mastered
}

// DefaultParams provides the standard SM-2 constants.
func DefaultParams() *Params {
	return &Params{
		InitialEase:         2.5,
		MinEase:             1.3,
		RetryDelay:          time.Minute,
		FirstInterval:       1,
		SecondInterval:      6,
		PassThreshold:       domain.Hard,
		MasteredRepetitions: 5,
	}
}

// Review computes the state of rec after a review of quality q at now.
// rec is not modified. Qualities outside the documented range are not
// rejected; they fall on either side of PassThreshold like any other value.
func (p *Params) Review(rec domain.ReviewRecord, q domain.Quality, now time.Time) domain.ReviewRecord {
	next := rec

	if q < p.PassThreshold {
		next.Repetitions = 0
		next.Interval = 0
		next.NextReview = now.UnixMilli() + p.RetryDelay.Milliseconds()
		return next
	}

	next.Repetitions++
	switch next.Repetitions {
	case 1:
		next.Interval = p.FirstInterval
	case 2:
		next.Interval = p.SecondInterval
	default:
		// The interval grows by the ease factor as it stood before this review.
		next.Interval = growInterval(rec.Interval, rec.EaseFactor)
	}

	next.EaseFactor = p.nextEase(rec.EaseFactor, q)
	next.NextReview = addDays(now.UnixMilli(), next.Interval)
	return next
}

// growInterval returns round(interval*ease), saturating at math.MaxInt.
func growInterval(interval int, ease float64) int {
	x := math.Round(float64(interval) * ease)
	if x >= float64(math.MaxInt) {
		return math.MaxInt
	}
	if x < 0 {
		return 0
	}
	return int(x)
}

// addDays returns ms plus days whole days, saturating at math.MaxInt64.
func addDays(ms int64, days int) int64 {
	headroom := int64(math.MaxInt64)
	if ms > 0 {
		headroom -= ms
	}
	if int64(days) > headroom/dayMillis {
		return math.MaxInt64
	}
	return ms + int64(days)*dayMillis
}

// nextEase applies the SM-2 ease adjustment, clamped at MinEase.
func (p *Params) nextEase(ease float64, q domain.Quality) float64 {
	miss := float64(5 - q)
	delta := 0.1 - miss*(0.08+miss*0.02)
	return math.Max(p.MinEase, ease+delta)
}

// Preview returns the outcome of each reviewer button for rec at now.
func (p *Params) Preview(rec domain.ReviewRecord, now time.Time) map[domain.Quality]domain.ReviewRecord {
	out := make(map[domain.Quality]domain.ReviewRecord, len(domain.Buttons))
	for _, q := range domain.Buttons {
		out[q] = p.Review(rec, q, now)
	}
	return out
}

// IsMastered reports whether rec has enough consecutive successes to count as mastered.
func (p *Params) IsMastered(rec domain.ReviewRecord) bool {
	return rec.Repetitions >= p.MasteredRepetitions
}
