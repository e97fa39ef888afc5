// Package deck is the entry point callers use to schedule saved items.
// It ties a storage.Store to the SM-2 update rule and a clock.
package deck

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conorfennell/zeal/internal/domain"
	"github.com/conorfennell/zeal/internal/sm2"
	"github.com/conorfennell/zeal/internal/stats"
	"github.com/conorfennell/zeal/internal/storage"
)

// Deck schedules the items saved in a store.
//
// The mutex serializes read-modify-write sequences within this process.
// Other processes sharing the same medium are still last-writer-wins.
type Deck struct {
	mu     sync.Mutex
	store  storage.Store
	params *sm2.Params
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Deck.
type Option func(*Deck)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Deck) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deck) { d.logger = logger }
}

// New returns a Deck over store. A nil params uses sm2.DefaultParams.
func New(store storage.Store, params *sm2.Params, opts ...Option) *Deck {
	if params == nil {
		params = sm2.DefaultParams()
	}
	d := &Deck{
		store:  store,
		params: params,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Save schedules itemID for review. Saving an already saved item changes nothing.
func (d *Deck) Save(itemID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Add(itemID, d.now()); err != nil {
		return fmt.Errorf("save %s: %w", itemID, err)
	}
	d.logger.Debug("Item saved", "item_id", itemID)
	return nil
}

// Remove stops scheduling itemID.
func (d *Deck) Remove(itemID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Remove(itemID); err != nil {
		return fmt.Errorf("remove %s: %w", itemID, err)
	}
	d.logger.Debug("Item removed", "item_id", itemID)
	return nil
}

func (d *Deck) IsSaved(itemID string) bool {
	return d.store.Exists(itemID)
}

// List returns every saved record in the order items were saved.
func (d *Deck) List() []domain.ReviewRecord {
	return d.store.ListAll()
}

// Due returns the records due now, in the order items were saved.
func (d *Deck) Due() []domain.ReviewRecord {
	return d.store.DueAsOf(d.now())
}

// Get returns the record for itemID.
func (d *Deck) Get(itemID string) (domain.ReviewRecord, bool) {
	for _, r := range d.store.ListAll() {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return domain.ReviewRecord{}, false
}

// Review applies a review of quality q to itemID and persists the result.
// The boolean is false, and nothing is written, when itemID is not saved.
func (d *Deck) Review(itemID string, q domain.Quality) (domain.ReviewRecord, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.Get(itemID)
	if !ok {
		d.logger.Debug("Review for unsaved item ignored", "item_id", itemID)
		return domain.ReviewRecord{}, false, nil
	}

	next := d.params.Review(rec, q, d.now())
	if err := d.store.Apply(itemID, next); err != nil {
		return domain.ReviewRecord{}, false, fmt.Errorf("review %s: %w", itemID, err)
	}

	d.logger.Info("Item reviewed",
		"item_id", itemID,
		"quality", q,
		"interval_days", next.Interval,
		"ease_factor", next.EaseFactor,
		"repetitions", next.Repetitions,
	)
	return next, true, nil
}

// Preview returns what each reviewer button would do to itemID, without saving.
func (d *Deck) Preview(itemID string) (map[domain.Quality]domain.ReviewRecord, bool) {
	rec, ok := d.Get(itemID)
	if !ok {
		return nil, false
	}
	return d.params.Preview(rec, d.now()), true
}

// Stats summarizes the deck as of now.
func (d *Deck) Stats() domain.Stats {
	return stats.Compute(d.store.ListAll(), d.now(), d.params.IsMastered)
}
