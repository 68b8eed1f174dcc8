// Package quota tracks monthly usage of metered external APIs.
package quota

import (
	"fmt"
	"sync"
	"time"
)

// Counter is the monthly usage tally for one service. The counter embeds its
// own month so staleness is self-detecting: a counter from a prior month is
// never read back as current.
type Counter struct {
	Month string `json:"month"` // YYYY-MM
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}

// Store persists one counter per service.
type Store interface {
	// Load returns the stored counter for a service. The bool reports
	// whether a counter exists.
	Load(service string) (Counter, bool, error)

	// Save persists the counter for a service.
	Save(service string, c Counter) error
}

// Status is a read-only snapshot of a service's quota.
type Status struct {
	Service     string  `json:"service"`
	Used        int     `json:"used"`
	Limit       int     `json:"limit"`
	Remaining   int     `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
	HasQuota    bool    `json:"has_quota"`
}

// Tracker answers "may I call this service again" and "record that I just
// did" for metered APIs. Check and increment are serialized under one mutex
// so concurrent workers cannot both pass the gate on the last remaining call.
type Tracker struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
	}
}

// SetNow overrides the clock. Used by tests to exercise month rollover.
func (t *Tracker) SetNow(now func() time.Time) {
	t.now = now
}

func (t *Tracker) currentMonth() string {
	return t.now().UTC().Format("2006-01")
}

// current loads the live counter for a service, resetting it if the stored
// month differs from the current one. The reset is persisted immediately.
// Callers must hold t.mu.
func (t *Tracker) current(service string, limit int) (Counter, error) {
	c, ok, err := t.store.Load(service)
	if err != nil {
		return Counter{}, fmt.Errorf("load quota counter: %w", err)
	}

	month := t.currentMonth()
	if !ok || c.Month != month {
		c = Counter{Month: month, Used: 0, Limit: limit}
		if err := t.store.Save(service, c); err != nil {
			return Counter{}, fmt.Errorf("save quota counter: %w", err)
		}
	}

	return c, nil
}

// Status returns the quota snapshot for a service, triggering month-rollover
// initialization as a side effect.
func (t *Tracker) Status(service string, limit int) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.current(service, limit)
	if err != nil {
		return Status{}, err
	}

	percent := 0.0
	if limit > 0 {
		percent = float64(c.Used) / float64(limit) * 100
	}

	return Status{
		Service:     service,
		Used:        c.Used,
		Limit:       limit,
		Remaining:   limit - c.Used,
		PercentUsed: percent,
		HasQuota:    c.Used < limit,
	}, nil
}

// HasQuota reports whether the service has calls remaining this month.
func (t *Tracker) HasQuota(service string, limit int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.current(service, limit)
	if err != nil {
		return false, err
	}

	return c.Used < limit, nil
}

// RecordUse increments usage by exactly one and persists the counter.
// It must only be called after a confirmed successful call to the metered
// service; failed attempts never consume quota.
func (t *Tracker) RecordUse(service string, limit int) (used, lim int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.current(service, limit)
	if err != nil {
		return 0, 0, err
	}

	c.Used++
	if err := t.store.Save(service, c); err != nil {
		return 0, 0, fmt.Errorf("save quota counter: %w", err)
	}

	return c.Used, c.Limit, nil
}
