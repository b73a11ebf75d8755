package domain

import "time"

// DefaultDaysBack is how far back a fetch looks when the feed does not say.
const DefaultDaysBack = 10

// windowDateFormat is the date layout the provider accepts for from/to.
const windowDateFormat = "2006-01-02"

// Window is the [From, To] date range of a fetch, in UTC.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow computes the fetch window ending at now: To is now and From is
// daysBack days earlier, both in UTC. daysBack values below 1 fall back to
// DefaultDaysBack.
func NewWindow(now time.Time, daysBack int) Window {
	if daysBack < 1 {
		daysBack = DefaultDaysBack
	}
	to := now.UTC()
	return Window{
		From: to.AddDate(0, 0, -daysBack),
		To:   to,
	}
}

// FromParam formats the window start for the provider.
func (w Window) FromParam() string { return w.From.Format(windowDateFormat) }

// ToParam formats the window end for the provider.
func (w Window) ToParam() string { return w.To.Format(windowDateFormat) }

// Days returns the whole number of days the window spans.
func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours() / 24)
}
