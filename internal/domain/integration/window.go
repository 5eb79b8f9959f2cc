package integration

import "time"

// Window is the trailing poll interval [Start, End) recomputed on every
// detector invocation. Windows are not persisted between process restarts
// unless the checkpoint store is enabled, so a crash can lose events whose
// change fell entirely inside a window that is never re-scanned.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window [now-interval, now).
func NewWindow(now time.Time, interval time.Duration) Window {
	return Window{Start: now.Add(-interval), End: now}
}

// Contains reports whether t falls inside the window. The start boundary is
// inclusive: a record modified exactly at now-interval is in scope, one
// microsecond earlier is not.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
