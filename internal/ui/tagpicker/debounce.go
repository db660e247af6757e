package tagpicker

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the quiet period before a typed query is searched.
const DefaultDebounce = 300 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickFunc schedules fn after d. tea.Tick satisfies it; tests swap in a
// recorder so no real time passes.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// SettledMsg is delivered when a debounce timer fires. Only the message
// carrying the latest sequence for its owner settles.
type SettledMsg struct {
	id    int
	seq   int
	Value string
}

// Debouncer turns a burst of input values into one settled value after a
// quiet period. Each Input supersedes the previous timer; superseded ticks
// still arrive but are dropped by Settled.
type Debouncer struct {
	id       int
	delay    time.Duration
	seq      int
	pending  bool
	disposed bool
	raw      string
	tick     TickFunc
}

// NewDebouncer returns a debouncer with its own owner id. A zero or negative
// delay settles on the next loop turn.
func NewDebouncer(delay time.Duration) Debouncer {
	return Debouncer{
		id:    nextID(),
		delay: delay,
		tick:  tea.Tick,
	}
}

// WithTick swaps the timer constructor.
func (d Debouncer) WithTick(tick TickFunc) Debouncer {
	if tick != nil {
		d.tick = tick
	}
	return d
}

// ID returns the owner id stamped on emitted messages.
func (d Debouncer) ID() int { return d.id }

// Delay returns the configured quiet period.
func (d Debouncer) Delay() time.Duration { return d.delay }

// Raw returns the last value passed to Input.
func (d Debouncer) Raw() string { return d.raw }

// Pending reports whether a timer is outstanding.
func (d Debouncer) Pending() bool { return d.pending }

// Disposed reports whether the debouncer was torn down.
func (d Debouncer) Disposed() bool { return d.disposed }

// Input records value and (re)starts the timer.
func (d *Debouncer) Input(value string) tea.Cmd {
	if d.disposed {
		return nil
	}
	d.raw = value
	d.seq++
	d.pending = true

	msg := SettledMsg{id: d.id, seq: d.seq, Value: value}
	if d.delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return d.tick(d.delay, func(time.Time) tea.Msg { return msg })
}

// Settled reports whether msg is the live timer for this debouncer. It
// returns true at most once per Input.
func (d *Debouncer) Settled(msg SettledMsg) (string, bool) {
	if d.disposed || msg.id != d.id || msg.seq != d.seq || !d.pending {
		return "", false
	}
	d.pending = false
	return msg.Value, true
}

// Owns reports whether msg was emitted by this debouncer.
func (d Debouncer) Owns(msg SettledMsg) bool {
	return msg.id == d.id
}

// Cancel drops the outstanding timer, if any.
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
}

// Dispose cancels and refuses every later Input and Settled.
func (d *Debouncer) Dispose() {
	d.Cancel()
	d.disposed = true
}
