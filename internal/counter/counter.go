// Package counter implements the date stepper widget: a count that offsets a
// fixed base date by whole days.
package counter

import (
	"fmt"
	"sync"
	"time"
)

// InitialCount is the count a new Counter starts with.
const InitialCount = 5

// BaseDate is the date the count is added to.
var BaseDate = time.Date(2029, time.September, 7, 0, 0, 0, 0, time.UTC)

const dateLayout = "Mon Jan 02 2006"

// Snapshot is the counter state as exposed over the API.
type Snapshot struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
	Label string `json:"label"`
}

// Counter is safe for concurrent use.
type Counter struct {
	mu    sync.Mutex
	count int
}

// New returns a counter at InitialCount.
func New() *Counter {
	return &Counter{count: InitialCount}
}

// Increment adds one day and returns the new state.
func (c *Counter) Increment() Snapshot {
	return c.step(1)
}

// Decrement removes one day and returns the new state. The count may go
// negative.
func (c *Counter) Decrement() Snapshot {
	return c.step(-1)
}

// Snapshot returns the current state.
func (c *Counter) Snapshot() Snapshot {
	return c.step(0)
}

func (c *Counter) step(delta int) Snapshot {
	c.mu.Lock()
	c.count += delta
	n := c.count
	c.mu.Unlock()

	date := BaseDate.AddDate(0, 0, n).Format(dateLayout)
	return Snapshot{
		Count: n,
		Date:  date,
		Label: fmt.Sprintf("%s [%d]", date, n),
	}
}
