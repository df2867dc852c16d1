package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Done      bool      `json:"done"`
}

// SetFinished sets the number of finished elements.
func (b *ProgressBar) SetFinished(finished uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished = finished
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Complete marks the bar as done.
func (b *ProgressBar) Complete() {
	b.Lock()
	defer b.Unlock()

	b.Done = true
	if b.Finished > b.Total {
		b.Total = b.Finished
	}
}

// Fraction returns the finished share in [0, 1]. A bar without a known total
// reports 0 until it is done.
func (b *ProgressBar) Fraction() float64 {
	b.Lock()
	defer b.Unlock()

	switch {
	case b.Done:
		return 1
	case b.Total == 0:
		return 0
	}

	return float64(b.Finished) / float64(b.Total)
}
