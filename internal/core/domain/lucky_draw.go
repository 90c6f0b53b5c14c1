package domain

import (
	"fmt"
	"strings"
	"time"
)

// DrawLog is one entry of the lucky draw history.
type DrawLog struct {
	DrawID    string    `json:"drawId"`
	Timestamp time.Time `json:"timestamp"`
	Winners   []Member  `json:"winners"`
	DrawCount int       `json:"drawCount"`
}

// Validate fills DrawCount from the winners when it is not set.
func (l *DrawLog) Validate() error {
	l.DrawID = strings.TrimSpace(l.DrawID)
	if l.DrawID == "" {
		return fmt.Errorf("%w: drawId is required", ErrInvalidDrawLog)
	}
	if l.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidDrawLog)
	}
	if l.Winners == nil {
		return fmt.Errorf("%w: winners is required", ErrInvalidDrawLog)
	}
	if l.DrawCount <= 0 {
		l.DrawCount = len(l.Winners)
	}
	return nil
}

// Draw picks count distinct members uniformly at random without replacement.
// intn must return a value in [0, n); math/rand/v2.IntN fits. Winners are
// returned in the order they were drawn.
func Draw(members []Member, count int, intn func(n int) int) ([]Member, error) {
	if count < 1 || count > len(members) {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidDrawRequest, len(members), count)
	}

	pool := make([]Member, len(members))
	copy(pool, members)

	winners := make([]Member, 0, count)
	for len(winners) < count {
		i := intn(len(pool))
		winners = append(winners, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return winners, nil
}
