package session

import (
	"sync"
	"time"
)

// Stopper cancels a running timer. Stop must not block and must be safe to
// call more than once.
type Stopper interface {
	Stop()
}

// TimerFactory starts a repeating timer that calls tick every interval.
type TimerFactory func(interval time.Duration, tick func()) Stopper

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

// NewTicker is the wall-clock TimerFactory.
func NewTicker(interval time.Duration, tick func()) Stopper {
	tk := &ticker{t: time.NewTicker(interval), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-tk.t.C:
				tick()
			case <-tk.done:
				return
			}
		}
	}()
	return tk
}

func (tk *ticker) Stop() {
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
	})
}
