package cache

import (
	"log"
	"sync"
	"time"
)

// Janitor periodically purges expired entries from a set of Purgers.
// It runs on its own goroutine between Start and Stop.
type Janitor struct {
	interval time.Duration
	targets  []namedPurger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

type namedPurger struct {
	name string
	p    Purger
}

// NewJanitor returns a stopped Janitor that sweeps every interval.
func NewJanitor(interval time.Duration) *Janitor {
	return &Janitor{interval: interval}
}

// Add registers a Purger under a name used in log lines. Add must be
// called before Start.
func (j *Janitor) Add(name string, p Purger) *Janitor {
	j.targets = append(j.targets, namedPurger{name: name, p: p})
	return j
}

// Start launches the sweep loop. Calling Start on a running Janitor is a no-op.
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	j.running = true

	go j.loop(j.stop, j.done)
}

// Stop halts the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stop)
	done := j.done
	j.running = false
	j.mu.Unlock()

	<-done
}

// Sweep runs one purge pass over every target.
func (j *Janitor) Sweep() int {
	total := 0
	for _, t := range j.targets {
		n := t.p.PurgeExpired()
		if n > 0 {
			log.Printf("janitor: purged %d expired %s entries", n, t.name)
		}
		total += n
	}
	return total
}

func (j *Janitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
