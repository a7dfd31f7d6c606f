package matching

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dispatcher runs auto-matching off the request path. Item creation
// enqueues an id and returns immediately; a worker goroutine drains the
// queue with its own context, so a slow or failing match run can never
// block or fail the creation request.
type Dispatcher struct {
	finder  *Finder
	queue   chan string
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the worker. timeout bounds one whole auto-match
// run (candidate listing plus every scoring call).
func NewDispatcher(finder *Finder, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		finder:  finder,
		queue:   make(chan string, queueSize),
		timeout: timeout,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue schedules auto-matching for an item. It never blocks: when the
// queue is full the run is dropped and logged, which only delays match
// discovery until the next trigger for the pair.
func (d *Dispatcher) Enqueue(itemID string) {
	select {
	case d.queue <- itemID:
	default:
		log.Printf("matching: auto-match queue full, dropping item %s", itemID)
	}
}

// Close stops the worker after draining queued items.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for itemID := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if _, err := d.finder.CreateAutoMatches(ctx, itemID); err != nil {
			log.Printf("matching: auto-match for item %s failed: %v", itemID, err)
		}
		cancel()
	}
}
