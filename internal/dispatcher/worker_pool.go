package dispatcher

import (
	"context"
	"errors"
	"sync"

	"go-panopticon/internal/models"
	"go-panopticon/pkg/util"
)

var ErrPoolStopped = errors.New("dispatcher pool stopped")

// Pool fans events out to a fixed set of workers. Events are sharded by
// guild (or channel for direct messages), so one guild's events are stored
// in the order they were submitted while unrelated guilds proceed in parallel.
type Pool struct {
	dispatcher *Dispatcher
	queues     []chan models.Event
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewPool(d *Dispatcher, workers, depth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 1
	}

	p := &Pool{
		dispatcher: d,
		queues:     make([]chan models.Event, workers),
	}
	for i := range p.queues {
		p.queues[i] = make(chan models.Event, depth)
	}
	return p
}

func (p *Pool) Start() {
	for i, q := range p.queues {
		p.wg.Add(1)
		go p.worker(i, q)
	}
}

func (p *Pool) worker(id int, queue <-chan models.Event) {
	defer p.wg.Done()
	for ev := range queue {
		// Errors are logged and counted by Dispatch; the worker moves on.
		_ = p.dispatcher.Dispatch(ev)
	}
}

// Submit queues ev, blocking while its worker's queue is full.
func (p *Pool) Submit(ctx context.Context, ev models.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.queues[p.shard(ev)] <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new events and waits for queued ones to be stored.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) shard(ev models.Event) int {
	var key uint64
	if id, ok := ev.GuildID(); ok {
		key = id
	} else if ev.Message != nil {
		key = ev.Message.Channel.ID
	}
	return int(util.HashIndex64(key, uint64(len(p.queues))))
}
