package review

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// job is one record awaiting analysis.
type job struct {
	key     uuid.UUID
	locator string
}

// pipeline drains an unbounded FIFO backlog with at most workers jobs in
// flight. With one worker, jobs run strictly in submission order.
type pipeline struct {
	process func(context.Context, job)
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	backlog []job
	pending int
	idle    chan struct{}
	signal  chan struct{}
}

func newPipeline(workers int, process func(context.Context, job), logger *slog.Logger) *pipeline {
	idle := make(chan struct{})
	close(idle)

	return &pipeline{
		process: process,
		workers: max(workers, 1),
		logger:  logger,
		idle:    idle,
		signal:  make(chan struct{}, 1),
	}
}

// run dispatches backlog jobs until ctx is cancelled, then waits for
// in-flight jobs to return.
func (p *pipeline) run(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(p.workers)

	p.logger.Info("analysis pipeline started", "workers", p.workers)

	for {
		select {
		case <-ctx.Done():
			g.Wait()
			p.logger.Info("analysis pipeline stopped", "abandoned", p.size())
			return
		case <-p.signal:
		}

		for ctx.Err() == nil {
			j, ok := p.pop()
			if !ok {
				break
			}
			g.Go(func() error {
				defer p.done()
				p.process(ctx, j)
				return nil
			})
		}
	}
}

// submit appends jobs to the backlog and returns without waiting.
func (p *pipeline) submit(jobs ...job) {
	if len(jobs) == 0 {
		return
	}

	p.mu.Lock()
	if p.pending == 0 {
		p.idle = make(chan struct{})
	}
	p.pending += len(jobs)
	p.backlog = append(p.backlog, jobs...)
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *pipeline) pop() (job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.backlog) == 0 {
		return job{}, false
	}
	j := p.backlog[0]
	p.backlog[0] = job{}
	p.backlog = p.backlog[1:]
	return j, true
}

func (p *pipeline) done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending--
	if p.pending == 0 {
		close(p.idle)
	}
}

// size returns the number of jobs queued or running.
func (p *pipeline) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// wait blocks until the backlog is drained or ctx is done.
func (p *pipeline) wait(ctx context.Context) error {
	p.mu.Lock()
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
