// Package parallel runs independent jobs on a fixed number of workers and
// collects their errors.
package parallel

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

type Pool struct {
	wg     sync.WaitGroup
	work   chan func()
	cancel func()

	mu  sync.Mutex
	err error
}

// Start launches numWorkers workers. Less than one means GOMAXPROCS. With a
// single worker jobs run synchronously inside Go.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{cancel: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.cancel = sync.OnceFunc(func() { close(pool.work) })
	return pool
}

// Go queues f. Its error, if any, is reported by Wait. Go must not be called
// after Wait.
func (p *Pool) Go(f func() error) {
	job := func() {
		if err := f(); err != nil {
			p.mu.Lock()
			p.err = multierr.Append(p.err, err)
			p.mu.Unlock()
		}
	}
	if p.work == nil {
		job()
		return
	}
	p.work <- job
}

// Wait blocks until every queued job finished and returns their combined
// errors.
func (p *Pool) Wait() error {
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
