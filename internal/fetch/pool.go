package fetch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mwi/internal/logger"
)

// Options configures a crawl run.
type Options struct {
	WorkerCount    int           // overall concurrency cap (N)
	PerDomainLimit int           // per-registrable-domain concurrency cap (M)
	MaxRetries     int           // R
	RetryBaseDelay time.Duration
	CrawlDelay     time.Duration // politeness delay between requests to the same domain, 0 = off
	RequestTimeout time.Duration
}

// Task is one unit of crawl work: fetch url and hand the result to
// Fetcher, whatever it does with it (the pool itself is content-agnostic).
type Task struct {
	URL    string
	Domain string
}

// Pool runs a bounded-concurrency fan-out over a slice of Task,
// capping overall concurrency with an errgroup.Group and capping
// per-domain concurrency with a semaphore keyed by registrable domain.
// It mirrors the teacher's feed-aggregation fan-out (semaphore channel
// plus WaitGroup) but replaces the hand-rolled WaitGroup/error-slice
// bookkeeping with errgroup, which the corpus already depends on for
// exactly this purpose.
type Pool struct {
	opts Options

	domainMu  sync.Mutex
	domainSem map[string]chan struct{}

	lastRequestMu sync.Mutex
	lastRequest   map[string]time.Time
}

// NewPool builds a Pool from opts, filling in sane floors for anything
// left at its zero value.
func NewPool(opts Options) *Pool {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 8
	}
	if opts.PerDomainLimit <= 0 {
		opts.PerDomainLimit = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	return &Pool{
		opts:        opts,
		domainSem:   make(map[string]chan struct{}),
		lastRequest: make(map[string]time.Time),
	}
}

// Run executes fn for every task, bounded by WorkerCount overall and
// PerDomainLimit per domain, retrying transient failures up to
// MaxRetries times with exponential backoff and jitter. fn's error, if
// any after retries are exhausted, is recorded against that task's URL
// in the returned map but does not abort the other tasks. A task that
// has not acquired its domain slot when ctx is cancelled is skipped and
// does not appear in the map.
func (p *Pool) Run(ctx context.Context, tasks []Task, fn func(ctx context.Context, t Task) error) map[string]error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.WorkerCount)

	errs := make(map[string]error)
	var errsMu sync.Mutex

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			sem := p.domainSemaphore(task.Domain)
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			p.throttle(ctx, task.Domain)

			err := p.withRetry(ctx, task, fn)
			if err != nil {
				errsMu.Lock()
				errs[task.URL] = err
				errsMu.Unlock()
				logger.Warn("fetch task failed after retries", "url", task.URL, "error", err.Error())
			}
			return nil // individual task failures never abort the group
		})
	}

	_ = g.Wait()
	return errs
}

func (p *Pool) domainSemaphore(domain string) chan struct{} {
	p.domainMu.Lock()
	defer p.domainMu.Unlock()
	sem, ok := p.domainSem[domain]
	if !ok {
		sem = make(chan struct{}, p.opts.PerDomainLimit)
		p.domainSem[domain] = sem
	}
	return sem
}

// throttle blocks until at least CrawlDelay has passed since the last
// request to domain, when crawl delay politeness is enabled.
func (p *Pool) throttle(ctx context.Context, domain string) {
	if p.opts.CrawlDelay <= 0 {
		return
	}
	p.lastRequestMu.Lock()
	last, ok := p.lastRequest[domain]
	p.lastRequestMu.Unlock()

	if ok {
		wait := p.opts.CrawlDelay - time.Since(last)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}
		}
	}

	p.lastRequestMu.Lock()
	p.lastRequest[domain] = time.Now()
	p.lastRequestMu.Unlock()
}

func (p *Pool) withRetry(ctx context.Context, task Task, fn func(ctx context.Context, t Task) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.opts.RetryBaseDelay * time.Duration(1<<uint(attempt-1))
			jitter := time.Duration(rand.Float64() * float64(delay))
			timer := time.NewTimer(delay + jitter)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		reqCtx := ctx
		var cancel context.CancelFunc
		if p.opts.RequestTimeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		}
		err := fn(reqCtx, task)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}
