package takeoff

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// PageSource provides the drawing content of a page.
type PageSource interface {
	PageContent(ctx context.Context, page int) (PageContent, error)
}

// SnapLoader extracts snap data for the active page in the background.
// Switching pages cancels the running extraction; results for a page that
// is no longer active are discarded.
type SnapLoader struct {
	cfg Config

	mu         sync.Mutex
	generation uint64
	page       int
	data       *SnapData
	err        error
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// deliverMu orders OnLoaded calls against page switches.
	deliverMu sync.Mutex

	// OnLoaded, if set, is called with the result of each extraction that
	// is still current. It runs on the loader goroutine and must not call
	// SetActivePage or Close.
	OnLoaded func(page int, data *SnapData)
}

// NewSnapLoader returns a loader using the default configuration.
func NewSnapLoader() *SnapLoader {
	return NewSnapLoaderWithConfig(DefaultConfig())
}

// NewSnapLoaderWithConfig returns a loader with custom limits and logging.
func NewSnapLoaderWithConfig(cfg Config) *SnapLoader {
	return &SnapLoader{cfg: cfg}
}

// SetActivePage starts extraction of page from source and makes it the
// active page. The previous extraction, if still running, is cancelled.
func (l *SnapLoader) SetActivePage(ctx context.Context, page int, source PageSource) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	l.page = page
	l.data = nil
	l.err = nil
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		l.run(runCtx, gen, page, source)
	}()
}

func (l *SnapLoader) run(ctx context.Context, gen uint64, page int, source PageSource) {
	start := time.Now()
	content, err := source.PageContent(ctx, page)
	var data *SnapData
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		data = ExtractVectorPathsWithLimits(content, l.cfg.Limits)
	}

	l.mu.Lock()
	stale := gen != l.generation
	switch {
	case stale:
	case err != nil:
		l.err = errors.Wrapf(err, "load snap data for page %d", page)
	default:
		l.data = data
	}
	l.mu.Unlock()

	if stale {
		if l.cfg.EnableMetricsLogging {
			l.cfg.logger().Printf("Discarded stale snap data for page %d", page)
		}
		return
	}
	if err != nil {
		return
	}

	if l.cfg.EnableMetricsLogging {
		l.cfg.logger().Printf("Page %d snap data: %d lines, %d endpoints, %d intersections in %v",
			page, len(data.Lines), len(data.Endpoints), len(data.Intersections), time.Since(start))
	}
	l.deliver(gen, page, data)
}

// deliver calls OnLoaded if gen is still the active generation. Holding
// deliverMu keeps page switches out until the callback returns.
func (l *SnapLoader) deliver(gen uint64, page int, data *SnapData) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	current := gen == l.generation
	onLoaded := l.OnLoaded
	l.mu.Unlock()

	if current && onLoaded != nil {
		onLoaded(page, data)
	}
}

// Current returns the active page and its snap data. data is nil while
// extraction is still running or after it failed.
func (l *SnapLoader) Current() (page int, data *SnapData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page, l.data
}

// Err returns the error of the active page's extraction, if any.
func (l *SnapLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Wait blocks until all started extractions have finished.
func (l *SnapLoader) Wait() {
	l.wg.Wait()
}

// Close cancels any running extraction and waits for it.
func (l *SnapLoader) Close() {
	l.deliverMu.Lock()
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	l.mu.Unlock()
	l.deliverMu.Unlock()
	l.wg.Wait()
}
