package takeoff

import (
	"bytes"
	"context"
	"log"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageSourceFunc func(ctx context.Context, page int) (PageContent, error)

func (f pageSourceFunc) PageContent(ctx context.Context, page int) (PageContent, error) {
	return f(ctx, page)
}

func squarePage(number int, size float64) PageContent {
	return PageContent{
		Number: number,
		Width:  1000,
		Height: 1000,
		Operators: []Operator{
			{Code: OpRectangle, Args: []float64{100, 100, size, size}},
			{Code: OpEndPath},
		},
	}
}

func TestSnapLoader_DiscardsStalePage(t *testing.T) {
	release := make(chan struct{})
	source := pageSourceFunc(func(_ context.Context, page int) (PageContent, error) {
		if page == 1 {
			<-release
			return squarePage(1, 50), nil
		}
		return squarePage(page, 200), nil
	})

	var mu sync.Mutex
	var loaded []int
	loader := NewSnapLoader()
	loader.OnLoaded = func(page int, _ *SnapData) {
		mu.Lock()
		loaded = append(loaded, page)
		mu.Unlock()
	}

	ctx := context.Background()
	loader.SetActivePage(ctx, 1, source)
	loader.SetActivePage(ctx, 2, source)
	close(release)
	loader.Wait()

	page, data := loader.Current()
	assert.Equal(t, 2, page)
	require.NotNil(t, data)
	require.Len(t, data.Lines, 4)
	assert.Equal(t, 200.0, data.Lines[0].Length())
	assert.NoError(t, loader.Err())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2}, loaded)
}

// gateWriter blocks the first write containing match until release is
// closed.
type gateWriter struct {
	match   []byte
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (w *gateWriter) Write(p []byte) (int, error) {
	if bytes.Contains(p, w.match) {
		w.once.Do(func() {
			close(w.reached)
			<-w.release
		})
	}
	return len(p), nil
}

func TestSnapLoader_PageSwitchAfterExtractionFinished(t *testing.T) {
	gate := &gateWriter{
		match:   []byte("Page 1 snap data"),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	cfg := DefaultConfig()
	cfg.EnableMetricsLogging = true
	cfg.Logger = log.New(gate, "", 0)

	source := pageSourceFunc(func(_ context.Context, page int) (PageContent, error) {
		return squarePage(page, 100), nil
	})

	type delivery struct{ page, active int }
	var mu sync.Mutex
	var deliveries []delivery
	loader := NewSnapLoaderWithConfig(cfg)
	loader.OnLoaded = func(page int, _ *SnapData) {
		active, _ := loader.Current()
		mu.Lock()
		deliveries = append(deliveries, delivery{page: page, active: active})
		mu.Unlock()
	}

	ctx := context.Background()
	loader.SetActivePage(ctx, 1, source)
	// page 1 has been extracted and accepted but not yet delivered
	<-gate.reached
	loader.SetActivePage(ctx, 2, source)
	close(gate.release)
	loader.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []delivery{{page: 2, active: 2}}, deliveries)

	page, data := loader.Current()
	assert.Equal(t, 2, page)
	assert.NotNil(t, data)
}

func TestSnapLoader_CancelsPreviousExtraction(t *testing.T) {
	cancelled := make(chan struct{})
	source := pageSourceFunc(func(ctx context.Context, page int) (PageContent, error) {
		if page == 1 {
			<-ctx.Done()
			close(cancelled)
			return PageContent{}, ctx.Err()
		}
		return squarePage(page, 100), nil
	})

	loader := NewSnapLoader()
	ctx := context.Background()
	loader.SetActivePage(ctx, 1, source)
	loader.SetActivePage(ctx, 3, source)
	<-cancelled
	loader.Wait()

	page, data := loader.Current()
	assert.Equal(t, 3, page)
	assert.NotNil(t, data)
	assert.NoError(t, loader.Err(), "the cancelled page's error is not reported")
}

func TestSnapLoader_Error(t *testing.T) {
	errBroken := errors.New("broken page")
	source := pageSourceFunc(func(context.Context, int) (PageContent, error) {
		return PageContent{}, errBroken
	})

	called := false
	loader := NewSnapLoader()
	loader.OnLoaded = func(int, *SnapData) { called = true }
	loader.SetActivePage(context.Background(), 4, source)
	loader.Wait()

	_, data := loader.Current()
	assert.Nil(t, data)
	assert.ErrorIs(t, loader.Err(), errBroken)
	assert.False(t, called)
}

func TestSnapLoader_Close(t *testing.T) {
	source := pageSourceFunc(func(ctx context.Context, _ int) (PageContent, error) {
		<-ctx.Done()
		return PageContent{}, ctx.Err()
	})

	loader := NewSnapLoader()
	loader.SetActivePage(context.Background(), 1, source)
	loader.Close()

	_, data := loader.Current()
	assert.Nil(t, data)
}
