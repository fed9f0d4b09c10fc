package pdfpipe

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ResourceTracker collects artifacts to be closed when a session ends.
// Register may be called from any goroutine.
type ResourceTracker struct {
	mu    sync.Mutex
	items []io.Closer
	swept bool
}

// NewResourceTracker returns an empty tracker.
func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{}
}

// Register adds c to the list closed by Sweep. Once the sweep has run, c is
// closed immediately instead and its close error returned.
func (t *ResourceTracker) Register(c io.Closer) error {
	_, err := t.register(c)
	return err
}

// register reports whether the sweep had already run, in which case c was
// closed on the spot.
func (t *ResourceTracker) register(c io.Closer) (late bool, err error) {
	if c == nil {
		return false, nil
	}

	t.mu.Lock()
	if !t.swept {
		t.items = append(t.items, c)
		t.mu.Unlock()
		return false, nil
	}
	t.mu.Unlock()

	return true, c.Close()
}

// Sweep closes every registered artifact in registration order. All
// artifacts are closed even if some fail; the failures are joined. Only the
// first call does any work.
func (t *ResourceTracker) Sweep() error {
	t.mu.Lock()
	if t.swept {
		t.mu.Unlock()
		return nil
	}
	items := t.items
	t.items = nil
	t.swept = true
	t.mu.Unlock()

	var errs []error
	for i, c := range items {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("artifact %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of artifacts waiting for the sweep.
func (t *ResourceTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
