package orchestration

import "context"

// panel tracks one on-demand request of the results view. It has its own
// loading flag and generation so that a late answer to an earlier click never
// replaces a newer one. All methods are called with the controller locked.
type panel[T any] struct {
	loading    bool
	generation uint64
	cancel     context.CancelFunc
	value      T
	hasValue   bool
	err        string

	clearOnStart bool // drop the previous value as soon as a new request starts
}

// start supersedes any running request and returns its context and generation
func (p *panel[T]) start(base context.Context) (context.Context, uint64) {
	p.stop()
	p.generation++
	p.loading = true
	p.err = ""
	if p.clearOnStart {
		var zero T
		p.value, p.hasValue = zero, false
	}

	ctx, cancel := context.WithCancel(base)
	p.cancel = cancel
	return ctx, p.generation
}

// finish applies a completion; it returns false when the completion is stale
func (p *panel[T]) finish(generation uint64, value T, errMessage string) bool {
	if generation != p.generation {
		return false
	}
	p.stop()
	p.loading = false
	if errMessage != "" {
		p.err = errMessage
		return true
	}
	p.value, p.hasValue = value, true
	return true
}

// reset cancels any request and forgets the value
func (p *panel[T]) reset() {
	p.stop()
	p.generation++
	p.loading = false
	p.err = ""
	var zero T
	p.value, p.hasValue = zero, false
}

func (p *panel[T]) stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// PanelView is a read-only copy of a panel
type PanelView[T any] struct {
	Loading  bool
	Value    T
	HasValue bool
	Error    string
}

func (p *panel[T]) view() PanelView[T] {
	return PanelView[T]{Loading: p.loading, Value: p.value, HasValue: p.hasValue, Error: p.err}
}
