package layout

import (
	"context"
	"slices"

	"github.com/matzehuels/layerview/pkg/graph"
)

// Task is a layout computation running on its own goroutine.
type Task struct {
	done   chan struct{}
	result *Result
	err    error
}

// Start runs [Compute] on a new goroutine. items is copied before Start
// returns, so the caller may reuse it. If ctx is already done, the
// computation is skipped and the task fails with the context's error.
func Start(ctx context.Context, items []graph.Item, opts Options) *Task {
	t := &Task{done: make(chan struct{})}
	items = cloneItems(items)
	go func() {
		defer close(t.done)
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.result, t.err = Compute(items, opts)
	}()
	return t
}

// Done returns a channel that is closed once the result is available.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the computation has finished or ctx is done. The
// computation is not interrupted by ctx; after a timeout the task keeps
// running and Wait may be called again.
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func cloneItems(items []graph.Item) []graph.Item {
	out := make([]graph.Item, len(items))
	for i, it := range items {
		it.Prerequisites = slices.Clone(it.Prerequisites)
		out[i] = it
	}
	return out
}
