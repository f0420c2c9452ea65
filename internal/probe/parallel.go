package probe

import (
	"runtime"
	"sync"

	"github.com/bcgsc/probegen/internal/annotation"
	"github.com/bcgsc/probegen/internal/resolve"
	"github.com/bcgsc/probegen/internal/statement"
)

// WorkItem holds one concrete specification and its annotation rows,
// ready for resolution.
type WorkItem struct {
	Seq  int
	Spec *statement.Spec
	Row1 *annotation.Row
	Row2 *annotation.Row
}

// WorkResult holds the resolution output for a single specification,
// with the input rows retained for diagnostics.
type WorkResult struct {
	Seq    int
	Spec   *statement.Spec
	Row1   *annotation.Row
	Row2   *annotation.Row
	Record *resolve.Record
	Err    error
}

// ParallelResolve resolves work items using a pool of workers. Each
// resolution touches only its own inputs, so no synchronization beyond
// the channels is needed. Results arrive in completion order; use
// OrderedCollect to consume them in sequence-number order. If workers
// is 0, runtime.NumCPU() is used.
func ParallelResolve(resolver *resolve.Resolver, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				record, err := resolver.Resolve(item.Spec, item.Row1, item.Row2)
				results <- WorkResult{
					Seq:    item.Seq,
					Spec:   item.Spec,
					Row1:   item.Row1,
					Row2:   item.Row2,
					Record: record,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering results that arrive early until their turn comes. Blocks
// until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	var (
		pending = make(map[int]WorkResult)
		next    int
	)
	drain := func() {
		for range results {
		}
	}

	for r := range results {
		if r.Seq != next {
			pending[r.Seq] = r
			continue
		}
		if err := fn(r); err != nil {
			drain()
			return err
		}
		next++
		for {
			buffered, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := fn(buffered); err != nil {
				drain()
				return err
			}
			next++
		}
	}
	return nil
}
