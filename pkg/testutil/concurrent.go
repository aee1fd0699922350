package testutil

import (
	"errors"
	"sync"

	"linkboard/pkg/platform/sentinel"
)

// ConcurrentResult buckets the outcomes of RunConcurrent by sentinel.
type ConcurrentResult struct {
	Successes  int32
	Duplicates int32
	NotFounds  int32
	Errors     int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Duplicates + r.NotFounds + r.Errors
}

// RunConcurrent calls fn from n goroutines that are released together, so
// store operations actually overlap rather than trickling in as they spawn.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		mu      sync.Mutex
		result  ConcurrentResult
		ready   sync.WaitGroup
		done    sync.WaitGroup
		release = make(chan struct{})
	)
	ready.Add(n)
	done.Add(n)
	for i := range n {
		go func() {
			defer done.Done()
			ready.Done()
			<-release
			err := fn(i)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Successes++
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				result.Duplicates++
			case errors.Is(err, sentinel.ErrNotFound):
				result.NotFounds++
			default:
				result.Errors++
			}
		}()
	}
	ready.Wait()
	close(release)
	done.Wait()
	return &result
}
