// Package tfidf vectorizes corpora and computes TF-IDF weights, either
// sequentially or fanned out over contiguous document ranges.
package tfidf

import (
	"runtime"
	"sync"
)

// Partition is the half-open document range [Start, End) owned by one worker.
type Partition struct {
	Start int
	End   int
}

func (p Partition) Len() int {
	return p.End - p.Start
}

// Plan splits total documents into at most workers contiguous, disjoint ranges
// of ceil(total/workers) documents each; the last range holds the remainder.
func Plan(total, workers int) []Partition {
	if total <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	size := (total + workers - 1) / workers
	parts := make([]Partition, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		parts = append(parts, Partition{Start: start, End: min(start+size, total)})
	}
	return parts
}

// Workers resolves a configured worker budget; n <= 0 means one per CPU.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach runs fn for every partition on its own goroutine and returns once
// all of them have finished.
func ForEach(parts []Partition, fn func(Partition)) {
	if len(parts) == 1 {
		fn(parts[0])
		return
	}
	var wg sync.WaitGroup
	for _, p := range parts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(p)
		}()
	}
	wg.Wait()
}
