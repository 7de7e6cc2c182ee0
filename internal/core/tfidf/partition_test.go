package tfidf

import (
	"sync/atomic"
	"testing"
)

func TestPlan(t *testing.T) {
	testCases := []struct {
		name    string
		total   int
		workers int
		want    []Partition
	}{
		{name: "empty corpus", total: 0, workers: 4, want: nil},
		{name: "even split", total: 8, workers: 4, want: []Partition{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{name: "remainder in last range", total: 10, workers: 4, want: []Partition{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{name: "more workers than documents", total: 3, workers: 8, want: []Partition{{0, 1}, {1, 2}, {2, 3}}},
		{name: "single worker", total: 5, workers: 1, want: []Partition{{0, 5}}},
		{name: "non-positive budget", total: 5, workers: 0, want: []Partition{{0, 5}}},
		{name: "ceil leaves fewer ranges", total: 9, workers: 4, want: []Partition{{0, 3}, {3, 6}, {6, 9}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Plan(tc.total, tc.workers)
			if len(got) != len(tc.want) {
				t.Fatalf("Plan(%d, %d) = %v, want %v", tc.total, tc.workers, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Plan(%d, %d)[%d] = %v, want %v", tc.total, tc.workers, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPlanCoversEveryIndexOnce(t *testing.T) {
	for total := 0; total <= 70; total++ {
		for workers := 1; workers <= 12; workers++ {
			parts := Plan(total, workers)
			if len(parts) > workers {
				t.Fatalf("Plan(%d, %d) produced %d ranges", total, workers, len(parts))
			}
			next := 0
			for _, p := range parts {
				if p.Start != next || p.Len() <= 0 || p.End > total {
					t.Fatalf("Plan(%d, %d) produced bad range %v after %d", total, workers, p, next)
				}
				next = p.End
			}
			if next != total {
				t.Fatalf("Plan(%d, %d) covers [0,%d), want [0,%d)", total, workers, next, total)
			}
		}
	}
}

func TestForEachVisitsAllPartitions(t *testing.T) {
	parts := Plan(100, 7)
	var visited atomic.Int64
	ForEach(parts, func(p Partition) {
		visited.Add(int64(p.Len()))
	})
	if visited.Load() != 100 {
		t.Fatalf("expected 100 visited documents, got %d", visited.Load())
	}
}

func TestWorkersDefaultsToCPUCount(t *testing.T) {
	if Workers(3) != 3 {
		t.Fatalf("explicit budget must be kept")
	}
	if Workers(0) < 1 {
		t.Fatalf("default budget must be positive")
	}
}
