package broker

import "container/heap"

// nextSubscriptionID resolves spec.md's Open Question on subscription-ID
// allocation: the first subscription is numbered 1 (not 0, and not the
// original's unguarded max_element-over-empty-range, which is undefined
// behavior in C++), and every subsequent one is max(existing)+1 -
// recomputed from the live set each time, so a released high ID can be
// reused, exactly matching connection_base.hpp's cmd::subscribe handler.
func nextSubscriptionID(subs []Subscription) uint64 {
	var max uint64
	for _, s := range subs {
		if s.N > max {
			max = s.N
		}
	}
	return max + 1
}

// storageIDAllocator hands out the shared local_storage/expression_cache
// key space. It replaces connection_base.hpp's get_empty_local_storage_id
// (an O(n) scan of [0, size) admitted by its own comment to be unverified)
// with an explicit free-list, per spec.md's Open Questions: Release pushes
// the freed ID onto a min-heap; Allocate pops the smallest free ID, or
// grows the space by one if none are free.
type storageIDAllocator struct {
	free minHeap
	size uint64
}

func newStorageIDAllocator() *storageIDAllocator {
	return &storageIDAllocator{}
}

func (a *storageIDAllocator) Allocate() uint64 {
	if a.free.Len() > 0 {
		return heap.Pop(&a.free).(uint64)
	}
	id := a.size
	a.size++
	return id
}

func (a *storageIDAllocator) Release(id uint64) {
	heap.Push(&a.free, id)
}

type minHeap []uint64

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }

func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
