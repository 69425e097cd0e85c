package exchange

import "container/heap"

// inflightEntry pairs a Command with its commit time and submission
// sequence: the exchange's inflight queue (§4.4 "min-heap of (commit_ns,
// command)"), grounded on the teacher's container/heap.Interface OrderHeap
// (internal/orders/matching/engine_processors.go), generalized from
// price/time priority to commit-time/FIFO priority.
type inflightEntry struct {
	commitNs int64
	sequence uint64
	command  Command
}

// inflightHeap implements heap.Interface; ties break on submission sequence
// so commands sharing a commit time commit in FIFO order (§5 "Ordering
// guarantees").
type inflightHeap []*inflightEntry

func (h inflightHeap) Len() int { return len(h) }

func (h inflightHeap) Less(i, j int) bool {
	if h[i].commitNs != h[j].commitNs {
		return h[i].commitNs < h[j].commitNs
	}
	return h[i].sequence < h[j].sequence
}

func (h inflightHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *inflightHeap) Push(x any) {
	*h = append(*h, x.(*inflightEntry))
}

func (h *inflightHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}

// inflightQueue wraps inflightHeap with the sequence counter and the
// peek/drain operations the exchange's process() loop needs.
type inflightQueue struct {
	h   inflightHeap
	seq uint64
}

func newInflightQueue() *inflightQueue {
	q := &inflightQueue{}
	heap.Init(&q.h)
	return q
}

// push enqueues a command to commit at commitNs, stamping it with the next
// monotonic submission sequence for FIFO tie-break.
func (q *inflightQueue) push(commitNs int64, cmd Command) {
	q.seq++
	heap.Push(&q.h, &inflightEntry{commitNs: commitNs, sequence: q.seq, command: cmd})
}

// peekReady reports whether the earliest-committing entry is due at or
// before nowNs, without removing it.
func (q *inflightQueue) peekReady(nowNs int64) bool {
	return len(q.h) > 0 && q.h[0].commitNs <= nowNs
}

// pop removes and returns the earliest-committing entry.
func (q *inflightQueue) pop() *inflightEntry {
	return heap.Pop(&q.h).(*inflightEntry)
}

func (q *inflightQueue) len() int { return len(q.h) }
