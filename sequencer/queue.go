package sequencer

import (
	"container/heap"
	"sort"

	"acidseq/midi"
)

// EventQueue merges per-track emissions into one globally ordered sequence.
// Ordering is by (tick, insertion sequence number): events pushed later
// never jump ahead of events pushed earlier at the same tick, no matter
// which track they belong to.
type EventQueue struct {
	items   eventHeap
	seq     uint64
	maxTick int64
}

type queued struct {
	ev  midi.Event
	seq uint64
}

type eventHeap []queued

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].ev.Tick != h[j].ev.Tick {
		return h[i].ev.Tick < h[j].ev.Tick
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(queued)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push inserts an event and stamps it with the next sequence number.
// Emission order is insertion order.
func (q *EventQueue) Push(ev midi.Event) {
	heap.Push(&q.items, queued{ev: ev, seq: q.seq})
	q.seq++
	if ev.Tick > q.maxTick {
		q.maxTick = ev.Tick
	}
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int { return len(q.items) }

// MaxTick is the highest tick pushed so far (0 for an empty queue).
func (q *EventQueue) MaxTick() int64 { return q.maxTick }

// Peek returns the next event in merged order without removing it.
func (q *EventQueue) Peek() (midi.Event, bool) {
	if len(q.items) == 0 {
		return midi.Event{}, false
	}
	return q.items[0].ev, true
}

// Pop removes and returns the next event in merged order.
func (q *EventQueue) Pop() (midi.Event, bool) {
	if len(q.items) == 0 {
		return midi.Event{}, false
	}
	return heap.Pop(&q.items).(queued).ev, true
}

// Events returns the remaining events in merged order without draining the
// queue.
func (q *EventQueue) Events() []midi.Event {
	snapshot := make([]queued, len(q.items))
	copy(snapshot, q.items)
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].ev.Tick != snapshot[j].ev.Tick {
			return snapshot[i].ev.Tick < snapshot[j].ev.Tick
		}
		return snapshot[i].seq < snapshot[j].seq
	})
	out := make([]midi.Event, len(snapshot))
	for i, it := range snapshot {
		out[i] = it.ev
	}
	return out
}
