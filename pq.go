package lpastar

import "container/heap"

// frontierItem is a vertex's slot in the frontier. seq orders equal keys
// by insertion.
type frontierItem struct {
	NodeID       int
	Key          float64
	seq          uint64
	IndexInQueue int
}

type priorityQueue []*frontierItem

func (queue priorityQueue) Len() int { return len(queue) }
func (queue priorityQueue) Less(i, j int) bool {
	if queue[i].Key != queue[j].Key {
		return queue[i].Key < queue[j].Key
	}
	return queue[i].seq < queue[j].seq
}
func (queue priorityQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].IndexInQueue = i
	queue[j].IndexInQueue = j
}

func (queue *priorityQueue) Push(x any) {
	item := x.(*frontierItem)
	item.IndexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *priorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	item.IndexInQueue = -1
	*queue = oldQueue[:n-1]
	return item
}

// frontier is the LPA* open list: inconsistent vertices ordered by key.
type frontier struct {
	queue priorityQueue
	seq   uint64
}

func newFrontier() *frontier {
	f := &frontier{queue: make(priorityQueue, 0)}
	heap.Init(&f.queue)
	return f
}

// insertOrUpdate (re)inserts v with the given key. An existing entry is
// removed first since the key may move in either direction.
func (f *frontier) insertOrUpdate(v *vertex, key float64) {
	f.remove(v)
	item := &frontierItem{NodeID: v.ID, Key: key, seq: f.seq}
	f.seq++
	heap.Push(&f.queue, item)
	v.handle = item
}

// remove deletes v's entry; a no-op if v is not in the frontier.
func (f *frontier) remove(v *vertex) {
	if v.handle == nil {
		return
	}
	heap.Remove(&f.queue, v.handle.IndexInQueue)
	v.handle = nil
}

// peekMin returns the smallest entry without removing it.
func (f *frontier) peekMin() (*frontierItem, bool) {
	if len(f.queue) == 0 {
		return nil, false
	}
	return f.queue[0], true
}

// popMin removes and returns the smallest entry. The caller clears the
// owning vertex's handle.
func (f *frontier) popMin() (*frontierItem, bool) {
	if len(f.queue) == 0 {
		return nil, false
	}
	return heap.Pop(&f.queue).(*frontierItem), true
}

func (f *frontier) len() int { return len(f.queue) }

func (f *frontier) reset() {
	clear(f.queue)
	f.queue = f.queue[:0]
	f.seq = 0
}
