package leveledmap

// ref addresses a node inside the arena. Links between nodes are refs, not
// pointers, so erasing a node can never leave a dangling pointer: a freed
// slot is parked on the free list until the next insertion reuses it.
type ref = int32

const nilRef ref = -1

// node is one cell of one layer. next/prev run horizontally inside the
// layer, up/down connect the duplicate-key occurrences of adjacent layers.
// Sentinels are nodes whose key is never read: the tail of a layer is the
// only node with next == nilRef, the head the only one with prev == nilRef.
type node[K Key, V any] struct {
	key   K
	value V

	next ref
	prev ref
	up   ref
	down ref
}

// arena owns every node of the map. Nodes live in one growable slice;
// pointers obtained from at are invalidated by the next alloc, so callers
// keep refs across allocations and re-fetch.
type arena[K Key, V any] struct {
	nodes []node[K, V]
	free  []ref
}

func (a *arena[K, V]) alloc(key K, value V) ref {
	blank := node[K, V]{key: key, value: value, next: nilRef, prev: nilRef, up: nilRef, down: nilRef}
	if n := len(a.free); n > 0 {
		r := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[r] = blank
		return r
	}
	a.nodes = append(a.nodes, blank)
	return ref(len(a.nodes) - 1)
}

// release zeroes the slot before parking it so freed keys and values do not
// pin memory.
func (a *arena[K, V]) release(r ref) {
	a.nodes[r] = node[K, V]{next: nilRef, prev: nilRef, up: nilRef, down: nilRef}
	a.free = append(a.free, r)
}

func (a *arena[K, V]) at(r ref) *node[K, V] {
	return &a.nodes[r]
}

// reset drops every node at once; there is no per-node teardown walk.
func (a *arena[K, V]) reset() {
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
}

// cap reports how many slots the arena has ever materialized, live or free.
func (a *arena[K, V]) cap() int {
	return len(a.nodes)
}
