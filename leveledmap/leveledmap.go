package leveledmap

import (
	"fmt"
	"io"
	"math"
)

// Map is an ordered key-value container built as a leveled skip list. The
// base layer holds every key in ascending order; each higher layer holds
// the subset of keys whose deterministic coin-flip chain reached it, and
// the topmost layer is always empty apart from its sentinels. Every layer
// is bounded by a -inf head sentinel and a +inf tail sentinel.
//
// A Map is not safe for concurrent use and must not be copied after first
// use; wrap it if either is needed.
type Map[K Key, V any] struct {
	noCopy noCopy

	arena arena[K, V]

	front    ref // base layer head sentinel
	back     ref // base layer tail sentinel
	topFront ref // top layer head sentinel
	topBack  ref // top layer tail sentinel

	size   int // distinct keys
	layers int // total layer count, >= 2
}

// New returns an empty map: two layers (base and the empty top), size 0.
func New[K Key, V any]() *Map[K, V] {
	m := &Map[K, V]{}
	m.init()
	return m
}

func (m *Map[K, V]) init() {
	m.arena.reset()

	var zk K
	var zv V
	m.front = m.arena.alloc(zk, zv)
	m.back = m.arena.alloc(zk, zv)
	m.topFront = m.arena.alloc(zk, zv)
	m.topBack = m.arena.alloc(zk, zv)

	m.node(m.front).next = m.back
	m.node(m.front).up = m.topFront
	m.node(m.back).prev = m.front
	m.node(m.back).up = m.topBack
	m.node(m.topFront).next = m.topBack
	m.node(m.topFront).down = m.front
	m.node(m.topBack).prev = m.topFront
	m.node(m.topBack).down = m.back

	m.size = 0
	m.layers = 2
}

func (m *Map[K, V]) node(r ref) *node[K, V] {
	return m.arena.at(r)
}

// Size returns the number of distinct keys.
func (m *Map[K, V]) Size() int { return m.size }

// Empty reports whether the map holds no keys.
func (m *Map[K, V]) Empty() bool { return m.size == 0 }

// Layers returns the current layer count. An empty map has two layers: the
// base layer and the always-empty top layer.
func (m *Map[K, V]) Layers() int { return m.layers }

// Clear resets the map to its freshly constructed state. The arena is
// dropped in bulk; no per-node walk is needed.
func (m *Map[K, V]) Clear() { m.init() }

// locatePred descends from the top head sentinel and returns the base-layer
// node after which key sits or would be inserted: the rightmost base node
// with a key strictly less than the target, possibly the head sentinel.
func (m *Map[K, V]) locatePred(key K) ref {
	cur := m.topFront
	for m.node(cur).down != nilRef {
		next := m.node(cur).next
		if m.node(next).next != nilRef && m.node(next).key < key {
			cur = next
		} else {
			cur = m.node(cur).down
		}
	}
	for {
		next := m.node(cur).next
		if m.node(next).next == nilRef || m.node(next).key >= key {
			return cur
		}
		cur = next
	}
}

// locate returns the base-layer node holding key, or nilRef.
func (m *Map[K, V]) locate(key K) ref {
	cand := m.node(m.locatePred(key)).next
	if m.node(cand).next != nilRef && m.node(cand).key == key {
		return cand
	}
	return nilRef
}

// Find returns the value stored under key.
func (m *Map[K, V]) Find(key K) (V, error) {
	if r := m.locate(key); r != nilRef {
		return m.node(r).value, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

// Update overwrites the value of an existing key. Unlike Insert it never
// changes the structure, and it fails if the key is absent.
func (m *Map[K, V]) Update(key K, value V) error {
	r := m.locate(key)
	if r == nilRef {
		return ErrKeyNotFound
	}
	// Every node of the vertical chain carries the value; keep them in sync.
	for ; r != nilRef; r = m.node(r).up {
		m.node(r).value = value
	}
	return nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.locate(key) != nilRef
}

// Height returns the 1-based number of layers the key occupies.
func (m *Map[K, V]) Height(key K) (int, error) {
	r := m.locate(key)
	if r == nilRef {
		return 0, ErrKeyNotFound
	}
	h := 1
	for m.node(r).up != nilRef {
		r = m.node(r).up
		h++
	}
	return h, nil
}

// NextKey returns the smallest key strictly greater than key. It fails with
// ErrKeyNotFound if key is absent and ErrOutOfRange if key is the largest.
func (m *Map[K, V]) NextKey(key K) (K, error) {
	var zero K
	r := m.locate(key)
	if r == nilRef {
		return zero, ErrKeyNotFound
	}
	succ := m.node(r).next
	if m.node(succ).next == nilRef {
		return zero, ErrOutOfRange
	}
	return m.node(succ).key, nil
}

// PreviousKey returns the largest key strictly less than key. It fails with
// ErrKeyNotFound if key is absent and ErrOutOfRange if key is the smallest.
func (m *Map[K, V]) PreviousKey(key K) (K, error) {
	var zero K
	r := m.locate(key)
	if r == nilRef {
		return zero, ErrKeyNotFound
	}
	pred := m.node(r).prev
	if m.node(pred).prev == nilRef {
		return zero, ErrOutOfRange
	}
	return m.node(pred).key, nil
}

// IsSmallestKey reports whether key is the minimum of the map.
func (m *Map[K, V]) IsSmallestKey(key K) (bool, error) {
	if m.locate(key) == nilRef {
		return false, ErrKeyNotFound
	}
	return m.node(m.node(m.front).next).key == key, nil
}

// IsLargestKey reports whether key is the maximum of the map.
func (m *Map[K, V]) IsLargestKey(key K) (bool, error) {
	if m.locate(key) == nilRef {
		return false, ErrKeyNotFound
	}
	return m.node(m.node(m.back).prev).key == key, nil
}

// AllKeysInOrder returns every key in ascending order.
func (m *Map[K, V]) AllKeysInOrder() []K {
	keys := make([]K, 0, m.size)
	for r := m.node(m.front).next; r != m.back; r = m.node(r).next {
		keys = append(keys, m.node(r).key)
	}
	return keys
}

// Insert adds a key-value pair. It returns false without touching the map
// if the key is already present. After linking the new base node, the key's
// coin-flip sequence decides how many layers the key climbs; a flip chain
// that would reach the current empty top layer grows the map by one layer
// first, and the climb is cut off at the size-dependent layer ceiling.
func (m *Map[K, V]) Insert(key K, value V) bool {
	pred := m.locatePred(key)
	if cand := m.node(pred).next; m.node(cand).next != nilRef && m.node(cand).key == key {
		return false
	}

	nn := m.arena.alloc(key, value)
	next := m.node(pred).next
	m.node(nn).prev = pred
	m.node(nn).next = next
	m.node(next).prev = nn
	m.node(pred).next = nn
	m.size++

	// Promotion climb. walker hunts along prev links for the nearest node
	// with an up pointer; its up neighbor is the predecessor one layer
	// higher. below is the top of this key's chain so far.
	walker := pred
	below := nn
	occupied := 1
	for flips := 0; FlipCoin(key, flips); flips++ {
		if occupied == m.layers-1 {
			m.growTopLayer()
		}
		for m.node(walker).up == nilRef {
			walker = m.node(walker).prev
		}
		walker = m.node(walker).up

		upNode := m.arena.alloc(key, value)
		upNext := m.node(walker).next
		m.node(upNode).prev = walker
		m.node(upNode).next = upNext
		m.node(upNode).down = below
		m.node(below).up = upNode
		m.node(upNext).prev = upNode
		m.node(walker).next = upNode
		below = upNode
		occupied++

		if m.layers >= m.layerCeiling() {
			break
		}
	}
	return true
}

// Erase removes key and its whole vertical chain, relinking the horizontal
// neighbors at every layer it occupied. Upper layers emptied by the removal
// are kept: only insertion ever changes the layer count.
func (m *Map[K, V]) Erase(key K) error {
	cur := m.locate(key)
	if cur == nilRef {
		return ErrKeyNotFound
	}
	for cur != nilRef {
		n := m.node(cur)
		m.node(n.prev).next = n.next
		m.node(n.next).prev = n.prev
		up := n.up
		m.arena.release(cur)
		cur = up
	}
	m.size--
	return nil
}

// growTopLayer stacks a fresh pair of sentinels above the current top
// layer, keeping the invariant that the topmost layer holds no data.
func (m *Map[K, V]) growTopLayer() {
	var zk K
	var zv V
	newFront := m.arena.alloc(zk, zv)
	newBack := m.arena.alloc(zk, zv)

	m.node(newFront).next = newBack
	m.node(newFront).down = m.topFront
	m.node(newBack).prev = newFront
	m.node(newBack).down = m.topBack
	m.node(m.topFront).up = newFront
	m.node(m.topBack).up = newBack

	m.topFront = newFront
	m.topBack = newBack
	m.layers++
}

// layerCeiling bounds the total layer count as a function of the current
// size: a flat 13 for small maps, 3*ceil(log2(size))+1 beyond 16 keys.
func (m *Map[K, V]) layerCeiling() int {
	if m.size <= 16 {
		return 13
	}
	return 3*int(math.Ceil(math.Log2(float64(m.size)))) + 1
}

// Snapshot copies the keys of every layer, base layer first. It is the
// only structural view the map exposes; nodes stay private to the arena.
func (m *Map[K, V]) Snapshot() [][]K {
	out := make([][]K, 0, m.layers)
	for front := m.front; front != nilRef; front = m.node(front).up {
		layer := []K{}
		for r := m.node(front).next; m.node(r).next != nilRef; r = m.node(r).next {
			layer = append(layer, m.node(r).key)
		}
		out = append(out, layer)
	}
	return out
}

// Dump writes every layer top to bottom with the sentinels shown as -inf
// and +inf. It is a debugging aid; the format is not stable.
func (m *Map[K, V]) Dump(w io.Writer) {
	for front := m.topFront; front != nilRef; front = m.node(front).down {
		fmt.Fprint(w, "-inf")
		for r := m.node(front).next; m.node(r).next != nilRef; r = m.node(r).next {
			fmt.Fprintf(w, " -> %v", m.node(r).key)
		}
		fmt.Fprintln(w, " -> +inf")
	}
}

// noCopy makes `go vet` flag copies of a Map value; the refs inside a copy
// would alias the same arena.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
