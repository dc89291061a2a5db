package leveledmap

// Key is the set of key types the map supports: the built-in integer types
// and string. These are exactly the types the coin-flip digest is defined
// for; ordering is the native < order of the type.
type Key interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		string
}

// OrderedMap is the public contract of the container. *Map satisfies it.
type OrderedMap[K Key, V any] interface {
	Size() int
	Empty() bool
	Layers() int
	Height(key K) (int, error)
	Find(key K) (V, error)
	Update(key K, value V) error
	Insert(key K, value V) bool
	Contains(key K) bool
	NextKey(key K) (K, error)
	PreviousKey(key K) (K, error)
	IsSmallestKey(key K) (bool, error)
	IsLargestKey(key K) (bool, error)
	AllKeysInOrder() []K
	Erase(key K) error
}

// Inspectable is the read-only window diagnostic tooling works against.
// Snapshot copies keys out; node identity never leaves the container.
type Inspectable[K Key] interface {
	Size() int
	Layers() int
	Snapshot() [][]K
}
