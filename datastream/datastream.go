// Package datastream produces the key and operation streams used to
// exercise a leveled map: distribution-driven key generators, a binary
// bench-file format holding a recorded operation sequence, and a replay
// cursor over such sequences.
package datastream

// Generator draws keys from a fixed distribution over 0..n-1.
type Generator interface {
	Next() int64
	GenerateSequence(seqLen int) []int64
	KeyWeights() map[int64]float64
	Entropy() float64
}

// OperationType tags one operation of a stream.
type OperationType uint8

const (
	OpQuery OperationType = iota
	OpInsert
	OpDelete
)

func (t OperationType) String() string {
	switch t {
	case OpQuery:
		return "Query"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Operation is one step of a recorded stream.
type Operation struct {
	Type OperationType
	Key  int64
}

// SequenceModel replays a recorded operation sequence in order.
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModelFromOps copies ops into a fresh replay cursor.
func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next returns the next operation, or false once the sequence is spent.
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// NextN returns up to n operations as a copy, so callers cannot mutate the
// backing sequence.
func (m *SequenceModel) NextN(n int) []Operation {
	if n <= 0 || m.pos >= len(m.ops) {
		return nil
	}
	end := m.pos + n
	if end > len(m.ops) {
		end = len(m.ops)
	}
	cp := make([]Operation, end-m.pos)
	copy(cp, m.ops[m.pos:end])
	m.pos = end
	return cp
}

// Reset rewinds the cursor to the start.
func (m *SequenceModel) Reset() { m.pos = 0 }
