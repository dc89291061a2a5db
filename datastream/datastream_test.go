package datastream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationTypeString(t *testing.T) {
	assert.Equal(t, "Query", OpQuery.String())
	assert.Equal(t, "Insert", OpInsert.String())
	assert.Equal(t, "Delete", OpDelete.String())
	assert.Equal(t, "Unknown", OperationType(9).String())
}

func TestSequenceModel(t *testing.T) {
	ops := []Operation{
		{Type: OpInsert, Key: 1},
		{Type: OpQuery, Key: 1},
		{Type: OpDelete, Key: 1},
	}
	m := NewSequenceModelFromOps(ops)

	op, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, ops[0], op)

	rest := m.NextN(10)
	assert.Equal(t, ops[1:], rest)

	_, ok = m.Next()
	assert.False(t, ok)
	assert.Nil(t, m.NextN(1))

	m.Reset()
	op, ok = m.Next()
	require.True(t, ok)
	assert.Equal(t, ops[0], op)
}

func TestSequenceModelCopies(t *testing.T) {
	ops := []Operation{{Type: OpInsert, Key: 1}, {Type: OpInsert, Key: 2}}
	m := NewSequenceModelFromOps(ops)

	// Mutating the input after construction must not leak through.
	ops[0].Key = 99
	op, _ := m.Next()
	assert.Equal(t, int64(1), op.Key)

	// NextN hands out a copy, not a window into the backing slice.
	batch := m.NextN(1)
	batch[0].Key = 99
	m.Reset()
	m.Next()
	op, _ = m.Next()
	assert.Equal(t, int64(2), op.Key)
}
