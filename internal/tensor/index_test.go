package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAtSet reads and writes by coordinates.
func TestAtSet(t *testing.T) {
	a, err := New[int](Shape{2, 3}, FillRange)
	require.NoError(t, err)

	v, err := a.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	require.NoError(t, a.Set(42, 0, 1))
	assert.Equal(t, 42, a.Data()[1])
}

// TestAt_Errors covers arity and bounds failures.
func TestAt_Errors(t *testing.T) {
	a, err := New[float64](Shape{2, 3}, FillZero)
	require.NoError(t, err)

	_, err = a.At(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.At(0, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.At(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.At(0)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.ErrorIs(t, a.Set(1, 0, 0, 0), ErrDimensionMismatch)
	assert.ErrorIs(t, a.Set(1, 0, 9), ErrIndexOutOfRange)
}

// TestFlatAccess indexes the raw buffer.
func TestFlatAccess(t *testing.T) {
	a, err := New[float64](Shape{2, 2}, FillRange)
	require.NoError(t, err)

	require.NoError(t, a.SetFlat(3, 9))
	v, err := a.AtFlat(3)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	_, err = a.AtFlat(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, a.SetFlat(-1, 0), ErrIndexOutOfRange)
}
