package tensor

import (
	"fmt"

	"github.com/lava-ml/lavatensor/internal/parallel"
)

// MatMul computes the matrix product a @ b.
//
// Both operands must be 2-D with a.shape[1] == b.shape[0]. A 1-D left
// operand of length n is treated as a [1, n] row and a 1-D right operand as
// an [n, 1] column; the operands themselves are never modified and the
// result stays 2-D. Two 1-D operands are rejected.
//
// Example:
//
//	// [2, 3] @ [3, 4] -> [2, 4]
//	c, err := a.MatMul(b)
func (a *Array[T]) MatMul(b *Array[T]) (*Array[T], error) {
	lhs, rhs := a, b
	switch {
	case a.Rank() == 1 && b.Rank() == 1:
		return nil, fmt.Errorf("matmul %v and %v: vector dot product: %w", a.shape, b.shape, ErrShapeMismatch)
	case a.Rank() == 1:
		lhs = a.asRow()
	case b.Rank() == 1:
		rhs = b.asColumn()
	}
	if lhs.Rank() != 2 || rhs.Rank() != 2 {
		return nil, fmt.Errorf("matmul %v and %v: operands must be 2-D: %w", a.shape, b.shape, ErrShapeMismatch)
	}
	if lhs.shape[1] != rhs.shape[0] {
		return nil, fmt.Errorf("matmul %v and %v: inner dimensions differ: %w", a.shape, b.shape, ErrShapeMismatch)
	}

	n, k, m := lhs.shape[0], lhs.shape[1], rhs.shape[1]
	out := newContiguous[T](Shape{n, m})
	ls0, ls1 := lhs.strides[0], lhs.strides[1]
	rs0, rs1 := rhs.strides[0], rhs.strides[1]

	parallel.Rows(n, k*m, func(start, end int) {
		for i := start; i < end; i++ {
			row := out.data[i*m : (i+1)*m]
			for j := 0; j < m; j++ {
				var acc T
				for p := 0; p < k; p++ {
					acc += lhs.data[i*ls0+p*ls1] * rhs.data[p*rs0+j*rs1]
				}
				row[j] = acc
			}
		}
	}, parallel.DefaultConfig())

	return out, nil
}

// asRow views a 1-D array as a [1, n] matrix sharing the same buffer.
func (a *Array[T]) asRow() *Array[T] {
	return &Array[T]{
		shape:   Shape{1, a.shape[0]},
		strides: []int{a.shape[0] * a.strides[0], a.strides[0]},
		data:    a.data,
	}
}

// asColumn views a 1-D array as an [n, 1] matrix sharing the same buffer.
func (a *Array[T]) asColumn() *Array[T] {
	return &Array[T]{
		shape:   Shape{a.shape[0], 1},
		strides: []int{a.strides[0], 1},
		data:    a.data,
	}
}
