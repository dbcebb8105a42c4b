package tensor

import "fmt"

// zip applies fn pairwise to the logical elements of a and b and returns a
// new row-major array.
func (a *Array[T]) zip(b *Array[T], name string, fn func(x, y T) T) (*Array[T], error) {
	if !a.shape.Equal(b.shape) {
		return nil, fmt.Errorf("%s %v and %v: %w", name, a.shape, b.shape, ErrShapeMismatch)
	}
	out := newContiguous[T](a.shape)
	if a.IsContiguous() && b.IsContiguous() {
		for i := range out.data {
			out.data[i] = fn(a.data[i], b.data[i])
		}
		return out, nil
	}
	for i := range out.data {
		out.data[i] = fn(a.data[a.physical(i)], b.data[b.physical(i)])
	}
	return out, nil
}

// zipInPlace applies fn pairwise and stores the result into a.
func (a *Array[T]) zipInPlace(b *Array[T], name string, fn func(x, y T) T) error {
	if !a.shape.Equal(b.shape) {
		return fmt.Errorf("%s %v and %v: %w", name, a.shape, b.shape, ErrShapeMismatch)
	}
	if a.IsContiguous() && b.IsContiguous() {
		for i := range a.data {
			a.data[i] = fn(a.data[i], b.data[i])
		}
		return nil
	}
	for i := 0; i < len(a.data); i++ {
		pa := a.physical(i)
		a.data[pa] = fn(a.data[pa], b.data[b.physical(i)])
	}
	return nil
}

// Map returns a new row-major array with fn applied to every element.
func (a *Array[T]) Map(fn func(T) T) *Array[T] {
	out := a.Contiguous()
	for i, v := range out.data {
		out.data[i] = fn(v)
	}
	return out
}

// hasZero reports whether any element is exactly zero.
func (a *Array[T]) hasZero() bool {
	for _, v := range a.data {
		if v == 0 {
			return true
		}
	}
	return false
}

// Add returns a + b elementwise.
func (a *Array[T]) Add(b *Array[T]) (*Array[T], error) {
	return a.zip(b, "add", func(x, y T) T { return x + y })
}

// Sub returns a - b elementwise.
func (a *Array[T]) Sub(b *Array[T]) (*Array[T], error) {
	return a.zip(b, "sub", func(x, y T) T { return x - y })
}

// Mul returns a * b elementwise.
func (a *Array[T]) Mul(b *Array[T]) (*Array[T], error) {
	return a.zip(b, "mul", func(x, y T) T { return x * y })
}

// Div returns a / b elementwise. It fails with ErrDivisionByZero, without
// computing anything, if any element of b is zero.
func (a *Array[T]) Div(b *Array[T]) (*Array[T], error) {
	if !a.shape.Equal(b.shape) {
		return nil, fmt.Errorf("div %v and %v: %w", a.shape, b.shape, ErrShapeMismatch)
	}
	if b.hasZero() {
		return nil, fmt.Errorf("div: %w", ErrDivisionByZero)
	}
	return a.zip(b, "div", func(x, y T) T { return x / y })
}

// AddScalar returns a + k.
func (a *Array[T]) AddScalar(k T) *Array[T] {
	return a.Map(func(x T) T { return x + k })
}

// SubScalar returns a - k.
func (a *Array[T]) SubScalar(k T) *Array[T] {
	return a.Map(func(x T) T { return x - k })
}

// MulScalar returns a * k.
func (a *Array[T]) MulScalar(k T) *Array[T] {
	return a.Map(func(x T) T { return x * k })
}

// DivScalar returns a / k, failing with ErrDivisionByZero when k is zero.
func (a *Array[T]) DivScalar(k T) (*Array[T], error) {
	if k == 0 {
		return nil, fmt.Errorf("div scalar: %w", ErrDivisionByZero)
	}
	return a.Map(func(x T) T { return x / k }), nil
}

// Neg returns -a.
func (a *Array[T]) Neg() *Array[T] {
	return a.Map(func(x T) T { return -x })
}

// AddInPlace performs a += b.
func (a *Array[T]) AddInPlace(b *Array[T]) error {
	return a.zipInPlace(b, "add", func(x, y T) T { return x + y })
}

// SubInPlace performs a -= b.
func (a *Array[T]) SubInPlace(b *Array[T]) error {
	return a.zipInPlace(b, "sub", func(x, y T) T { return x - y })
}

// MulInPlace performs a *= b.
func (a *Array[T]) MulInPlace(b *Array[T]) error {
	return a.zipInPlace(b, "mul", func(x, y T) T { return x * y })
}

// DivInPlace performs a /= b. On ErrDivisionByZero a is left untouched.
func (a *Array[T]) DivInPlace(b *Array[T]) error {
	if !a.shape.Equal(b.shape) {
		return fmt.Errorf("div %v and %v: %w", a.shape, b.shape, ErrShapeMismatch)
	}
	if b.hasZero() {
		return fmt.Errorf("div: %w", ErrDivisionByZero)
	}
	return a.zipInPlace(b, "div", func(x, y T) T { return x / y })
}

// AddScalarInPlace performs a += k.
func (a *Array[T]) AddScalarInPlace(k T) {
	for i := range a.data {
		a.data[i] += k
	}
}

// SubScalarInPlace performs a -= k.
func (a *Array[T]) SubScalarInPlace(k T) {
	for i := range a.data {
		a.data[i] -= k
	}
}

// MulScalarInPlace performs a *= k.
func (a *Array[T]) MulScalarInPlace(k T) {
	for i := range a.data {
		a.data[i] *= k
	}
}

// DivScalarInPlace performs a /= k.
func (a *Array[T]) DivScalarInPlace(k T) error {
	if k == 0 {
		return fmt.Errorf("div scalar: %w", ErrDivisionByZero)
	}
	for i := range a.data {
		a.data[i] /= k
	}
	return nil
}

// Sum reduces every element into a single-element array of shape [1].
func (a *Array[T]) Sum() *Array[T] {
	out := newContiguous[T](Shape{1})
	out.data[0] = a.SumValue()
	return out
}

// SumValue returns the sum of all elements.
func (a *Array[T]) SumValue() T {
	var total T
	for _, v := range a.data {
		total += v
	}
	return total
}
