package tensor

import (
	"fmt"
	"testing"
)

func BenchmarkTensorCreation(b *testing.B) {
	shape := Shape{100, 100}

	b.Run("Zeros", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Zeros[float64](shape)
		}
	})

	b.Run("Random", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = New[float64](shape, FillRandom)
		}
	})
}

func BenchmarkMatMul(b *testing.B) {
	for _, n := range []int{16, 64, 256} {
		x, _ := New[float64](Shape{n, n}, FillRange)
		y, _ := New[float64](Shape{n, n}, FillOne)
		b.Run(fmt.Sprintf("%dx%d", n, n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = x.MatMul(y)
			}
		})
	}
}

func BenchmarkTransposedValues(b *testing.B) {
	x, _ := New[float64](Shape{256, 256}, FillRange)
	t := x.Clone().Transposed()

	b.Run("Contiguous", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = x.Values()
		}
	})

	b.Run("Strided", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = t.Values()
		}
	})
}
