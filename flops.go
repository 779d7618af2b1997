package numbench

import (
	"fmt"
	"time"
)

// Kernel names a dense linear-algebra operation with a known FLOP model.
type Kernel int

const (
	DotProduct Kernel = iota
	MatVec
	MatMul
	TriangularSolve
	LU
	Cholesky
	QR
)

var kernelNames = map[Kernel]string{
	DotProduct:      "dot_product",
	MatVec:          "matvec",
	MatMul:          "matmul",
	TriangularSolve: "triangular_solve",
	LU:              "lu",
	Cholesky:        "cholesky",
	QR:              "qr",
}

// kernelFlops maps each kernel to its count for a square instance of size n.
// Resolved once here rather than branching on names inside the counters.
var kernelFlops = map[Kernel]func(n int) int64{
	DotProduct:      DotProductFlops,
	MatVec:          func(n int) int64 { return MatVecFlops(n, n) },
	MatMul:          func(n int) int64 { return MatMulFlops(n, n, n) },
	TriangularSolve: TriangularSolveFlops,
	LU:              LUFlops,
	Cholesky:        CholeskyFlops,
	QR:              func(n int) int64 { return QRFlops(n, n) },
}

func (k Kernel) String() string {
	if name, ok := kernelNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kernel(%d)", int(k))
}

// ParseKernel maps a kernel name to its Kernel value.
func ParseKernel(name string) (Kernel, error) {
	for k, n := range kernelNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// Flops returns the FLOP count for a square instance of size n.
func (k Kernel) Flops(n int) (int64, error) {
	fn, ok := kernelFlops[k]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownKernel, k)
	}
	return fn(n), nil
}

// DotProductFlops counts an n-element dot product: n multiplies and n−1 adds.
func DotProductFlops(n int) int64 {
	if n < 1 {
		return 0
	}
	return 2*int64(n) - 1
}

// MatVecFlops counts an m×n matrix-vector product: each of the m rows is a
// length-n dot product, rounded to 2n.
func MatVecFlops(m, n int) int64 {
	return int64(m) * 2 * int64(n)
}

// MatMulFlops counts an (m×k)·(k×n) matrix product: mn entries, each a
// length-k dot product.
func MatMulFlops(m, n, k int) int64 {
	return 2 * int64(k) * int64(m) * int64(n)
}

// TriangularSolveFlops counts forward or back substitution on an n×n
// triangle: row i needs i−1 multiply/add pairs and one divide.
func TriangularSolveFlops(n int) int64 {
	var total int64
	for i := 1; i <= n; i++ {
		total += 2*int64(i-1) + 1
	}
	return total
}

// LUFlops counts Gaussian elimination without pivot search on an n×n matrix:
// at each step the pivot column is divided and the trailing submatrix
// updated. Asymptotically 2n³/3.
func LUFlops(n int) int64 {
	var total int64
	for k := 0; k < n-1; k++ {
		r := int64(n - k)
		total += r         // column divide
		total += 2 * r * r // submatrix update
	}
	return total
}

// CholeskyFlops counts a Cholesky factorization as half the LU count,
// exploiting symmetry. Asymptotically n³/3.
func CholeskyFlops(n int) int64 {
	return LUFlops(n) / 2
}

// QRFlops is the simplified Householder estimate 2mn² − 2n³/3 for an m×n
// factorization.
func QRFlops(m, n int) int64 {
	n64 := int64(n)
	return 2*int64(m)*n64*n64 - (2*n64*n64*n64)/3
}

// FlopsSummary returns the counts of every modeled kernel at size n, with
// rectangular kernels taken square.
func FlopsSummary(n int) map[Kernel]int64 {
	out := make(map[Kernel]int64, len(kernelFlops))
	for k, fn := range kernelFlops {
		out[k] = fn(n)
	}
	return out
}

// Gflops converts a FLOP count and an elapsed time into a throughput in
// billions of floating-point operations per second.
func Gflops(flops int64, elapsed time.Duration) float64 {
	return float64(flops) / elapsed.Seconds() / 1e9
}

// A FlopCounter tallies floating-point operations in hand-instrumented
// kernels. Increment methods are named after the operation so call sites read
// like the arithmetic they count.
type FlopCounter struct {
	count int64
}

func (c *FlopCounter) Add()  { c.count++ }
func (c *FlopCounter) Mul()  { c.count++ }
func (c *FlopCounter) Div()  { c.count++ }
func (c *FlopCounter) Sqrt() { c.count++ }

// Dot records a length-n dot product.
func (c *FlopCounter) Dot(n int) { c.count += 2 * int64(n) }

// MatVec records an m×n matrix-vector product.
func (c *FlopCounter) MatVec(m, n int) { c.count += MatVecFlops(m, n) }

// Count returns the tally so far.
func (c *FlopCounter) Count() int64 { return c.count }

// Reset zeroes the tally for reuse.
func (c *FlopCounter) Reset() { c.count = 0 }

// Memory model: bytes per element for the supported dtypes.
var dtypeBytes = map[string]int64{
	"float32": 4,
	"float64": 8,
	"int32":   4,
	"int64":   8,
}

// MemoryBytes returns the storage footprint of a dense array with the given
// element type and shape.
func MemoryBytes(dtype string, shape ...int) (int64, error) {
	per, ok := dtypeBytes[dtype]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDType, dtype)
	}
	total := per
	for _, dim := range shape {
		total *= int64(dim)
	}
	return total, nil
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b int64) string {
	switch {
	case b < 1<<10:
		return fmt.Sprintf("%d B", b)
	case b < 1<<20:
		return fmt.Sprintf("%.2f KB", float64(b)/(1<<10))
	case b < 1<<30:
		return fmt.Sprintf("%.2f MB", float64(b)/(1<<20))
	default:
		return fmt.Sprintf("%.2f GB", float64(b)/(1<<30))
	}
}

// MemorySummary reports formatted footprints of the shapes that appear in a
// size-n dense problem: a vector, a square matrix and a rank-n/10 factor.
func MemorySummary(n int, dtype string) (map[string]string, error) {
	vec, err := MemoryBytes(dtype, n)
	if err != nil {
		return nil, err
	}
	mtx, _ := MemoryBytes(dtype, n, n)
	rk, _ := MemoryBytes(dtype, n, n/10)
	return map[string]string{
		"vector": FormatBytes(vec),
		"matrix": FormatBytes(mtx),
		"rank_k": FormatBytes(rk),
	}, nil
}
