package index

import (
	"math"
	"sort"
)

// Vector is a sparse vector over an index vocabulary.
// Indices are strictly increasing; Values holds the weight for each index.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Cosine returns the cosine similarity of two vectors, or 0 if either is zero.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp01(a.Dot(b) / (na * nb))
}

// newVector builds a sorted, L2-normalized vector from index/weight pairs.
func newVector(weights map[int]float64) Vector {
	if len(weights) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(weights)),
		Values:  make([]float64, len(weights)),
	}
	for idx := range weights {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)

	var sum float64
	for i, idx := range v.Indices {
		w := weights[idx]
		v.Values[i] = w
		sum += w * w
	}
	if sum > 0 {
		n := math.Sqrt(sum)
		for i := range v.Values {
			v.Values[i] /= n
		}
	}
	return v
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
