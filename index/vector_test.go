package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_Dot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}

	assert.InDelta(t, 2*4+3*2, a.Dot(b), 1e-12)
	assert.InDelta(t, a.Dot(b), b.Dot(a), 1e-12)
	assert.Equal(t, 0.0, a.Dot(Vector{}))
}

func TestCosine(t *testing.T) {
	a := Vector{Indices: []int{1}, Values: []float64{3}}
	b := Vector{Indices: []int{1}, Values: []float64{0.5}}
	c := Vector{Indices: []int{2}, Values: []float64{1}}

	assert.InDelta(t, 1.0, Cosine(a, b), 1e-12)
	assert.Equal(t, 0.0, Cosine(a, c))
	assert.Equal(t, 0.0, Cosine(a, Vector{}))
}

func TestNewVector_Normalizes(t *testing.T) {
	v := newVector(map[int]float64{4: 3, 1: 4})
	assert.Equal(t, []int{1, 4}, v.Indices)
	assert.InDeltaSlice(t, []float64{0.8, 0.6}, v.Values, 1e-12)
	assert.True(t, newVector(nil).IsZero())
}
