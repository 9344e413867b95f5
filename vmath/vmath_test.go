package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalars(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(5, 0, 2))
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))

	assert.Equal(t, 0.0, SmoothStep(0, 1, -1))
	assert.Equal(t, 0.5, SmoothStep(0, 1, 0.5))
	assert.Equal(t, 1.0, SmoothStep(0, 1, 2))
	assert.Equal(t, 1.0, SmoothStep(3, 3, 3))

	assert.InDelta(t, 1.5, Wrap(11.5, 10), 1e-9)
	assert.InDelta(t, 8.0, Wrap(-2, 10), 1e-9)
	assert.Zero(t, Wrap(4, 0))

	// Remainders too small to survive adding span must still land below it
	for _, v := range []float64{-1e-17, -1e-300, -math.SmallestNonzeroFloat64} {
		w := Wrap(v, 10)
		assert.GreaterOrEqual(t, w, 0.0, "v=%g", v)
		assert.Less(t, w, 10.0, "v=%g", v)
	}
}

func TestFastRand_Deterministic(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for range 100 {
		assert.Equal(t, a.Next(), b.Next())
	}

	z := NewFastRand(0)
	assert.NotZero(t, z.Next())
}

func TestFastRand_Ranges(t *testing.T) {
	r := NewFastRand(7)
	for range 1000 {
		f := r.Float64()
		assert.True(t, f >= 0 && f < 1)
		v := r.Range(-2, 3)
		assert.True(t, v >= -2 && v < 3)
		s := r.Signed()
		assert.True(t, s >= -1 && s < 1)
		n := r.Intn(5)
		assert.True(t, n >= 0 && n < 5)
	}
	assert.Zero(t, r.Intn(0))
	assert.False(t, r.Chance(0))
	assert.True(t, r.Chance(1))
}

func TestSeed64_Streams(t *testing.T) {
	assert.Equal(t, Seed64(1, 2), Seed64(1, 2))
	assert.NotEqual(t, Seed64(1, 2), Seed64(1, 3))
	assert.NotEqual(t, Seed64(1, 2), Seed64(2, 2))
}
