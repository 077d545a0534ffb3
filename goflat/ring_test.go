package goflat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flat-structures/flat.SDK/goflat"
)

func TestInt64Ring(t *testing.T) {
	a, b := goflat.Int64(6), goflat.Int64(-4)
	assert.Equal(t, goflat.Int64(2), a.Add(b))
	assert.Equal(t, goflat.Int64(10), a.Sub(b))
	assert.Equal(t, goflat.Int64(-24), a.Mul(b))
	assert.Equal(t, goflat.Int64(4), b.Neg())
	assert.Equal(t, -1, b.Sign())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, goflat.Int64(1), a.One())
	assert.Equal(t, "6", a.String())
}

func TestRatRing(t *testing.T) {
	half := goflat.NewRat(1, 2)
	third := goflat.NewRat(1, 3)

	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())
	assert.Equal(t, 0, half.Add(half.Neg()).Sign())
	assert.Equal(t, 1, half.Cmp(third))
	assert.Equal(t, 0, goflat.NewRat(2, 4).Cmp(half))

	// The zero value is the ring zero.
	var zero goflat.Rat
	assert.Equal(t, 0, zero.Sign())
	assert.Equal(t, "1/2", zero.Add(half).String())
}
