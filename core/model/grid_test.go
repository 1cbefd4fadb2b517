package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestUniformGrid(t *testing.T) {
	w, err := UniformGrid(10, 20, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 12.5, 15, 17.5, 20}, w, 1e-12)

	w, err = UniformGrid(3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, w)

	_, err = UniformGrid(20, 10, 5)
	assert.True(t, errors.Is(err, ErrInvalidParameters))
	_, err = UniformGrid(10, 20, 0)
	assert.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestUniformPMF(t *testing.T) {
	p, err := UniformPMF(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, p)
	_, err = UniformPMF(0)
	assert.Error(t, err)
}

func TestBetaBinomialPMF(t *testing.T) {
	p, err := BetaBinomialPMF(60, 600, 400)
	require.NoError(t, err)
	require.Len(t, p, 60)
	assert.InDelta(t, 1, floats.Sum(p), 1e-12)
	for _, q := range p {
		assert.GreaterOrEqual(t, q, 0.0)
	}
	// mode of BetaBinomial(59, 600, 400)
	assert.Equal(t, 36, floats.MaxIdx(p))

	// a = b = 1 is the discrete uniform distribution
	u, err := BetaBinomialPMF(5, 1, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, 0.2, 0.2, 0.2, 0.2}, u, 1e-12)

	_, err = BetaBinomialPMF(5, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, 60, p.N())
	assert.Equal(t, 10.0, p.Wages[0])
	assert.Equal(t, 20.0, p.Wages[59])
}
