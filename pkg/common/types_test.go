package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryIndex(t *testing.T) {
	g := Geometry{Width: 4, Height: 3, Channels: 3}
	assert.Equal(t, 36, g.Len())
	assert.Equal(t, 12, g.RowLen())
	assert.Equal(t, 0, g.Index(0, 0, 0))
	assert.Equal(t, 5, g.Index(0, 1, 2))
	assert.Equal(t, (2*4+3)*3+1, g.Index(2, 3, 1))
}

func TestGeometryCheck(t *testing.T) {
	g := Geometry{Width: 2, Height: 2, Channels: 1}
	require.NoError(t, g.Check(make([]byte, 4)))

	err := g.Check(make([]byte, 5))
	assert.True(t, errors.Is(err, ErrGeometry), "short buffer should be ErrGeometry, got %v", err)

	for _, bad := range []Geometry{
		{Width: 0, Height: 1, Channels: 1},
		{Width: 1, Height: -1, Channels: 1},
		{Width: 1, Height: 1, Channels: 0},
		{Width: 1, Height: 1, Channels: 5},
	} {
		assert.ErrorIs(t, bad.Validate(), ErrGeometry, "%v", bad)
	}
}

func TestFilledAndChannel(t *testing.T) {
	img := Filled(Geometry{Width: 3, Height: 2, Channels: 3}, 10)
	for _, v := range img.Pix {
		require.Equal(t, byte(10), v)
	}

	img.Pix[img.Index(1, 2, 1)] = 77
	green := img.Channel(1)
	assert.Equal(t, Geometry{Width: 3, Height: 2, Channels: 1}, green.Geometry)
	assert.Equal(t, byte(77), green.Pix[green.Index(1, 2, 0)])
	assert.Equal(t, byte(10), green.Pix[0])
	assert.Equal(t, "3x2x3", img.Geometry.String())
}
