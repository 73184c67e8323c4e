package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func unitCube() []Halfspace {
	return []Halfspace{
		{Normal: Vec3{1, 0, 0}, Offset: -1},
		{Normal: Vec3{-1, 0, 0}, Offset: -1},
		{Normal: Vec3{0, 1, 0}, Offset: -1},
		{Normal: Vec3{0, -1, 0}, Offset: -1},
		{Normal: Vec3{0, 0, 1}, Offset: -1},
		{Normal: Vec3{0, 0, -1}, Offset: -1},
	}
}

func containsVertex(vs []Vec3, want Vec3) bool {
	for _, v := range vs {
		if v.sub(want).norm() < 1e-7 {
			return true
		}
	}
	return false
}

func TestIntersectHalfspaces_Cube(t *testing.T) {
	facets, err := IntersectHalfspaces(unitCube(), Vec3{})
	require.NoError(t, err)
	require.Len(t, facets, 6)
	for i, f := range facets {
		assert.Equal(t, i, f.Index)
		assert.Len(t, f.Vertices, 4)
	}
	assert.True(t, containsVertex(facets[0].Vertices, Vec3{1, 1, 1}))
	assert.True(t, containsVertex(facets[0].Vertices, Vec3{1, -1, -1}))
}

func TestIntersectHalfspaces_CornerCut(t *testing.T) {
	hs := append(unitCube(),
		Halfspace{Normal: Vec3{1, 1, 1}, Offset: -2.5},
		Halfspace{Normal: Vec3{1, 1, 1}, Offset: -10},
	)
	facets, err := IntersectHalfspaces(hs, Vec3{})
	require.NoError(t, err)

	cut := facets[6].Vertices
	require.Len(t, cut, 3)
	assert.True(t, containsVertex(cut, Vec3{1, 1, 0.5}))
	assert.True(t, containsVertex(cut, Vec3{1, 0.5, 1}))
	assert.True(t, containsVertex(cut, Vec3{0.5, 1, 1}))

	assert.Empty(t, facets[7].Vertices, "redundant halfspace has no facet")
	assert.Len(t, facets[0].Vertices, 5, "x=1 face loses a corner")
}

func TestIntersectHalfspaces_CoincidentPlaneOwnedByFirst(t *testing.T) {
	hs := append(unitCube(), Halfspace{Normal: Vec3{2, 0, 0}, Offset: -2})
	facets, err := IntersectHalfspaces(hs, Vec3{})
	require.NoError(t, err)
	assert.Len(t, facets[0].Vertices, 4)
	assert.Empty(t, facets[6].Vertices)
}

func TestIntersectHalfspaces_Errors(t *testing.T) {
	t.Run("too few", func(t *testing.T) {
		_, err := IntersectHalfspaces(unitCube()[:3], Vec3{})
		assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))
	})
	t.Run("interior outside", func(t *testing.T) {
		_, err := IntersectHalfspaces(unitCube(), Vec3{2, 0, 0})
		assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))
	})
	t.Run("interior on boundary", func(t *testing.T) {
		_, err := IntersectHalfspaces(unitCube(), Vec3{1, 0, 0})
		assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))
	})
	t.Run("zero normal", func(t *testing.T) {
		hs := append(unitCube(), Halfspace{Offset: -1})
		_, err := IntersectHalfspaces(hs, Vec3{})
		assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))
	})
	t.Run("unbounded", func(t *testing.T) {
		hs := unitCube()[:5]
		_, err := IntersectHalfspaces(hs, Vec3{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unbounded")
	})
}

func TestClip_KeepsInsidePart(t *testing.T) {
	square := []Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	got := clip(square, Halfspace{Normal: Vec3{1, 0, 0}, Offset: -1}, 1e-12)
	require.Len(t, got, 4)
	for _, v := range got {
		assert.LessOrEqual(t, v[0], 1.0+1e-12)
	}
	assert.Empty(t, clip(square, Halfspace{Normal: Vec3{1, 0, 0}, Offset: 5}, 1e-12))
}

//Personal.AI order the ending
