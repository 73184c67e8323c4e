package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func TestLexSort_SecondCoordinatePrimary(t *testing.T) {
	got := LexSort([][2]float64{{2, 1}, {1, 1}, {0, 0}, {5, -1}})
	assert.Equal(t, [][2]float64{{5, -1}, {0, 0}, {1, 1}, {2, 1}}, got)
}

func TestSortAroundCentroid(t *testing.T) {
	got := SortAroundCentroid([][2]float64{{0, 1}, {1, 0}, {0, 0}, {1, 1}})
	assert.Equal(t, [][2]float64{{1, 1}, {0, 1}, {0, 0}, {1, 0}}, got)
}

func TestSortAroundCentroid_IsPermutationInvariant(t *testing.T) {
	a := [][2]float64{{3, 0}, {4, 2}, {2, 4}, {-1, 3}, {0, -1}}
	b := [][2]float64{{2, 4}, {0, -1}, {3, 0}, {-1, 3}, {4, 2}}
	assert.Equal(t, SortAroundCentroid(a), SortAroundCentroid(b))
}

func TestAngleLess_TotalOrder(t *testing.T) {
	dirs := [][2]float64{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for i := range dirs {
		for j := range dirs {
			assert.Equal(t, i < j, angleLess(dirs[i], dirs[j]), "%v vs %v", dirs[i], dirs[j])
		}
	}
}

func TestConvexHull_DropsInteriorAndCollinear(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}}
	hull := ConvexHull(pts)
	assert.Equal(t, [][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, hull)
}

func TestTriangulate(t *testing.T) {
	tris, err := Triangulate([][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	require.NoError(t, err)
	require.Len(t, tris, 2)

	total := 0.0
	for _, s := range tris {
		total += Area(s[:])
	}
	assert.InDelta(t, 1.0, total, 1e-12)

	_, err = Triangulate([][2]float64{{0, 0}, {1, 1}, {2, 2}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))
}

func TestOrderPolygon(t *testing.T) {
	_, _, err := OrderPolygon([][2]float64{{0, 0}, {1, 1}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeGeometry))

	ordered, simplices, err := OrderPolygon([][2]float64{{0, 0}, {4, 0}, {0, 3}})
	require.NoError(t, err)
	assert.Len(t, ordered, 3)
	require.Len(t, simplices, 1)
	assert.InDelta(t, 6.0, Area(ordered), 1e-12)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, [2]float64{}, Centroid(nil))
	assert.Equal(t, [2]float64{1, 1}, Centroid([][2]float64{{0, 0}, {2, 2}}))
}

//Personal.AI order the ending
