package geometry

import (
	"math"
	"sort"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Simplex is a triangle of a polygon triangulation.
type Simplex [3][2]float64

// LexSort returns a copy of points ordered by the second coordinate, ties
// broken by the first.
func LexSort(points [][2]float64) [][2]float64 {
	out := append([][2]float64(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// Centroid returns the arithmetic mean of points.
func Centroid(points [][2]float64) [2]float64 {
	var c [2]float64
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c[0] += p[0]
		c[1] += p[1]
	}
	n := float64(len(points))
	return [2]float64{c[0] / n, c[1] / n}
}

// halfPlane splits directions into [0, π) and [π, 2π) measured from +x.
func halfPlane(p [2]float64) int {
	if p[1] > 0 || (p[1] == 0 && p[0] > 0) {
		return 0
	}
	return 1
}

// angleLess orders directions counter-clockwise from +x without computing
// angles. The zero vector sorts first.
func angleLess(a, b [2]float64) bool {
	az, bz := a == [2]float64{}, b == [2]float64{}
	if az || bz {
		return az && !bz
	}
	ha, hb := halfPlane(a), halfPlane(b)
	if ha != hb {
		return ha < hb
	}
	return a[0]*b[1]-a[1]*b[0] > 0
}

// SortAroundCentroid returns points ordered counter-clockwise about their
// centroid. The input is lexically sorted first so equal-angle points keep a
// deterministic order.
func SortAroundCentroid(points [][2]float64) [][2]float64 {
	sorted := LexSort(points)
	c := Centroid(sorted)
	centered := make([][2]float64, len(sorted))
	for i, p := range sorted {
		centered[i] = [2]float64{p[0] - c[0], p[1] - c[1]}
	}
	sort.SliceStable(centered, func(i, j int) bool {
		return angleLess(centered[i], centered[j])
	})
	out := make([][2]float64, len(centered))
	for i, p := range centered {
		out[i] = [2]float64{p[0] + c[0], p[1] + c[1]}
	}
	return out
}

func cross2(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConvexHull returns the hull of points in counter-clockwise order using
// Andrew's monotone chain. Collinear boundary points are dropped.
func ConvexHull(points [][2]float64) [][2]float64 {
	pts := append([][2]float64(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	if len(pts) < 3 {
		return pts
	}

	hull := make([][2]float64, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// Triangulate fans the convex hull of points into triangles.
func Triangulate(points [][2]float64) ([]Simplex, error) {
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return nil, errors.Newf(errors.ErrCodeGeometry, "convex hull needs 3 non-collinear points, got %d", len(hull))
	}
	out := make([]Simplex, 0, len(hull)-2)
	for i := 1; i+1 < len(hull); i++ {
		out = append(out, Simplex{hull[0], hull[i], hull[i+1]})
	}
	return out, nil
}

// Area returns the absolute shoelace area of an ordered polygon.
func Area(points [][2]float64) float64 {
	s := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		s += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	return math.Abs(s) / 2
}

// OrderPolygon orders a convex vertex set and triangulates it.
func OrderPolygon(points [][2]float64) ([][2]float64, []Simplex, error) {
	if len(points) < 3 {
		return nil, nil, errors.Newf(errors.ErrCodeGeometry, "polygon needs at least 3 vertices, got %d", len(points))
	}
	ordered := SortAroundCentroid(points)
	simplices, err := Triangulate(ordered)
	if err != nil {
		return nil, nil, err
	}
	return ordered, simplices, nil
}

//Personal.AI order the ending
