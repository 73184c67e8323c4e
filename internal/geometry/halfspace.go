// Package geometry provides the convex-geometry primitives behind stability
// domains: half-space intersection in three dimensions and ordering and
// triangulation of planar convex polygons.
package geometry

import (
	"math"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Vec3 is a point or direction in three dimensions.
type Vec3 [3]float64

func (a Vec3) add(b Vec3) Vec3      { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) sub(b Vec3) Vec3      { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a Vec3) scale(s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec3) dot(b Vec3) float64   { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a Vec3) norm() float64        { return math.Sqrt(a.dot(a)) }

func (a Vec3) cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Halfspace is the closed set {x : Normal·x + Offset ≤ 0}.
type Halfspace struct {
	Normal Vec3
	Offset float64
}

// Eval returns Normal·x + Offset; negative inside, zero on the boundary.
func (h Halfspace) Eval(x Vec3) float64 {
	return h.Normal.dot(x) + h.Offset
}

// coincident reports whether h and o describe the same boundary plane with the
// same orientation.
func (h Halfspace) coincident(o Halfspace, tol float64) bool {
	hn, on := h.Normal.norm(), o.Normal.norm()
	if hn == 0 || on == 0 {
		return false
	}
	a := h.Normal.scale(1 / hn)
	b := o.Normal.scale(1 / on)
	if a.sub(b).norm() > tol {
		return false
	}
	return math.Abs(h.Offset/hn-o.Offset/on) <= tol
}

// Facet is the face of the intersection polytope lying on one halfspace's
// boundary plane. Index refers to the input slice. Vertices are distinct and
// ordered around the face.
type Facet struct {
	Index    int
	Vertices []Vec3
}

// Options tunes IntersectHalfspaces.
type Options struct {
	// Tolerance is the distance below which vertices merge, planes coincide
	// and the interior point counts as on a boundary.
	Tolerance float64
	// MaxExtent bounds the coordinates of the intersection; larger results are
	// reported as unbounded.
	MaxExtent float64
}

// DefaultOptions returns the tolerances used by IntersectHalfspaces when none are given.
func DefaultOptions() Options {
	return Options{Tolerance: 1e-9, MaxExtent: 1e6}
}

// IntersectHalfspaces computes the facets of the bounded convex polytope
// ∩ halfspaces. interior must lie strictly inside every halfspace.
//
// Each facet is found by clipping a square lying in the halfspace's plane by
// every other halfspace. A first pass with a square of side MaxExtent locates
// the polytope; the second pass repeats the clipping with a square sized to
// the polytope's bounding box. When two halfspaces share a boundary plane the
// lower index owns the facet and the other's facet is empty.
func IntersectHalfspaces(halfspaces []Halfspace, interior Vec3, opts ...Options) ([]Facet, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(halfspaces) < 4 {
		return nil, errors.New(errors.ErrCodeGeometry, "at least four halfspaces are required")
	}
	for i, h := range halfspaces {
		if h.Normal.norm() == 0 {
			return nil, errors.Newf(errors.ErrCodeGeometry, "halfspace %d has a zero normal", i)
		}
		if h.Eval(interior) >= -opt.Tolerance*h.Normal.norm() {
			return nil, errors.Newf(errors.ErrCodeGeometry, "interior point is not strictly inside halfspace %d", i)
		}
	}

	coarse := clipAll(halfspaces, interior, opt.MaxExtent, opt.Tolerance)
	lo, hi, ok := bounds(coarse)
	if !ok {
		return nil, errors.New(errors.ErrCodeGeometry, "halfspace intersection is empty")
	}
	limit := 0.5 * opt.MaxExtent
	for k := 0; k < 3; k++ {
		if math.Abs(lo[k]) >= limit || math.Abs(hi[k]) >= limit {
			return nil, errors.New(errors.ErrCodeGeometry, "halfspace intersection is unbounded")
		}
	}

	center := lo.add(hi).scale(0.5)
	radius := 2 * math.Max(hi.sub(lo).norm(), 1)
	return clipAll(halfspaces, center, radius, opt.Tolerance), nil
}

func clipAll(halfspaces []Halfspace, center Vec3, radius, tol float64) []Facet {
	facets := make([]Facet, len(halfspaces))
	for i, h := range halfspaces {
		facets[i] = Facet{Index: i}
		poly := planeSquare(h, center, radius)
		for j, o := range halfspaces {
			if j == i {
				continue
			}
			if h.coincident(o, tol) {
				if j < i {
					poly = nil
					break
				}
				continue
			}
			poly = clip(poly, o, 0)
			if len(poly) == 0 {
				break
			}
		}
		facets[i].Vertices = dedup(poly, tol*math.Max(radius, 1))
	}
	return facets
}

// planeSquare returns a square of half-width radius lying in h's boundary
// plane, centred on the projection of center onto that plane.
func planeSquare(h Halfspace, center Vec3, radius float64) []Vec3 {
	n := h.Normal
	nn := n.norm()
	unit := n.scale(1 / nn)
	origin := center.sub(n.scale(h.Eval(center) / (nn * nn)))

	ref := Vec3{1, 0, 0}
	if math.Abs(unit[0]) > 0.9 {
		ref = Vec3{0, 1, 0}
	}
	u := unit.cross(ref)
	u = u.scale(1 / u.norm())
	w := unit.cross(u)

	ru, rw := u.scale(radius), w.scale(radius)
	return []Vec3{
		origin.add(ru).add(rw),
		origin.sub(ru).add(rw),
		origin.sub(ru).sub(rw),
		origin.add(ru).sub(rw),
	}
}

// clip is one Sutherland–Hodgman step: it keeps the part of the convex
// polygon poly inside h.
func clip(poly []Vec3, h Halfspace, tol float64) []Vec3 {
	if len(poly) == 0 {
		return nil
	}
	out := make([]Vec3, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	prevVal := h.Eval(prev)
	for _, cur := range poly {
		curVal := h.Eval(cur)
		curIn, prevIn := curVal <= tol, prevVal <= tol
		if curIn != prevIn {
			t := math.Min(math.Max(prevVal/(prevVal-curVal), 0), 1)
			out = append(out, prev.add(cur.sub(prev).scale(t)))
		}
		if curIn {
			out = append(out, cur)
		}
		prev, prevVal = cur, curVal
	}
	return out
}

func dedup(poly []Vec3, tol float64) []Vec3 {
	out := make([]Vec3, 0, len(poly))
	for _, p := range poly {
		dup := false
		for _, q := range out {
			if p.sub(q).norm() <= tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func bounds(facets []Facet) (lo, hi Vec3, ok bool) {
	for _, f := range facets {
		for _, v := range f.Vertices {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], v[k])
				hi[k] = math.Max(hi[k], v[k])
			}
		}
	}
	return lo, hi, ok
}

//Personal.AI order the ending
