package pourbaix

import (
	"fmt"
	"math"

	"github.com/turtacn/pourbaix-engine/internal/geometry"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// minDomainAreaFraction is the fraction of the window area below which a
// domain is treated as a sliver.
const minDomainAreaFraction = 1e-9

// Window is the rectangular pH–V region a diagram covers.
type Window struct {
	PHMin float64 `json:"ph_min" yaml:"ph_min"`
	PHMax float64 `json:"ph_max" yaml:"ph_max"`
	VMin  float64 `json:"v_min" yaml:"v_min"`
	VMax  float64 `json:"v_max" yaml:"v_max"`
}

// DefaultWindow returns pH [-2, 16] × V [-4, 4].
func DefaultWindow() Window {
	return Window{PHMin: -2, PHMax: 16, VMin: -4, VMax: 4}
}

// Validate rejects empty or non-finite windows.
func (w Window) Validate() error {
	for _, v := range []float64{w.PHMin, w.PHMax, w.VMin, w.VMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidWindow, "window bounds must be finite")
		}
	}
	if w.PHMin >= w.PHMax || w.VMin >= w.VMax {
		return errors.New(errors.ErrCodeInvalidWindow, "window is empty").
			WithDetail(fmt.Sprintf("ph=[%g,%g] v=[%g,%g]", w.PHMin, w.PHMax, w.VMin, w.VMax))
	}
	return nil
}

// Contains reports whether (pH, V) lies inside w, borders included.
func (w Window) Contains(pH, V float64) bool {
	return pH >= w.PHMin && pH <= w.PHMax && V >= w.VMin && V <= w.VMax
}

// Area returns the pH·V area of w.
func (w Window) Area() float64 {
	return (w.PHMax - w.PHMin) * (w.VMax - w.VMin)
}

// Center returns the midpoint of w.
func (w Window) Center() (pH, V float64) {
	return (w.PHMin + w.PHMax) / 2, (w.VMin + w.VMax) / 2
}

// Domain is the region of the window in which Entry is the most stable phase.
type Domain struct {
	Entry Entry
	// Vertices are ordered counter-clockwise about their centroid.
	Vertices  [][2]float64
	Simplices []geometry.Simplex
}

// Center returns the vertex centroid, the usual label position.
func (d Domain) Center() [2]float64 {
	return geometry.Centroid(d.Vertices)
}

// Area returns the pH·V area of the domain.
func (d Domain) Area() float64 {
	return geometry.Area(d.Vertices)
}

// Contains reports whether (pH, V) lies in the closed domain polygon.
func (d Domain) Contains(pH, V float64) bool {
	const eps = 1e-9
	n := len(d.Vertices)
	if n < 3 {
		return false
	}
	for i := range d.Vertices {
		a, b := d.Vertices[i], d.Vertices[(i+1)%n]
		if (b[0]-a[0])*(V-a[1])-(b[1]-a[1])*(pH-a[0]) < -eps {
			return false
		}
	}
	return true
}

// entryHalfspace lifts e's normalised free-energy plane into the halfspace
// nf·(−PREFAC·npH·pH − nPhi·V − energy) + z ≤ 0.
func entryHalfspace(e Entry) geometry.Halfspace {
	nf := e.NormalizationFactor()
	return geometry.Halfspace{
		Normal: geometry.Vec3{-PREFAC * e.NpH() * nf, -e.NPhi() * nf, 1},
		Offset: -e.Energy() * nf,
	}
}

// floorEnergy returns a free-energy value strictly below every entry plane
// anywhere in the window. The unit margin keeps the interior point strict
// when every plane is flat and non-positive.
func floorEnergy(planes []geometry.Halfspace, w Window) float64 {
	var maxA, maxB, maxD float64
	for _, h := range planes {
		maxA = math.Max(maxA, math.Abs(h.Normal[0]))
		maxB = math.Max(maxB, math.Abs(h.Normal[1]))
		maxD = math.Max(maxD, math.Abs(h.Offset))
	}
	phExtent := math.Max(math.Abs(w.PHMin), math.Abs(w.PHMax))
	vExtent := math.Max(math.Abs(w.VMin), math.Abs(w.VMax))
	return -(maxA*phExtent + maxB*vExtent + maxD) - 1
}

// BuildDomains computes the stability domain of every entry that is the
// lowest-energy phase somewhere in w, in the order of entries. Entries that
// only touch the lower envelope along an edge or at a point are omitted.
func BuildDomains(entries []Entry, w Window) ([]Domain, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeNoEntries, "no entries to build domains from")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	halfspaces := make([]geometry.Halfspace, 0, len(entries)+5)
	for _, e := range entries {
		halfspaces = append(halfspaces, entryHalfspace(e))
	}
	gMax := floorEnergy(halfspaces, w)
	halfspaces = append(halfspaces,
		geometry.Halfspace{Normal: geometry.Vec3{-1, 0, 0}, Offset: w.PHMin},
		geometry.Halfspace{Normal: geometry.Vec3{1, 0, 0}, Offset: -w.PHMax},
		geometry.Halfspace{Normal: geometry.Vec3{0, -1, 0}, Offset: w.VMin},
		geometry.Halfspace{Normal: geometry.Vec3{0, 1, 0}, Offset: -w.VMax},
		geometry.Halfspace{Normal: geometry.Vec3{0, 0, -1}, Offset: 2 * gMax},
	)

	minArea := minDomainAreaFraction * w.Area()
	phMid, vMid := w.Center()
	facets, err := geometry.IntersectHalfspaces(halfspaces, geometry.Vec3{phMid, vMid, gMax})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGeometry, "stability domain intersection failed")
	}

	var domains []Domain
	for i, e := range entries {
		points := project(facets[i].Vertices)
		if len(points) < 3 {
			continue
		}
		if geometry.Area(geometry.SortAroundCentroid(points)) < minArea {
			continue
		}
		vertices, simplices, err := geometry.OrderPolygon(points)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeGeometry, "ordering domain of "+e.Name())
		}
		domains = append(domains, Domain{Entry: e, Vertices: vertices, Simplices: simplices})
	}
	return domains, nil
}

func project(vs []geometry.Vec3) [][2]float64 {
	out := make([][2]float64, len(vs))
	for i, v := range vs {
		out[i] = [2]float64{v[0], v[1]}
	}
	return out
}

// WaterLine is a straight line V = Intercept − PREFAC·pH across the window.
type WaterLine struct {
	Name      string
	Intercept float64
	From      [2]float64
	To        [2]float64
}

// WaterLines returns the H2/H2O and H2O/O2 equilibrium lines across w.
func WaterLines(w Window) []WaterLine {
	line := func(name string, intercept float64) WaterLine {
		return WaterLine{
			Name:      name,
			Intercept: intercept,
			From:      [2]float64{w.PHMin, intercept - PREFAC*w.PHMin},
			To:        [2]float64{w.PHMax, intercept - PREFAC*w.PHMax},
		}
	}
	return []WaterLine{
		line("H2/H2O", 0),
		line("H2O/O2", 1.23),
	}
}

//Personal.AI order the ending
