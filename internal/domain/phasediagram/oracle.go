// Package phasediagram answers conventional (non-electrochemical) stability
// questions: which compounds lie on the lower convex hull of formation energy
// per atom over composition space.
package phasediagram

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Default tolerances of HullOracle.
const (
	DefaultStabilityTolerance = 1e-6
	defaultSimplexTolerance   = 1e-10
	rankTolerance             = 1e-10
)

// Candidate is one compound offered to the oracle. Energy is the total energy
// of Composition, not per atom.
type Candidate struct {
	Name        string
	Composition chem.Composition
	Energy      float64
}

// EnergyPerAtom returns Energy divided by the number of atoms.
func (c Candidate) EnergyPerAtom() float64 {
	return c.Energy / c.Composition.NumAtoms()
}

// Oracle decides which candidates are stable against every combination of
// the others.
type Oracle interface {
	Stable(candidates []Candidate) ([]bool, error)
}

// HullOracle solves the lower hull as a linear program: the hull energy of a
// composition x is min Σ λ_i e_i subject to Σ λ_i f_i = x, λ ≥ 0, where f_i is
// the fractional composition and e_i the energy per atom of candidate i.
type HullOracle struct {
	// Tolerance is the largest energy above hull, in eV/atom, still counted as stable.
	Tolerance float64
}

// NewHullOracle returns a HullOracle with the default tolerance.
func NewHullOracle() *HullOracle {
	return &HullOracle{Tolerance: DefaultStabilityTolerance}
}

// Stable implements Oracle.
func (o *HullOracle) Stable(candidates []Candidate) ([]bool, error) {
	if len(candidates) == 0 {
		return nil, errors.New(errors.ErrCodePhaseDiagramEmpty, "no candidates")
	}
	tol := o.Tolerance
	if tol <= 0 {
		tol = DefaultStabilityTolerance
	}

	out := make([]bool, len(candidates))
	for i, c := range candidates {
		ehull, err := o.EnergyAboveHull(candidates, c)
		if err != nil {
			return nil, err
		}
		out[i] = ehull < tol
	}
	return out, nil
}

// EnergyAboveHull returns the energy per atom of c above the hull spanned by
// candidates.
func (o *HullOracle) EnergyAboveHull(candidates []Candidate, c Candidate) (float64, error) {
	hull, err := o.HullEnergy(candidates, c.Composition)
	if err != nil {
		return 0, err
	}
	return c.EnergyPerAtom() - hull, nil
}

// HullEnergy returns the hull energy per atom at comp.
func (o *HullOracle) HullEnergy(candidates []Candidate, comp chem.Composition) (float64, error) {
	if len(candidates) == 0 {
		return 0, errors.New(errors.ErrCodePhaseDiagramEmpty, "no candidates")
	}

	target := comp.Fractional()
	elements := elementUnion(candidates)
	for _, el := range target.Elements() {
		if !elements.Contains(el) {
			return 0, errors.New(errors.ErrCodePhaseDiagramSolver, "composition outside candidate space").
				WithDetail("element=" + el)
		}
	}
	els := elements.Elements()

	n := len(candidates)
	cost := make([]float64, n)
	rows := make([][]float64, len(els))
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for j, cand := range candidates {
		if cand.Composition.NumAtoms() <= 0 {
			return 0, errors.New(errors.ErrCodePhaseDiagramSolver, "candidate has no atoms").WithDetail(cand.Name)
		}
		cost[j] = cand.EnergyPerAtom()
		frac := cand.Composition.Fractional()
		for i, el := range els {
			rows[i][j] = frac.Get(el)
		}
	}

	keep := independentRows(rows)
	a := mat.NewDense(len(keep), n, nil)
	b := make([]float64, len(keep))
	for r, i := range keep {
		a.SetRow(r, rows[i])
		b[r] = target.Get(els[i])
	}

	opt, _, err := lp.Simplex(cost, a, b, defaultSimplexTolerance, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodePhaseDiagramSolver, "hull linear program failed")
	}
	return opt, nil
}

func elementUnion(candidates []Candidate) chem.Composition {
	union := chem.Composition{}
	for _, c := range candidates {
		union = union.Add(c.Composition.Fractional())
	}
	return union
}

// independentRows greedily selects a maximal linearly independent subset of
// rows, preserving order.
func independentRows(rows [][]float64) []int {
	var keep []int
	for i, row := range rows {
		if isZero(row) {
			continue
		}
		trial := append(append([]int(nil), keep...), i)
		m := mat.NewDense(len(trial), len(row), nil)
		for r, idx := range trial {
			m.SetRow(r, rows[idx])
		}
		var svd mat.SVD
		if !svd.Factorize(m, mat.SVDNone) {
			continue
		}
		if svd.Rank(rankTolerance) == len(trial) {
			keep = trial
		}
	}
	return keep
}

func isZero(row []float64) bool {
	for _, v := range row {
		if math.Abs(v) > rankTolerance {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
