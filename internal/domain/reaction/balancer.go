// Package reaction balances aqueous formation reactions against free H and O
// reservoirs.
package reaction

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Default numerical tolerances of LinearBalancer.
const (
	DefaultRankTolerance     = 1e-10
	DefaultResidualTolerance = 1e-6
)

// ErrUnbalanceable is the sentinel returned when no balanced reaction exists.
// Match with errors.Is or errors.IsCode(err, errors.ErrCodeReactionUnbalanceable).
var ErrUnbalanceable = errors.New(errors.ErrCodeReactionUnbalanceable, "reaction cannot be balanced")

// Balancer computes how much of each reactant is consumed to form one unit of
// product. H and O are exchanged freely with the solvent and are not balanced.
type Balancer interface {
	Balance(reactants []chem.Composition, product chem.Composition) ([]float64, error)
}

// LinearBalancer balances the non-H/O elements by least squares and rejects
// solutions that are not unique or do not close the element balance.
type LinearBalancer struct {
	RankTolerance     float64
	ResidualTolerance float64
}

// NewLinearBalancer returns a LinearBalancer with default tolerances.
func NewLinearBalancer() *LinearBalancer {
	return &LinearBalancer{
		RankTolerance:     DefaultRankTolerance,
		ResidualTolerance: DefaultResidualTolerance,
	}
}

// Balance implements Balancer.
func (b *LinearBalancer) Balance(reactants []chem.Composition, product chem.Composition) ([]float64, error) {
	if len(reactants) == 0 {
		return nil, errors.New(errors.ErrCodeReactionInvalid, "no reactants")
	}

	elements := balancedElements(reactants, product)
	if len(elements) == 0 {
		return nil, errors.New(errors.ErrCodeReactionInvalid, "product has no elements besides H and O")
	}

	m, k := len(elements), len(reactants)
	if m < k {
		// More unknowns than constraints: the balance is not unique.
		return nil, ErrUnbalanceable
	}

	a := mat.NewDense(m, k, nil)
	rhs := mat.NewVecDense(m, nil)
	for i, el := range elements {
		for j, r := range reactants {
			a.Set(i, j, r.Get(el))
		}
		rhs.SetVec(i, product.Get(el))
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.Wrap(ErrUnbalanceable, errors.ErrCodeReactionUnbalanceable, "svd factorization failed")
	}
	rank := svd.Rank(b.rankTolerance())
	if rank < k {
		return nil, ErrUnbalanceable
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, rhs, rank)

	var residual mat.VecDense
	residual.MulVec(a, &x)
	residual.SubVec(&residual, rhs)
	if mat.Norm(&residual, 2) > b.residualTolerance()*math.Max(1, mat.Norm(rhs, 2)) {
		return nil, ErrUnbalanceable
	}

	coeffs := make([]float64, k)
	for j := range coeffs {
		coeffs[j] = x.AtVec(j)
	}
	return coeffs, nil
}

func (b *LinearBalancer) rankTolerance() float64 {
	if b.RankTolerance > 0 {
		return b.RankTolerance
	}
	return DefaultRankTolerance
}

func (b *LinearBalancer) residualTolerance() float64 {
	if b.ResidualTolerance > 0 {
		return b.ResidualTolerance
	}
	return DefaultResidualTolerance
}

// balancedElements returns the sorted union of non-H/O elements.
func balancedElements(reactants []chem.Composition, product chem.Composition) []string {
	union := product.Without("H", "O")
	for _, r := range reactants {
		for _, el := range r.Without("H", "O").Elements() {
			if !union.Contains(el) {
				union = union.Add(chem.Composition{el: 1})
			}
		}
	}
	return union.Elements()
}

//Personal.AI order the ending
