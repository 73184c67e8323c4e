package pourbaix

import (
	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/internal/domain/reaction"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// SolidCoefficientThreshold is the smallest amount of a solid a balanced
// combination may consume.
const SolidCoefficientThreshold = 1e-3

// GenerationStats summarises one run of the multi-entry generator.
type GenerationStats struct {
	// Enumerated is the number of combinations produced.
	Enumerated int
	// Covering is the number that contain every target element.
	Covering int
	// Accepted is the number turned into MultiEntries.
	Accepted int
}

// GenerationObserver receives generator statistics.
type GenerationObserver interface {
	ObserveGeneration(stats GenerationStats)
}

// Generator builds MultiEntries whose balanced composition equals a target.
type Generator struct {
	target   chem.Composition
	size     int
	balancer reaction.Balancer
	observer GenerationObserver
}

// NewGenerator returns a Generator for target. Combinations hold at most one
// entry per target element.
func NewGenerator(target chem.Composition, balancer reaction.Balancer, observer GenerationObserver) *Generator {
	if balancer == nil {
		balancer = reaction.NewLinearBalancer()
	}
	return &Generator{
		target:   chem.NewComposition(target),
		size:     len(target.Elements()),
		balancer: balancer,
		observer: observer,
	}
}

// Generate enumerates every combination of forced plus 0..N−len(forced)
// entries of pool, keeps those covering the target elements, balances each
// against the target with free H and O and returns the feasible ones.
func (g *Generator) Generate(pool, forced []*SingleEntry) ([]*MultiEntry, error) {
	combos := g.combinations(pool, forced)
	stats := GenerationStats{Enumerated: len(combos)}

	covering := combos[:0]
	for _, combo := range combos {
		if g.covers(combo) {
			covering = append(covering, combo)
		}
	}
	stats.Covering = len(covering)

	var out []*MultiEntry
	for _, combo := range covering {
		me, err := g.process(combo)
		if err != nil {
			return nil, err
		}
		if me != nil {
			out = append(out, me)
		}
	}
	stats.Accepted = len(out)

	if g.observer != nil {
		g.observer.ObserveGeneration(stats)
	}
	return out, nil
}

func (g *Generator) combinations(pool, forced []*SingleEntry) [][]*SingleEntry {
	var combos [][]*SingleEntry
	for j := 0; j < g.size; j++ {
		r := j + 1 - len(forced)
		if r < 0 || r > len(pool) {
			continue
		}
		idx := make([]int, r)
		for i := range idx {
			idx[i] = i
		}
		for {
			combo := make([]*SingleEntry, 0, len(forced)+r)
			combo = append(combo, forced...)
			for _, i := range idx {
				combo = append(combo, pool[i])
			}
			combos = append(combos, combo)
			if !nextCombination(idx, len(pool)) {
				break
			}
		}
	}
	return combos
}

// nextCombination advances idx to the next r-subset of [0, n) in lexical
// order and reports whether one exists.
func nextCombination(idx []int, n int) bool {
	r := len(idx)
	i := r - 1
	for i >= 0 && idx[i] == n-r+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for k := i + 1; k < r; k++ {
		idx[k] = idx[k-1] + 1
	}
	return true
}

func (g *Generator) covers(combo []*SingleEntry) bool {
	for _, el := range g.target.Elements() {
		found := false
		for _, e := range combo {
			if e.composition.Contains(el) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// process balances combo against the target. A nil MultiEntry with a nil
// error means the combination is infeasible.
func (g *Generator) process(combo []*SingleEntry) (*MultiEntry, error) {
	comps := make([]chem.Composition, len(combo))
	for i, e := range combo {
		comps[i] = e.composition
	}
	coeffs, err := g.balancer.Balance(comps, g.target)
	if err != nil {
		if errors.Is(err, reaction.ErrUnbalanceable) || errors.IsCode(err, errors.ErrCodeReactionUnbalanceable) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CodeUnknown, "balancing multi-entry")
	}
	for i, e := range combo {
		if coeffs[i] <= threshold(e) {
			return nil, nil
		}
	}

	entries := make([]Entry, len(combo))
	weights := make([]float64, len(combo))
	for i, e := range combo {
		entries[i] = e
		weights[i] = coeffs[i] / coeffs[0]
	}
	return NewMultiEntry(entries, weights)
}

func threshold(e *SingleEntry) float64 {
	if e.phase == PhaseIon {
		return e.concentration
	}
	return SolidCoefficientThreshold
}

//Personal.AI order the ending
