// Package chem provides element-amount arithmetic and chemical formula parsing
// used by the reaction balancer, the phase-diagram oracle and the Pourbaix
// entry model.
package chem

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AmountTolerance is the magnitude below which an element amount is treated as zero.
const AmountTolerance = 1e-8

// Composition maps element symbols to amounts. Methods never mutate the
// receiver; arithmetic returns a new Composition.
type Composition map[string]float64

// NewComposition copies amounts, dropping zero entries.
func NewComposition(amounts map[string]float64) Composition {
	c := make(Composition, len(amounts))
	for el, amt := range amounts {
		if math.Abs(amt) > AmountTolerance {
			c[el] = amt
		}
	}
	return c
}

// Get returns the amount of el, 0 when absent.
func (c Composition) Get(el string) float64 {
	return c[el]
}

// Contains reports whether el has a non-zero amount.
func (c Composition) Contains(el string) bool {
	return math.Abs(c[el]) > AmountTolerance
}

// Elements returns the element symbols in lexical order.
func (c Composition) Elements() []string {
	els := make([]string, 0, len(c))
	for el, amt := range c {
		if math.Abs(amt) > AmountTolerance {
			els = append(els, el)
		}
	}
	sort.Strings(els)
	return els
}

// NumAtoms returns the total amount of all elements.
func (c Composition) NumAtoms() float64 {
	total := 0.0
	for _, amt := range c {
		total += amt
	}
	return total
}

// Add returns c + other.
func (c Composition) Add(other Composition) Composition {
	out := make(map[string]float64, len(c)+len(other))
	for el, amt := range c {
		out[el] += amt
	}
	for el, amt := range other {
		out[el] += amt
	}
	return NewComposition(out)
}

// Scale returns c multiplied by factor.
func (c Composition) Scale(factor float64) Composition {
	out := make(map[string]float64, len(c))
	for el, amt := range c {
		out[el] = amt * factor
	}
	return NewComposition(out)
}

// Without returns a copy of c with the named elements removed.
func (c Composition) Without(els ...string) Composition {
	skip := make(map[string]struct{}, len(els))
	for _, el := range els {
		skip[el] = struct{}{}
	}
	out := make(map[string]float64, len(c))
	for el, amt := range c {
		if _, drop := skip[el]; !drop {
			out[el] = amt
		}
	}
	return NewComposition(out)
}

// Fractional returns c normalised so that its amounts sum to one.
func (c Composition) Fractional() Composition {
	n := c.NumAtoms()
	if n == 0 {
		return NewComposition(nil)
	}
	return c.Scale(1 / n)
}

// Reduced divides c by the greatest common divisor of its amounts when every
// amount is integral and returns the reduced composition with that factor.
// Non-integral compositions are returned unchanged with factor 1.
func (c Composition) Reduced() (Composition, float64) {
	var g int64
	for _, amt := range c {
		r := math.Round(amt)
		if math.Abs(amt-r) > 1e-6 || r <= 0 {
			return NewComposition(c), 1
		}
		g = gcd(g, int64(r))
	}
	if g <= 1 {
		return NewComposition(c), 1
	}
	return c.Scale(1 / float64(g)), float64(g)
}

// AlmostEqual reports whether c and other agree on every element within tol.
func (c Composition) AlmostEqual(other Composition, tol float64) bool {
	for el, amt := range c {
		if math.Abs(amt-other[el]) > tol {
			return false
		}
	}
	for el, amt := range other {
		if _, ok := c[el]; !ok && math.Abs(amt) > tol {
			return false
		}
	}
	return true
}

// Formula renders c with metals and other elements in lexical order followed
// by H then O, e.g. "Fe2O3", "FeHO2".
func (c Composition) Formula() string {
	els := c.Elements()
	sort.SliceStable(els, func(i, j int) bool {
		return formulaRank(els[i]) < formulaRank(els[j])
	})
	var sb strings.Builder
	for _, el := range els {
		sb.WriteString(el)
		if amt := c[el]; math.Abs(amt-1) > 1e-8 {
			sb.WriteString(formatAmount(amt))
		}
	}
	return sb.String()
}

// ReducedFormula is Formula of the reduced composition.
func (c Composition) ReducedFormula() string {
	r, _ := c.Reduced()
	return r.Formula()
}

// String implements fmt.Stringer.
func (c Composition) String() string {
	els := c.Elements()
	parts := make([]string, 0, len(els))
	for _, el := range els {
		parts = append(parts, fmt.Sprintf("%s%s", el, formatAmount(c[el])))
	}
	return strings.Join(parts, " ")
}

func formulaRank(el string) int {
	switch el {
	case "H":
		return 1
	case "O":
		return 2
	default:
		return 0
	}
}

func formatAmount(amt float64) string {
	if r := math.Round(amt); math.Abs(amt-r) < 1e-8 {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(amt, 'f', -1, 64)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

//Personal.AI order the ending
