package pourbaix

import (
	"fmt"
	"strings"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// MultiEntry is a weighted combination of entries standing for the balanced
// mixture of phases that together reach the diagram's overall composition.
// Every energetic quantity is Σ weight_i · component_i.
type MultiEntry struct {
	entries []Entry
	weights []float64
}

var _ Entry = (*MultiEntry)(nil)

// NewMultiEntry combines entries. A nil weights slice weights every component by 1.
func NewMultiEntry(entries []Entry, weights []float64) (*MultiEntry, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeNoEntries, "multi-entry needs at least one component")
	}
	if weights == nil {
		weights = make([]float64, len(entries))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(entries) {
		return nil, errors.NewValidationError("weights", "one weight per component is required").
			WithDetail(fmt.Sprintf("entries=%d weights=%d", len(entries), len(weights)))
	}
	return &MultiEntry{
		entries: append([]Entry(nil), entries...),
		weights: append([]float64(nil), weights...),
	}, nil
}

// Components returns the component entries in order.
func (m *MultiEntry) Components() []Entry { return append([]Entry(nil), m.entries...) }

// Weights returns the component weights in order.
func (m *MultiEntry) Weights() []float64 { return append([]float64(nil), m.weights...) }

func (m *MultiEntry) weighted(f func(Entry) float64) float64 {
	sum := 0.0
	for i, e := range m.entries {
		sum += m.weights[i] * f(e)
	}
	return sum
}

func (m *MultiEntry) Name() string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name()
	}
	return strings.Join(names, " + ")
}

func (m *MultiEntry) EntryIDs() []string {
	var ids []string
	for _, e := range m.entries {
		ids = append(ids, e.EntryIDs()...)
	}
	return ids
}

func (m *MultiEntry) PhaseTypes() []PhaseType {
	var phases []PhaseType
	for _, e := range m.entries {
		phases = append(phases, e.PhaseTypes()...)
	}
	return phases
}

func (m *MultiEntry) Composition() chem.Composition {
	sum := chem.Composition{}
	for i, e := range m.entries {
		sum = sum.Add(e.Composition().Scale(m.weights[i]))
	}
	return sum
}

func (m *MultiEntry) UncorrectedEnergy() float64 { return m.weighted(Entry.UncorrectedEnergy) }
func (m *MultiEntry) NpH() float64               { return m.weighted(Entry.NpH) }
func (m *MultiEntry) NH2O() float64              { return m.weighted(Entry.NH2O) }
func (m *MultiEntry) NPhi() float64              { return m.weighted(Entry.NPhi) }
func (m *MultiEntry) ConcTerm() float64          { return m.weighted(Entry.ConcTerm) }
func (m *MultiEntry) Energy() float64            { return m.weighted(Entry.Energy) }

func (m *MultiEntry) NormalizationFactor() float64 {
	c := m.Composition()
	return 1 / (c.NumAtoms() - c.Get("H") - c.Get("O"))
}

func (m *MultiEntry) EnergyAt(pH, V float64) float64 {
	return m.Energy() + m.NpH()*PREFAC*pH + m.NPhi()*V
}

func (m *MultiEntry) NormalizedEnergyAt(pH, V float64) float64 {
	return m.EnergyAt(pH, V) * m.NormalizationFactor()
}

func (m *MultiEntry) EnergyPerAtom() float64 {
	return m.Energy() / m.Composition().NumAtoms()
}

func (m *MultiEntry) NormalizedEnergy() float64 {
	return m.Energy() * m.NormalizationFactor()
}

func (m *MultiEntry) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = fmt.Sprintf("%.4g×%s", m.weights[i], e.Name())
	}
	return fmt.Sprintf("MultiEntry(%s, energy=%.4f, npH=%g, nPhi=%g, nH2O=%g)",
		strings.Join(parts, " + "), m.Energy(), m.NpH(), m.NPhi(), m.NH2O())
}

// countPhase returns how many components of e have phase p.
func countPhase(e Entry, p PhaseType) int {
	n := 0
	for _, ph := range e.PhaseTypes() {
		if ph == p {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
