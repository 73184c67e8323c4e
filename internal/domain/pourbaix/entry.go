// Package pourbaix builds electrochemical stability (Pourbaix) diagrams: the
// regions of pH–potential space in which each solid or aqueous phase has the
// lowest free energy.
package pourbaix

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

const (
	// PREFAC is RT·ln(10)/F at 298.15 K, in eV.
	PREFAC = 0.0591
	// MuH2O is the chemical potential of water in eV.
	MuH2O = -2.4583
	// DefaultIonConcentration is the ion concentration, in mol/L, used when none is given.
	DefaultIonConcentration = 1e-6
)

// PhaseType distinguishes solids from aqueous ions.
type PhaseType string

const (
	PhaseSolid PhaseType = "Solid"
	PhaseIon   PhaseType = "Ion"
)

// IsValid reports whether p is Solid or Ion.
func (p PhaseType) IsValid() bool {
	return p == PhaseSolid || p == PhaseIon
}

// ParsePhaseType accepts "solid", "s", "ion", "aq" in any case.
func ParsePhaseType(s string) (PhaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "s":
		return PhaseSolid, nil
	case "ion", "aq", "aqueous":
		return PhaseIon, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPhase, "entry phase must be Solid or Ion").WithDetail("phase=" + s)
}

// Entry is the contract shared by single phases and weighted combinations of
// phases. Every quantity is derived on each call.
type Entry interface {
	Name() string
	EntryIDs() []string
	PhaseTypes() []PhaseType
	Composition() chem.Composition
	UncorrectedEnergy() float64

	// NpH is n(H) − 2·n(O).
	NpH() float64
	// NH2O is n(O).
	NH2O() float64
	// NPhi is NpH − charge.
	NPhi() float64
	// ConcTerm is PREFAC·log10(concentration).
	ConcTerm() float64
	// Energy is the free energy at pH 0, V 0.
	Energy() float64
	// NormalizationFactor is 1 / (number of atoms other than H and O).
	NormalizationFactor() float64

	EnergyAt(pH, V float64) float64
	NormalizedEnergyAt(pH, V float64) float64
	EnergyPerAtom() float64
	NormalizedEnergy() float64

	String() string
}

// EntryInput carries the raw data of one phase.
type EntryInput struct {
	Name        string
	ID          string
	Composition chem.Composition
	Phase       PhaseType
	// Charge applies to ions only.
	Charge float64
	// Energy is the formation energy relative to H2 and O2 gas, in eV.
	Energy float64
	// Concentration applies to ions only; zero selects DefaultIonConcentration.
	Concentration float64
}

// SingleEntry is one solid or ion.
type SingleEntry struct {
	name          string
	id            string
	composition   chem.Composition
	phase         PhaseType
	charge        float64
	concentration float64
	uncorrected   float64
}

var _ Entry = (*SingleEntry)(nil)

// NewEntry validates in and returns the corresponding SingleEntry.
func NewEntry(in EntryInput) (*SingleEntry, error) {
	if !in.Phase.IsValid() {
		return nil, errors.New(errors.ErrCodeInvalidPhase, "entry phase must be Solid or Ion").
			WithDetail(fmt.Sprintf("name=%s phase=%q", in.Name, in.Phase))
	}
	comp := chem.NewComposition(in.Composition)
	if comp.NumAtoms()-comp.Get("H")-comp.Get("O") <= chem.AmountTolerance {
		return nil, errors.New(errors.ErrCodeNormalization, "entry has no atoms besides H and O").
			WithDetail("composition=" + comp.Formula())
	}
	if math.IsNaN(in.Energy) || math.IsInf(in.Energy, 0) {
		return nil, errors.NewValidationError("energy", "energy must be finite").WithDetail("name=" + in.Name)
	}

	e := &SingleEntry{
		name:          in.Name,
		id:            in.ID,
		composition:   comp,
		phase:         in.Phase,
		concentration: 1,
		uncorrected:   in.Energy,
	}
	if in.Phase == PhaseIon {
		e.charge = in.Charge
		e.concentration = in.Concentration
		if e.concentration == 0 {
			e.concentration = DefaultIonConcentration
		}
		if e.concentration < 0 {
			return nil, errors.NewValidationError("concentration", "ion concentration must be positive").
				WithDetail("name=" + in.Name)
		}
	}
	if e.name == "" {
		e.name = defaultName(comp, in.Phase, e.charge)
	}
	return e, nil
}

func defaultName(comp chem.Composition, phase PhaseType, charge float64) string {
	if phase == PhaseSolid {
		return comp.ReducedFormula() + "(s)"
	}
	switch {
	case charge > 0:
		return fmt.Sprintf("%s[%g+]", comp.Formula(), charge)
	case charge < 0:
		return fmt.Sprintf("%s[%g-]", comp.Formula(), -charge)
	default:
		return comp.Formula() + "(aq)"
	}
}

// ID returns the entry identifier, possibly empty.
func (e *SingleEntry) ID() string { return e.id }

// Phase returns Solid or Ion.
func (e *SingleEntry) Phase() PhaseType { return e.phase }

// Charge returns the ionic charge; 0 for solids.
func (e *SingleEntry) Charge() float64 { return e.charge }

// Concentration returns the ion concentration; 1 for solids.
func (e *SingleEntry) Concentration() float64 { return e.concentration }

func (e *SingleEntry) Name() string                  { return e.name }
func (e *SingleEntry) EntryIDs() []string            { return []string{e.id} }
func (e *SingleEntry) PhaseTypes() []PhaseType       { return []PhaseType{e.phase} }
func (e *SingleEntry) Composition() chem.Composition { return chem.NewComposition(e.composition) }
func (e *SingleEntry) UncorrectedEnergy() float64    { return e.uncorrected }

func (e *SingleEntry) NpH() float64  { return e.composition.Get("H") - 2*e.composition.Get("O") }
func (e *SingleEntry) NH2O() float64 { return e.composition.Get("O") }
func (e *SingleEntry) NPhi() float64 { return e.NpH() - e.charge }

func (e *SingleEntry) ConcTerm() float64 {
	return PREFAC * math.Log10(e.concentration)
}

func (e *SingleEntry) Energy() float64 {
	return e.uncorrected + e.ConcTerm() - MuH2O*e.NH2O()
}

func (e *SingleEntry) NormalizationFactor() float64 {
	return 1 / (e.composition.NumAtoms() - e.composition.Get("H") - e.composition.Get("O"))
}

func (e *SingleEntry) EnergyAt(pH, V float64) float64 {
	return e.Energy() + e.NpH()*PREFAC*pH + e.NPhi()*V
}

func (e *SingleEntry) NormalizedEnergyAt(pH, V float64) float64 {
	return e.EnergyAt(pH, V) * e.NormalizationFactor()
}

func (e *SingleEntry) EnergyPerAtom() float64 {
	return e.Energy() / e.composition.NumAtoms()
}

func (e *SingleEntry) NormalizedEnergy() float64 {
	return e.Energy() * e.NormalizationFactor()
}

func (e *SingleEntry) String() string {
	return fmt.Sprintf("PourbaixEntry(%s, energy=%.4f, npH=%g, nPhi=%g, nH2O=%g, id=%s)",
		e.composition.Formula(), e.Energy(), e.NpH(), e.NPhi(), e.NH2O(), e.id)
}

// withConcentration returns a copy of e carrying concentration c.
func (e *SingleEntry) withConcentration(c float64) *SingleEntry {
	clone := *e
	clone.concentration = c
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Vectorised evaluation
// ─────────────────────────────────────────────────────────────────────────────

// broadcastLen returns the common length of pH and V, where a length-1 slice
// stands for a constant.
func broadcastLen(pH, V []float64) (int, error) {
	switch {
	case len(pH) == len(V):
		return len(pH), nil
	case len(pH) == 1 && len(V) > 0:
		return len(V), nil
	case len(V) == 1 && len(pH) > 0:
		return len(pH), nil
	}
	return 0, errors.New(errors.ErrCodeVectorLengthMismatch, "pH and V arrays have mismatched lengths").
		WithDetail(fmt.Sprintf("len(pH)=%d len(V)=%d", len(pH), len(V)))
}

func at(xs []float64, i int) float64 {
	if len(xs) == 1 {
		return xs[0]
	}
	return xs[i]
}

// EnergiesAt evaluates e.EnergyAt elementwise.
func EnergiesAt(e Entry, pH, V []float64) ([]float64, error) {
	n, err := broadcastLen(pH, V)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = e.EnergyAt(at(pH, i), at(V, i))
	}
	return out, nil
}

// NormalizedEnergiesAt evaluates e.NormalizedEnergyAt elementwise.
func NormalizedEnergiesAt(e Entry, pH, V []float64) ([]float64, error) {
	n, err := broadcastLen(pH, V)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = e.NormalizedEnergyAt(at(pH, i), at(V, i))
	}
	return out, nil
}

//Personal.AI order the ending
