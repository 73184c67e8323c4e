package pourbaix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func TestSingleEntry_DerivedQuantities(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		energy   float64
		npH      float64
		nPhi     float64
		nH2O     float64
		conc     float64
		nf       float64
		expected float64
	}{
		{"hematite", "Fe2O3", -7.5, -6, -6, 3, 1, 0.5, -7.5 - MuH2O*3},
		{"ferrous", "Fe[2+]", -0.8, 0, -2, 0, 1e-6, 1, -0.8 + PREFAC*-6},
		{"bihypoferrite", "HFeO2[-]", -3.9, -3, -2, 2, 1e-6, 1, -3.9 + PREFAC*-6 - MuH2O*2},
		{"hydroxide", "Fe(OH)3", -7.0, -3, -3, 3, 1, 1, -7.0 - MuH2O*3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEntry(t, tt.name, tt.formula, tt.energy)
			assert.InDelta(t, tt.npH, e.NpH(), 1e-12)
			assert.InDelta(t, tt.nPhi, e.NPhi(), 1e-12)
			assert.InDelta(t, tt.nH2O, e.NH2O(), 1e-12)
			assert.InDelta(t, tt.conc, e.Concentration(), 1e-18)
			assert.InDelta(t, PREFAC*math.Log10(tt.conc), e.ConcTerm(), 1e-12)
			assert.InDelta(t, tt.nf, e.NormalizationFactor(), 1e-12)
			assert.InDelta(t, tt.expected, e.Energy(), 1e-9)
			assert.InDelta(t, tt.energy, e.UncorrectedEnergy(), 1e-12)
		})
	}
}

func TestSingleEntry_EnergyAtOriginIsEnergy(t *testing.T) {
	for _, f := range []string{"Fe", "Fe2O3", "Fe[3+]", "FeO2[-]", "Fe(OH)2"} {
		e := mustEntry(t, f, f, -1.3)
		assert.InDelta(t, e.Energy(), e.EnergyAt(0, 0), 1e-12, f)
		assert.InDelta(t, e.NormalizedEnergy(), e.NormalizedEnergyAt(0, 0), 1e-12, f)
	}
}

func TestSingleEntry_EnergyAt(t *testing.T) {
	e := mustEntry(t, "Fe2O3", "Fe2O3", -7.5)
	want := e.Energy() + e.NpH()*PREFAC*7 + e.NPhi()*0.5
	assert.InDelta(t, want, e.EnergyAt(7, 0.5), 1e-12)
	assert.InDelta(t, want*0.5, e.NormalizedEnergyAt(7, 0.5), 1e-12)
	assert.InDelta(t, e.Energy()/5, e.EnergyPerAtom(), 1e-12)
}

func TestNewEntry_Defaults(t *testing.T) {
	solid, err := NewEntry(EntryInput{Composition: chem.Composition{"Fe": 4, "O": 6}, Phase: PhaseSolid, Energy: -15})
	require.NoError(t, err)
	assert.Equal(t, "Fe2O3(s)", solid.Name())
	assert.Equal(t, 1.0, solid.Concentration())
	assert.Equal(t, 0.0, solid.Charge())
	assert.Equal(t, []PhaseType{PhaseSolid}, solid.PhaseTypes())

	ion, err := NewEntry(EntryInput{Composition: chem.Composition{"Fe": 1}, Phase: PhaseIon, Charge: 2, Energy: -0.8})
	require.NoError(t, err)
	assert.Equal(t, "Fe[2+]", ion.Name())
	assert.Equal(t, DefaultIonConcentration, ion.Concentration())

	anion, err := NewEntry(EntryInput{Composition: chem.Composition{"Fe": 1, "O": 2}, Phase: PhaseIon, Charge: -1, Energy: -2})
	require.NoError(t, err)
	assert.Equal(t, "FeO2[1-]", anion.Name())
	assert.Contains(t, anion.String(), "FeO2")
}

func TestNewEntry_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   EntryInput
		code errors.ErrorCode
	}{
		{"bad phase", EntryInput{Composition: chem.Composition{"Fe": 1}, Phase: "Gas"}, errors.ErrCodeInvalidPhase},
		{"water only", EntryInput{Composition: chem.Composition{"H": 2, "O": 1}, Phase: PhaseSolid}, errors.ErrCodeNormalization},
		{"empty", EntryInput{Phase: PhaseSolid}, errors.ErrCodeNormalization},
		{"nan energy", EntryInput{Composition: chem.Composition{"Fe": 1}, Phase: PhaseSolid, Energy: math.NaN()}, errors.ErrCodeValidation},
		{"negative conc", EntryInput{Composition: chem.Composition{"Fe": 1}, Phase: PhaseIon, Concentration: -1}, errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tt.in)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParsePhaseType(t *testing.T) {
	for in, want := range map[string]PhaseType{"Solid": PhaseSolid, "s": PhaseSolid, "ION": PhaseIon, "aq": PhaseIon} {
		got, err := ParsePhaseType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePhaseType("plasma")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPhase))
}

func TestEnergiesAt_Broadcast(t *testing.T) {
	e := mustEntry(t, "Fe[2+]", "Fe[2+]", -0.8)

	got, err := EnergiesAt(e, []float64{0, 7, 14}, []float64{0.5})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, pH := range []float64{0, 7, 14} {
		assert.InDelta(t, e.EnergyAt(pH, 0.5), got[i], 1e-12)
	}

	norm, err := NormalizedEnergiesAt(e, []float64{3}, []float64{-1, 0, 1})
	require.NoError(t, err)
	assert.Len(t, norm, 3)

	_, err = EnergiesAt(e, []float64{1, 2}, []float64{1, 2, 3})
	assert.True(t, errors.IsCode(err, errors.ErrCodeVectorLengthMismatch))

	_, err = NormalizedEnergiesAt(e, nil, []float64{1, 2})
	assert.True(t, errors.IsCode(err, errors.ErrCodeVectorLengthMismatch))
}

func TestSingleEntry_CompositionIsCopy(t *testing.T) {
	e := mustEntry(t, "Fe2O3", "Fe2O3", -7.5)
	c := e.Composition()
	c["Fe"] = 99
	assert.Equal(t, 2.0, e.Composition().Get("Fe"))
}

//Personal.AI order the ending
