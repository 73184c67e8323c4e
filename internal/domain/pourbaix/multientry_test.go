package pourbaix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func TestMultiEntry_WeightedSums(t *testing.T) {
	fe2o3 := mustEntry(t, "Fe2O3(s)", "Fe2O3", -7.5)
	cr := mustEntry(t, "Cr[3+]", "Cr[3+]", -2.0)
	hcro4 := mustEntry(t, "HCrO4[-]", "HCrO4[-]", -7.9)

	components := []Entry{fe2o3, cr, hcro4}
	weights := []float64{1, 0.5, 2.25}
	m, err := NewMultiEntry(components, weights)
	require.NoError(t, err)

	attrs := map[string]func(Entry) float64{
		"energy":             Entry.Energy,
		"npH":                Entry.NpH,
		"nH2O":               Entry.NH2O,
		"nPhi":               Entry.NPhi,
		"conc_term":          Entry.ConcTerm,
		"uncorrected_energy": Entry.UncorrectedEnergy,
	}
	for name, f := range attrs {
		want := 0.0
		for i, c := range components {
			want += weights[i] * f(c)
		}
		assert.InDelta(t, want, f(m), 1e-12, name)
	}

	comp := m.Composition()
	assert.InDelta(t, 2.0, comp.Get("Fe"), 1e-12)
	assert.InDelta(t, 0.5+2.25, comp.Get("Cr"), 1e-12)
	assert.InDelta(t, 3+4*2.25, comp.Get("O"), 1e-12)
	assert.InDelta(t, 2.25, comp.Get("H"), 1e-12)
	assert.InDelta(t, 1/(2.0+2.75), m.NormalizationFactor(), 1e-12)

	assert.InDelta(t, m.Energy(), m.EnergyAt(0, 0), 1e-12)
	assert.InDelta(t, m.EnergyAt(3, -0.2)*m.NormalizationFactor(), m.NormalizedEnergyAt(3, -0.2), 1e-12)
}

func TestMultiEntry_Identity(t *testing.T) {
	fe := mustEntry(t, "Fe(s)", "Fe", 0)
	cr := mustEntry(t, "Cr[3+]", "Cr[3+]", -2.0)

	m, err := NewMultiEntry([]Entry{fe, cr}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Fe(s) + Cr[3+]", m.Name())
	assert.Equal(t, []string{"id-Fe(s)", "id-Cr[3+]"}, m.EntryIDs())
	assert.Equal(t, []PhaseType{PhaseSolid, PhaseIon}, m.PhaseTypes())
	assert.Equal(t, []float64{1, 1}, m.Weights())
	assert.Len(t, m.Components(), 2)
	assert.Equal(t, 1, countPhase(m, PhaseSolid))
	assert.Contains(t, m.String(), "Fe(s)")
}

func TestMultiEntry_ComponentsAreShared(t *testing.T) {
	fe := mustEntry(t, "Fe(s)", "Fe", 0)
	m, err := NewMultiEntry([]Entry{fe}, []float64{2})
	require.NoError(t, err)
	assert.Same(t, fe, m.Components()[0].(*SingleEntry))
}

func TestNewMultiEntry_Errors(t *testing.T) {
	_, err := NewMultiEntry(nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoEntries))

	fe := mustEntry(t, "Fe(s)", "Fe", 0)
	_, err = NewMultiEntry([]Entry{fe}, []float64{1, 2})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

//Personal.AI order the ending
