package phasediagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func feOCandidates() []Candidate {
	return []Candidate{
		{Name: "Fe", Composition: chem.Composition{"Fe": 1}, Energy: 0},
		{Name: "O", Composition: chem.Composition{"O": 1}, Energy: 0},
		{Name: "FeO", Composition: chem.Composition{"Fe": 1, "O": 1}, Energy: -1.0},
		{Name: "Fe2O", Composition: chem.Composition{"Fe": 2, "O": 1}, Energy: -0.6},
		{Name: "FeO-hi", Composition: chem.Composition{"Fe": 2, "O": 2}, Energy: -1.5},
	}
}

func TestHullOracle_HullEnergy(t *testing.T) {
	o := NewHullOracle()
	cands := feOCandidates()

	e, err := o.HullEnergy(cands, chem.Composition{"Fe": 1, "O": 1})
	require.NoError(t, err)
	assert.InDelta(t, -0.5, e, 1e-8)

	e, err = o.HullEnergy(cands, chem.Composition{"Fe": 2, "O": 1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0/3.0, e, 1e-8)

	e, err = o.HullEnergy(cands, chem.Composition{"Fe": 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, e, 1e-8)
}

func TestHullOracle_Stable(t *testing.T) {
	got, err := NewHullOracle().Stable(feOCandidates())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false, false}, got)
}

func TestHullOracle_EnergyAboveHull(t *testing.T) {
	cands := feOCandidates()
	e, err := NewHullOracle().EnergyAboveHull(cands, cands[3])
	require.NoError(t, err)
	assert.InDelta(t, -0.2+1.0/3.0, e, 1e-8)
}

func TestHullOracle_Errors(t *testing.T) {
	o := &HullOracle{}

	_, err := o.Stable(nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodePhaseDiagramEmpty))

	_, err = o.HullEnergy(feOCandidates(), chem.Composition{"Cr": 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodePhaseDiagramSolver))
}

func TestIndependentRows(t *testing.T) {
	rows := [][]float64{
		{1, 0, 0},
		{2, 0, 0},
		{0, 0, 0},
		{0, 1, 1},
		{1, 1, 1},
	}
	assert.Equal(t, []int{0, 3}, independentRows(rows))
}

//Personal.AI order the ending
