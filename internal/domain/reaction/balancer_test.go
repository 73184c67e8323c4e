package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func comp(t *testing.T, formula string) chem.Composition {
	t.Helper()
	sp, err := chem.ParseFormula(formula)
	require.NoError(t, err)
	return sp.Composition
}

func TestLinearBalancer_Balance(t *testing.T) {
	b := NewLinearBalancer()

	tests := []struct {
		name      string
		reactants []string
		product   chem.Composition
		want      []float64
	}{
		{"single element ion", []string{"Fe[2+]"}, chem.Composition{"Fe": 1}, []float64{1}},
		{"hydroxide ignores H and O", []string{"Fe(OH)3"}, chem.Composition{"Fe": 1}, []float64{1}},
		{"binary oxides", []string{"Fe2O3", "Cr2O3"}, chem.Composition{"Fe": 0.5, "Cr": 0.5}, []float64{0.25, 0.25}},
		{"uneven split", []string{"Fe[3+]", "CrO4[2-]"}, chem.Composition{"Fe": 0.25, "Cr": 0.75}, []float64{0.25, 0.75}},
		{"spinel and oxide", []string{"FeCr2O4", "Fe2O3"}, chem.Composition{"Fe": 1, "Cr": 1}, []float64{0.5, 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reactants := make([]chem.Composition, len(tt.reactants))
			for i, f := range tt.reactants {
				reactants[i] = comp(t, f)
			}
			got, err := b.Balance(reactants, tt.product)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestLinearBalancer_Unbalanceable(t *testing.T) {
	b := NewLinearBalancer()

	tests := []struct {
		name      string
		reactants []string
		product   chem.Composition
	}{
		{"underdetermined", []string{"Fe", "Fe2O3"}, chem.Composition{"Fe": 1}},
		{"fixed ratio mismatch", []string{"FeCr2O4"}, chem.Composition{"Fe": 0.5, "Cr": 0.5}},
		{"missing element", []string{"Fe"}, chem.Composition{"Fe": 0.5, "Cr": 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reactants := make([]chem.Composition, len(tt.reactants))
			for i, f := range tt.reactants {
				reactants[i] = comp(t, f)
			}
			_, err := b.Balance(reactants, tt.product)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnbalanceable)
			assert.True(t, errors.IsCode(err, errors.ErrCodeReactionUnbalanceable))
		})
	}
}

func TestLinearBalancer_InvalidInput(t *testing.T) {
	b := &LinearBalancer{}

	_, err := b.Balance(nil, chem.Composition{"Fe": 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeReactionInvalid))

	_, err = b.Balance([]chem.Composition{{"H": 2, "O": 1}}, chem.Composition{"H": 2, "O": 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeReactionInvalid))
}

func TestLinearBalancer_ExtraReactantElementGetsZero(t *testing.T) {
	got, err := NewLinearBalancer().Balance(
		[]chem.Composition{{"Fe": 1}, {"Ni": 1}},
		chem.Composition{"Fe": 1},
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got[0], 1e-9)
	assert.InDelta(t, 0.0, got[1], 1e-9)
}

//Personal.AI order the ending
