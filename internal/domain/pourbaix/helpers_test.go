package pourbaix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
)

func mustEntry(t *testing.T, name, formula string, energy float64) *SingleEntry {
	t.Helper()
	sp, err := chem.ParseFormula(formula)
	require.NoError(t, err)
	phase := PhaseSolid
	if sp.Ion {
		phase = PhaseIon
	}
	e, err := NewEntry(EntryInput{
		Name:        name,
		ID:          "id-" + name,
		Composition: sp.Composition,
		Phase:       phase,
		Charge:      sp.Charge,
		Energy:      energy,
	})
	require.NoError(t, err)
	return e
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

// grid returns points strictly inside w.
func grid(w Window, n int) [][2]float64 {
	var out [][2]float64
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			out = append(out, [2]float64{
				w.PHMin + (w.PHMax-w.PHMin)*float64(i)/float64(n),
				w.VMin + (w.VMax-w.VMin)*float64(j)/float64(n),
			})
		}
	}
	return out
}

//Personal.AI order the ending
