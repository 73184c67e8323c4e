package pourbaix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

func TestWindow_Validate(t *testing.T) {
	assert.NoError(t, DefaultWindow().Validate())

	bad := []Window{
		{PHMin: 16, PHMax: -2, VMin: -4, VMax: 4},
		{PHMin: 0, PHMax: 14, VMin: 1, VMax: 1},
	}
	for _, w := range bad {
		assert.True(t, errors.IsCode(w.Validate(), errors.ErrCodeInvalidWindow), "%+v", w)
	}
	assert.InDelta(t, 144.0, DefaultWindow().Area(), 1e-12)
}

// A pH- and V-independent phase owns the whole window.
func TestBuildDomains_SingleFlatEntry(t *testing.T) {
	for _, energy := range []float64{-1, 0, 2.5} {
		fe := mustEntry(t, "Fe(s)", "Fe", energy)
		domains, err := BuildDomains([]Entry{fe}, DefaultWindow())
		require.NoError(t, err)
		require.Len(t, domains, 1)

		d := domains[0]
		assert.Same(t, fe, d.Entry.(*SingleEntry))
		assert.Len(t, d.Vertices, 4)
		assert.InDelta(t, 144.0, d.Area(), 1e-6)
		assert.Len(t, d.Simplices, 2)
		center := d.Center()
		assert.InDelta(t, 7.0, center[0], 1e-6)
		assert.InDelta(t, 0.0, center[1], 1e-6)
	}
}

// Two phases with opposite npH split the window along V = −PREFAC·pH.
func TestBuildDomains_DiagonalBoundary(t *testing.T) {
	hydride := mustEntry(t, "FeH2(s)", "FeH2", 0)
	oxide := mustEntry(t, "FeO(s)", "FeO", MuH2O)
	require.InDelta(t, 0.0, oxide.Energy(), 1e-12)
	require.InDelta(t, -hydride.NpH(), oxide.NpH(), 1e-12)

	domains, err := BuildDomains([]Entry{hydride, oxide}, DefaultWindow())
	require.NoError(t, err)
	require.Len(t, domains, 2)

	below, above := domains[0], domains[1]
	assert.Same(t, hydride, below.Entry.(*SingleEntry))

	wantBelow := 18 * ((4 + 2*PREFAC) + (4 - 16*PREFAC)) / 2
	assert.InDelta(t, wantBelow, below.Area(), 1e-6)
	assert.InDelta(t, 144-wantBelow, above.Area(), 1e-6)

	for _, v := range below.Vertices {
		assert.LessOrEqual(t, v[1], -PREFAC*v[0]+1e-7)
	}
	for _, v := range above.Vertices {
		assert.GreaterOrEqual(t, v[1], -PREFAC*v[0]-1e-7)
	}
	assert.True(t, below.Contains(7, -1))
	assert.False(t, below.Contains(7, 1))
	assert.True(t, above.Contains(7, 1))
}

func TestBuildDomains_NeverLowestIsUnstable(t *testing.T) {
	low := mustEntry(t, "Fe(s)", "Fe", -1)
	high := mustEntry(t, "Fe-hi(s)", "Fe", 1)
	domains, err := BuildDomains([]Entry{low, high}, DefaultWindow())
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Same(t, low, domains[0].Entry.(*SingleEntry))
}

func TestBuildDomains_CoincidentPlanesFirstWins(t *testing.T) {
	a := mustEntry(t, "Fe-a(s)", "Fe", -1)
	b := mustEntry(t, "Fe-b(s)", "Fe", -1)
	domains, err := BuildDomains([]Entry{a, b}, DefaultWindow())
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "Fe-a(s)", domains[0].Entry.Name())
}

func TestBuildDomains_EdgeTouchIsUnstable(t *testing.T) {
	// Three planes through V = 0; the middle one only touches the envelope there.
	metal := mustEntry(t, "Fe(s)", "Fe", 0)
	middle := mustEntry(t, "Fe[+]", "Fe[+]", -PREFAC*-6)
	ion := mustEntry(t, "Fe[2+]", "Fe[2+]", -PREFAC*-6)
	require.InDelta(t, 0.0, middle.Energy(), 1e-12)

	domains, err := BuildDomains([]Entry{metal, middle, ion}, DefaultWindow())
	require.NoError(t, err)
	got := make([]string, len(domains))
	for i, d := range domains {
		got[i] = d.Entry.Name()
	}
	assert.Equal(t, []string{"Fe(s)", "Fe[2+]"}, got)
}

func TestBuildDomains_Errors(t *testing.T) {
	_, err := BuildDomains(nil, DefaultWindow())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoEntries))

	fe := mustEntry(t, "Fe(s)", "Fe", 0)
	_, err = BuildDomains([]Entry{fe}, Window{PHMin: 1, PHMax: 0, VMin: 0, VMax: 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidWindow))
}

func TestWaterLines(t *testing.T) {
	lines := WaterLines(DefaultWindow())
	require.Len(t, lines, 2)
	assert.Equal(t, "H2/H2O", lines[0].Name)
	assert.InDelta(t, 2*PREFAC, lines[0].From[1], 1e-12)
	assert.InDelta(t, 1.23-16*PREFAC, lines[1].To[1], 1e-12)
}

//Personal.AI order the ending
