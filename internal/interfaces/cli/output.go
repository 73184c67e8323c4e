package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

func ff(x float64) string { return strconv.FormatFloat(x, 'f', 4, 64) }

// domainsView renders the stable domains of a snapshot.
type domainsView struct {
	snap *ptypes.DiagramSnapshot
}

func (v domainsView) TableHeaders() []string {
	return []string{"ENTRY", "AREA", "CENTER_PH", "CENTER_V", "VERTICES"}
}

func (v domainsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.snap.Domains))
	for _, d := range v.snap.Domains {
		rows = append(rows, []string{d.Entry, ff(d.Area), ff(d.Center[0]), ff(d.Center[1]), strconv.Itoa(len(d.Vertices))})
	}
	return rows
}

func (v domainsView) String() string {
	var sb strings.Builder
	w := v.snap.Window
	fmt.Fprintf(&sb, "elements: %s  window: pH [%g, %g]  V [%g, %g]\n",
		strings.Join(v.snap.Elements, ","), w.PHMin, w.PHMax, w.VMin, w.VMax)
	fmt.Fprintf(&sb, "%d stable of %d entries\n", len(v.snap.Domains), len(v.snap.Entries))
	for _, d := range v.snap.Domains {
		fmt.Fprintf(&sb, "  %-32s area %8s  center (%s, %s)\n", d.Entry, ff(d.Area), ff(d.Center[0]), ff(d.Center[1]))
	}
	return sb.String()
}

// entriesView renders processed entries.
type entriesView struct {
	Entries []ptypes.EntrySummary
}

func (v entriesView) TableHeaders() []string {
	return []string{"NAME", "PHASES", "ENERGY", "NPH", "NPHI", "NH2O", "STABLE"}
}

func (v entriesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		rows = append(rows, []string{
			e.Name, strings.Join(e.PhaseTypes, "+"), ff(e.Energy),
			ff(e.NpH), ff(e.NPhi), ff(e.NH2O), strconv.FormatBool(e.Stable),
		})
	}
	return rows
}

func (v entriesView) String() string {
	var sb strings.Builder
	for _, e := range v.Entries {
		mark := " "
		if e.Stable {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %-32s %s\n", mark, e.Name, ff(e.Energy))
	}
	return sb.String()
}

// pointView renders a point query.
type pointView struct {
	res *ptypes.PointResult
}

func (v pointView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.res)
}

func (v pointView) TableHeaders() []string {
	h := []string{"PH", "V", "ENTRY", "HULL_ENERGY"}
	if v.res.Decomposition != nil {
		h = append(h, "DECOMPOSITION_ENERGY")
	}
	return h
}

func (v pointView) TableRows() [][]string {
	row := []string{ff(v.res.PH), ff(v.res.V), v.res.Entry, ff(v.res.HullEnergy)}
	if v.res.Decomposition != nil {
		row = append(row, ff(*v.res.Decomposition))
	}
	return [][]string{row}
}

func (v pointView) String() string {
	if v.res.Decomposition != nil {
		return fmt.Sprintf("%s at pH %g, V %g: decomposition energy %s eV/atom\n",
			v.res.Entry, v.res.PH, v.res.V, ff(*v.res.Decomposition))
	}
	return fmt.Sprintf("%s at pH %g, V %g (hull energy %s eV/atom)\n",
		v.res.Entry, v.res.PH, v.res.V, ff(v.res.HullEnergy))
}

// mapView renders a stability map as a V×pH grid, highest V first.
type mapView struct {
	m *ptypes.StabilityMap
}

func (v mapView) TableHeaders() []string {
	h := make([]string, 0, len(v.m.PH)+1)
	h = append(h, "V\\PH")
	for _, p := range v.m.PH {
		h = append(h, strconv.FormatFloat(p, 'g', 4, 64))
	}
	return h
}

func (v mapView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.m.V))
	for i := len(v.m.V) - 1; i >= 0; i-- {
		row := make([]string, 0, len(v.m.PH)+1)
		row = append(row, strconv.FormatFloat(v.m.V[i], 'g', 4, 64))
		for _, x := range v.m.Values[i] {
			row = append(row, ff(x))
		}
		rows = append(rows, row)
	}
	return rows
}

func (v mapView) String() string {
	subject := "hull energy"
	if v.m.Entry != "" {
		subject = v.m.Entry + " " + string(v.m.Quantity) + " energy"
	}
	return fmt.Sprintf("%s on %d×%d mesh: min %s max %s eV/atom\n",
		subject, len(v.m.PH), len(v.m.V), ff(v.m.Min), ff(v.m.Max))
}

//Personal.AI order the ending
