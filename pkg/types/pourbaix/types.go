// Package pourbaix defines the Data Transfer Objects exchanged between the
// entry source, the application service, the snapshot cache and the CLI.
// No domain logic lives here; only plain data types safe to import from any
// layer.
package pourbaix

import (
	"fmt"

	"github.com/turtacn/pourbaix-engine/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Entry documents
// ─────────────────────────────────────────────────────────────────────────────

// EntryRecord is one phase as written in an entry document.
type EntryRecord struct {
	// Name is optional; a name is derived from the formula when empty.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// EntryID is optional; the entry source assigns a UUID when empty.
	EntryID string `yaml:"entry_id,omitempty" json:"entry_id,omitempty"`

	// Formula such as "Fe2O3", "Fe[2+]", "HFeO2[-]" or "Fe(OH)2(aq)".
	Formula string `yaml:"formula" json:"formula"`

	// Energy is the formation energy relative to H2 and O2 gas, in eV.
	Energy float64 `yaml:"energy" json:"energy"`

	// Phase is "solid" or "ion". Inferred from Formula when empty.
	Phase string `yaml:"phase,omitempty" json:"phase,omitempty"`

	// Concentration applies to ions only. It is kept on the entry, but a
	// diagram assigns ion concentrations per element from
	// diagram.concentrations or --conc.
	Concentration float64 `yaml:"concentration,omitempty" json:"concentration,omitempty"`
}

// EntryDocument is the top-level shape of a YAML or JSON entry file.
type EntryDocument struct {
	Entries []EntryRecord `yaml:"entries" json:"entries"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Diagram snapshot
// ─────────────────────────────────────────────────────────────────────────────

// Window bounds the pH–V region of a diagram.
type Window struct {
	PHMin float64 `json:"ph_min" yaml:"ph_min"`
	PHMax float64 `json:"ph_max" yaml:"ph_max"`
	VMin  float64 `json:"v_min" yaml:"v_min"`
	VMax  float64 `json:"v_max" yaml:"v_max"`
}

// EntrySummary describes one processed entry.
type EntrySummary struct {
	Name             string    `json:"name"`
	EntryIDs         []string  `json:"entry_ids"`
	PhaseTypes       []string  `json:"phase_types"`
	Formula          string    `json:"formula"`
	Weights          []float64 `json:"weights,omitempty"`
	Energy           float64   `json:"energy"`
	NormalizedEnergy float64   `json:"normalized_energy"`
	NpH              float64   `json:"npH"`
	NPhi             float64   `json:"nPhi"`
	NH2O             float64   `json:"nH2O"`
	Stable           bool      `json:"stable"`
}

// Domain is the stability polygon of one stable entry.
type Domain struct {
	Entry    string       `json:"entry"`
	Vertices [][2]float64 `json:"vertices"`
	Center   [2]float64   `json:"center"`
	Area     float64      `json:"area"`
}

// WaterLine is a reference line V = Intercept − PREFAC·pH across the window.
type WaterLine struct {
	Name      string     `json:"name"`
	Intercept float64    `json:"intercept"`
	From      [2]float64 `json:"from"`
	To        [2]float64 `json:"to"`
}

// DiagramSnapshot is the serialisable result of one diagram construction.
type DiagramSnapshot struct {
	Key            string             `json:"key"`
	Elements       []string           `json:"elements"`
	CompDict       map[string]float64 `json:"comp_dict"`
	ConcDict       map[string]float64 `json:"conc_dict"`
	Window         Window             `json:"window"`
	MultiElement   bool               `json:"multi_element"`
	FilteredSolids bool               `json:"filtered_solids"`
	Entries        []EntrySummary     `json:"entries"`
	Domains        []Domain           `json:"domains"`
	WaterLines     []WaterLine        `json:"water_lines"`
	BuiltAt        common.Timestamp   `json:"built_at"`
	BuildMillis    int64              `json:"build_ms"`
}

// StableNames returns the names of the entries owning a domain.
func (s *DiagramSnapshot) StableNames() []string {
	out := make([]string, len(s.Domains))
	for i, d := range s.Domains {
		out[i] = d.Entry
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Query results
// ─────────────────────────────────────────────────────────────────────────────

// PointResult answers a query at one (pH, V) point.
type PointResult struct {
	PH         float64 `json:"pH"`
	V          float64 `json:"V"`
	Entry      string  `json:"entry,omitempty"`
	HullEnergy float64 `json:"hull_energy"`
	// Decomposition is set only for decomposition queries.
	Decomposition *float64 `json:"decomposition_energy,omitempty"`
}

// Quantity selects what a stability map evaluates.
type Quantity string

const (
	// QuantityDecomposition is the decomposition energy of one entry.
	QuantityDecomposition Quantity = "decomposition"
	// QuantityHull is the hull energy.
	QuantityHull Quantity = "hull"
)

// ParseQuantity accepts "decomposition" or "hull".
func ParseQuantity(s string) (Quantity, error) {
	switch q := Quantity(s); q {
	case QuantityDecomposition, QuantityHull:
		return q, nil
	}
	return "", fmt.Errorf("unknown quantity %q", s)
}

// StabilityMap is a quantity sampled on a regular pH×V mesh. Values[i][j]
// belongs to V[i] and PH[j].
type StabilityMap struct {
	Entry    string      `json:"entry,omitempty"`
	Quantity Quantity    `json:"quantity"`
	PH       []float64   `json:"pH"`
	V        []float64   `json:"V"`
	Values   [][]float64 `json:"values"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
}

//Personal.AI order the ending
