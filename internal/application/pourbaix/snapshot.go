package pourbaix

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	domain "github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	"github.com/turtacn/pourbaix-engine/pkg/types/common"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

// keyEntry is the part of an entry that affects a diagram.
type keyEntry struct {
	Name          string             `json:"n"`
	ID            string             `json:"i"`
	Composition   map[string]float64 `json:"c"`
	Phase         string             `json:"p"`
	Charge        float64            `json:"q"`
	Energy        float64            `json:"e"`
	Concentration float64            `json:"x"`
}

type keyDocument struct {
	Entries      []keyEntry         `json:"entries"`
	CompDict     map[string]float64 `json:"comp"`
	ConcDict     map[string]float64 `json:"conc"`
	Window       domain.Window      `json:"window"`
	FilterSolids bool               `json:"filter"`
}

// RequestKey returns the hex SHA-256 of a canonical encoding of req. Entry
// order is part of the key because it decides ties between phases.
func RequestKey(req *BuildRequest) (string, error) {
	doc := keyDocument{
		Entries:      make([]keyEntry, len(req.Entries)),
		CompDict:     req.CompDict,
		ConcDict:     req.ConcDict,
		Window:       req.Window,
		FilterSolids: req.FilterSolids,
	}
	for i, e := range req.Entries {
		doc.Entries[i] = keyEntry{
			Name:          e.Name(),
			ID:            e.ID(),
			Composition:   e.Composition(),
			Phase:         string(e.Phase()),
			Charge:        e.Charge(),
			Energy:        e.UncorrectedEnergy(),
			Concentration: e.Concentration(),
		}
	}
	// encoding/json sorts map keys, which makes the encoding canonical.
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode build request")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// NewSnapshot converts a built diagram into its serialisable view.
func NewSnapshot(d *domain.Diagram, key string, took time.Duration) *ptypes.DiagramSnapshot {
	stable := make(map[domain.Entry]bool)
	for _, e := range d.StableEntries() {
		stable[e] = true
	}

	w := d.Window()
	snap := &ptypes.DiagramSnapshot{
		Key:            key,
		Elements:       d.Elements(),
		CompDict:       d.CompDict(),
		ConcDict:       d.ConcDict(),
		Window:         ptypes.Window{PHMin: w.PHMin, PHMax: w.PHMax, VMin: w.VMin, VMax: w.VMax},
		MultiElement:   d.IsMultiElement(),
		FilteredSolids: d.FilteredSolids(),
		BuiltAt:        common.NewTimestamp(),
		BuildMillis:    took.Milliseconds(),
	}

	for _, e := range d.AllEntries() {
		snap.Entries = append(snap.Entries, summarize(e, stable[e]))
	}
	for _, dom := range d.Domains() {
		snap.Domains = append(snap.Domains, ptypes.Domain{
			Entry:    dom.Entry.Name(),
			Vertices: dom.Vertices,
			Center:   dom.Center(),
			Area:     dom.Area(),
		})
	}
	for _, wl := range domain.WaterLines(w) {
		snap.WaterLines = append(snap.WaterLines, ptypes.WaterLine{
			Name:      wl.Name,
			Intercept: wl.Intercept,
			From:      wl.From,
			To:        wl.To,
		})
	}
	return snap
}

func summarize(e domain.Entry, stable bool) ptypes.EntrySummary {
	phases := e.PhaseTypes()
	s := ptypes.EntrySummary{
		Name:             e.Name(),
		EntryIDs:         e.EntryIDs(),
		PhaseTypes:       make([]string, len(phases)),
		Formula:          e.Composition().Formula(),
		Energy:           e.Energy(),
		NormalizedEnergy: e.NormalizedEnergy(),
		NpH:              e.NpH(),
		NPhi:             e.NPhi(),
		NH2O:             e.NH2O(),
		Stable:           stable,
	}
	for i, p := range phases {
		s.PhaseTypes[i] = string(p)
	}
	if m, ok := e.(*domain.MultiEntry); ok {
		s.Weights = m.Weights()
	}
	return s
}

//Personal.AI order the ending
