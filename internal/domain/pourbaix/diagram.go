package pourbaix

import (
	"fmt"
	"math"
	"sort"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/internal/domain/phasediagram"
	"github.com/turtacn/pourbaix-engine/internal/domain/reaction"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Reference energies of the elemental H and O phases used when screening
// solids against the compositional hull. O sits at 2.46 eV because entry
// energies are referenced to water.
const (
	hydrogenReferenceEnergy = 0.0
	oxygenReferenceEnergy   = 2.46
)

// Options configures NewDiagram.
type Options struct {
	CompDict     map[string]float64
	ConcDict     map[string]float64
	FilterSolids bool
	Window       Window
	Balancer     reaction.Balancer
	Oracle       phasediagram.Oracle
	Observer     GenerationObserver
}

// Option mutates Options.
type Option func(*Options)

// WithCompDict sets the element fractions of the overall composition.
func WithCompDict(comp map[string]float64) Option {
	return func(o *Options) { o.CompDict = comp }
}

// WithConcDict sets per-element ion concentrations.
func WithConcDict(conc map[string]float64) Option {
	return func(o *Options) { o.ConcDict = conc }
}

// WithFilterSolids drops solids that are unstable on the compositional phase
// diagram before any domain is built. This can remove phases that matter near
// the water oxidation and reduction lines.
func WithFilterSolids(filter bool) Option {
	return func(o *Options) { o.FilterSolids = filter }
}

// WithWindow sets the pH–V window.
func WithWindow(w Window) Option {
	return func(o *Options) { o.Window = w }
}

// WithBalancer replaces the default reaction balancer.
func WithBalancer(b reaction.Balancer) Option {
	return func(o *Options) {
		if b != nil {
			o.Balancer = b
		}
	}
}

// WithOracle replaces the default compositional stability oracle.
func WithOracle(oracle phasediagram.Oracle) Option {
	return func(o *Options) {
		if oracle != nil {
			o.Oracle = oracle
		}
	}
}

// WithObserver registers a receiver for multi-entry generation statistics.
func WithObserver(obs GenerationObserver) Option {
	return func(o *Options) { o.Observer = obs }
}

// Diagram is an immutable Pourbaix diagram. All methods are safe for
// concurrent use.
type Diagram struct {
	unprocessed  []*SingleEntry
	preprocessed []*SingleEntry
	processed    []Entry
	domains      []Domain
	stableIndex  map[Entry]int

	elements     []string
	compDict     map[string]float64
	concDict     map[string]float64
	multiElement bool
	filtered     bool
	window       Window
	generator    *Generator
}

// NewDiagram builds a diagram from entries. The entries are copied; ion
// copies receive the concentration of their element scaled by their
// normalization factor.
func NewDiagram(entries []*SingleEntry, opts ...Option) (*Diagram, error) {
	o := Options{Window: DefaultWindow()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeNoEntries, "no entries supplied")
	}
	if err := o.Window.Validate(); err != nil {
		return nil, err
	}

	elements := pourbaixElements(entries)
	compDict := o.CompDict
	if len(compDict) == 0 {
		compDict = make(map[string]float64, len(elements))
		for _, el := range elements {
			compDict[el] = 1 / float64(len(elements))
		}
	}
	concDict := o.ConcDict
	if len(concDict) == 0 {
		concDict = make(map[string]float64, len(elements))
		for _, el := range elements {
			concDict[el] = DefaultIonConcentration
		}
	}

	d := &Diagram{
		elements: elements,
		compDict: copyMap(compDict),
		concDict: copyMap(concDict),
		window:   o.Window,
		filtered: o.FilterSolids,
	}

	var solids, ions []*SingleEntry
	for _, e := range entries {
		if e == nil || !e.phase.IsValid() {
			return nil, errors.New(errors.ErrCodeInvalidPhase, "all entries must have a phase type of Solid or Ion")
		}
		switch e.phase {
		case PhaseSolid:
			c := *e
			solids = append(solids, &c)
			d.unprocessed = append(d.unprocessed, &c)
		case PhaseIon:
			ionElements := e.composition.Without("H", "O").Elements()
			if len(ionElements) != 1 {
				return nil, errors.New(errors.ErrCodeMultiElementIon, "elemental concentration not compatible with multi-element ions").
					WithDetail("entry=" + e.name)
			}
			conc, ok := concDict[ionElements[0]]
			if !ok || conc <= 0 {
				conc = DefaultIonConcentration
			}
			c := e.withConcentration(conc * e.NormalizationFactor())
			ions = append(ions, c)
			d.unprocessed = append(d.unprocessed, c)
		}
	}

	if o.FilterSolids && len(solids) > 0 {
		oracle := o.Oracle
		if oracle == nil {
			oracle = phasediagram.NewHullOracle()
		}
		kept, err := filterSolids(oracle, solids)
		if err != nil {
			return nil, err
		}
		solids = kept
	}

	d.preprocessed = append(append([]*SingleEntry(nil), solids...), ions...)
	if len(compDict) > 1 {
		d.multiElement = true
		d.generator = NewGenerator(chem.NewComposition(compDict), o.Balancer, o.Observer)
		multi, err := d.generator.Generate(d.preprocessed, nil)
		if err != nil {
			return nil, err
		}
		if len(multi) == 0 {
			return nil, errors.New(errors.ErrCodeNoEntries, "no balanced multi-element combination reaches the target composition")
		}
		for _, m := range multi {
			d.processed = append(d.processed, m)
		}
	} else {
		for _, e := range d.preprocessed {
			d.processed = append(d.processed, e)
		}
	}
	if len(d.processed) == 0 {
		return nil, errors.New(errors.ErrCodeNoEntries, "no entries left after filtering")
	}

	domains, err := BuildDomains(d.processed, d.window)
	if err != nil {
		return nil, err
	}
	d.domains = domains
	d.stableIndex = make(map[Entry]int, len(domains))
	for i, dom := range domains {
		d.stableIndex[dom.Entry] = i
	}
	return d, nil
}

func pourbaixElements(entries []*SingleEntry) []string {
	set := map[string]struct{}{}
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, el := range e.composition.Without("H", "O").Elements() {
			set[el] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for el := range set {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

func filterSolids(oracle phasediagram.Oracle, solids []*SingleEntry) ([]*SingleEntry, error) {
	candidates := make([]phasediagram.Candidate, 0, len(solids)+2)
	for _, s := range solids {
		candidates = append(candidates, phasediagram.Candidate{
			Name:        s.name,
			Composition: s.composition,
			Energy:      s.Energy(),
		})
	}
	candidates = append(candidates,
		phasediagram.Candidate{Name: "H", Composition: chem.Composition{"H": 1}, Energy: hydrogenReferenceEnergy},
		phasediagram.Candidate{Name: "O", Composition: chem.Composition{"O": 1}, Energy: oxygenReferenceEnergy},
	)
	stable, err := oracle.Stable(candidates)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "filtering solids")
	}
	if len(stable) != len(candidates) {
		return nil, errors.Newf(errors.ErrCodePhaseDiagramSolver, "oracle returned %d verdicts for %d candidates", len(stable), len(candidates))
	}
	var kept []*SingleEntry
	for i, s := range solids {
		if stable[i] {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Elements returns the non-H/O elements of the input entries.
func (d *Diagram) Elements() []string { return append([]string(nil), d.elements...) }

// CompDict returns the element fractions of the overall composition.
func (d *Diagram) CompDict() map[string]float64 { return copyMap(d.compDict) }

// ConcDict returns the per-element ion concentrations.
func (d *Diagram) ConcDict() map[string]float64 { return copyMap(d.concDict) }

// IsMultiElement reports whether the diagram was built from MultiEntries.
func (d *Diagram) IsMultiElement() bool { return d.multiElement }

// FilteredSolids reports whether solids were screened by the compositional hull.
func (d *Diagram) FilteredSolids() bool { return d.filtered }

// Window returns the diagram's pH–V window.
func (d *Diagram) Window() Window { return d.window }

// UnprocessedEntries returns copies of the input entries, ions carrying their
// assigned concentration.
func (d *Diagram) UnprocessedEntries() []*SingleEntry {
	return append([]*SingleEntry(nil), d.unprocessed...)
}

// AllEntries returns the processed entries domains were built from.
func (d *Diagram) AllEntries() []Entry { return append([]Entry(nil), d.processed...) }

// StableEntries returns the entries owning a domain, in processed order.
func (d *Diagram) StableEntries() []Entry {
	out := make([]Entry, len(d.domains))
	for i, dom := range d.domains {
		out[i] = dom.Entry
	}
	return out
}

// UnstableEntries returns the processed entries that own no domain.
func (d *Diagram) UnstableEntries() []Entry {
	var out []Entry
	for _, e := range d.processed {
		if _, ok := d.stableIndex[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// Domains returns the stable domains in processed order.
func (d *Diagram) Domains() []Domain { return append([]Domain(nil), d.domains...) }

// DomainVertices returns the ordered polygon of e.
func (d *Diagram) DomainVertices(e Entry) ([][2]float64, bool) {
	i, ok := d.stableIndex[e]
	if !ok {
		return nil, false
	}
	return append([][2]float64(nil), d.domains[i].Vertices...), true
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// FindStableEntry returns the stable entry of lowest normalised energy at
// (pH, V). On exact ties the entry that comes first in StableEntries wins.
func (d *Diagram) FindStableEntry(pH, V float64) Entry {
	var best Entry
	bestEnergy := math.Inf(1)
	for _, dom := range d.domains {
		if g := dom.Entry.NormalizedEnergyAt(pH, V); g < bestEnergy {
			best, bestEnergy = dom.Entry, g
		}
	}
	return best
}

// HullEnergy returns the minimum normalised energy over stable entries.
func (d *Diagram) HullEnergy(pH, V float64) float64 {
	lowest := math.Inf(1)
	for _, dom := range d.domains {
		lowest = math.Min(lowest, dom.Entry.NormalizedEnergyAt(pH, V))
	}
	return lowest
}

// HullEnergies is HullEnergy evaluated elementwise; a length-1 slice is
// broadcast against the other.
func (d *Diagram) HullEnergies(pH, V []float64) ([]float64, error) {
	n, err := broadcastLen(pH, V)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.HullEnergy(at(pH, i), at(V, i))
	}
	return out, nil
}

// DecompositionEnergy returns how far e lies above the hull at (pH, V), per
// non-H/O atom. For multi-element diagrams a single entry is first combined
// with the other phases into every balanced mixture containing exactly one
// solid, and the lowest such mixture is compared.
func (d *Diagram) DecompositionEnergy(e Entry, pH, V float64) (float64, error) {
	out, err := d.DecompositionEnergies(e, []float64{pH}, []float64{V})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// DecompositionEnergies is DecompositionEnergy evaluated elementwise.
func (d *Diagram) DecompositionEnergies(e Entry, pH, V []float64) ([]float64, error) {
	if e == nil {
		return nil, errors.InvalidParam("entry is nil")
	}
	n, err := broadcastLen(pH, V)
	if err != nil {
		return nil, err
	}
	candidates, err := d.decompositionCandidates(e)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		p, v := at(pH, i), at(V, i)
		lowest := math.Inf(1)
		for _, c := range candidates {
			lowest = math.Min(lowest, c.NormalizedEnergyAt(p, v))
		}
		out[i] = lowest - d.HullEnergy(p, v)
	}
	return out, nil
}

func (d *Diagram) decompositionCandidates(e Entry) ([]Entry, error) {
	single, ok := e.(*SingleEntry)
	if !d.multiElement || !ok {
		return []Entry{e}, nil
	}
	multi, err := d.generator.Generate(d.preprocessed, []*SingleEntry{single})
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, m := range multi {
		if countPhase(m, PhaseSolid) == 1 {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNoDecomposition, "no decomposition products found").
			WithDetail(fmt.Sprintf("entry=%s", e.Name()))
	}
	return out, nil
}

// FindEntry returns the processed entry whose name or any entry id equals key.
func (d *Diagram) FindEntry(key string) (Entry, error) {
	for _, e := range d.processed {
		if e.Name() == key {
			return e, nil
		}
	}
	for _, e := range d.unprocessed {
		if e.name == key || (e.id != "" && e.id == key) {
			return e, nil
		}
	}
	return nil, errors.New(errors.ErrCodeEntryNotFound, "entry not found").WithDetail("key=" + key)
}

//Personal.AI order the ending
