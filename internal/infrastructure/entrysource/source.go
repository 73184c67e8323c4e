// Package entrysource reads candidate phases from YAML or JSON entry
// documents and turns them into Pourbaix entries.
package entrysource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/pourbaix-engine/internal/domain/chem"
	"github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	"github.com/turtacn/pourbaix-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
	"github.com/turtacn/pourbaix-engine/pkg/types/common"
	ptypes "github.com/turtacn/pourbaix-engine/pkg/types/pourbaix"
)

// Format is the encoding of an entry document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat maps a file extension to a Format. Unknown extensions are
// read as YAML, which also accepts JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Loader converts entry documents into entries.
type Loader struct {
	log   logging.Logger
	newID func() string
}

// Option configures a Loader.
type Option func(*Loader)

// WithIDGenerator replaces the UUID generator used for records without an
// entry_id.
func WithIDGenerator(gen func() string) Option {
	return func(l *Loader) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// NewLoader creates a Loader. A nil log discards output.
func NewLoader(log logging.Logger, opts ...Option) *Loader {
	if log == nil {
		log = logging.NewNopLogger()
	}
	l := &Loader{
		log:   log.Named("entrysource"),
		newID: func() string { return string(common.NewID()) },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads the document at path. The format follows the extension.
func (l *Loader) LoadFile(path string) ([]*pourbaix.SingleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "failed to read entry document").WithDetail("path=" + path)
	}
	entries, err := l.Load(bytes.NewReader(data), DetectFormat(path))
	if err != nil {
		return nil, err
	}
	l.log.Info("entries loaded", logging.String("path", path), logging.Int("count", len(entries)))
	return entries, nil
}

// Load decodes a document from r and converts its records.
func (l *Loader) Load(r io.Reader, format Format) ([]*pourbaix.SingleEntry, error) {
	doc, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return l.Convert(doc)
}

// Decode parses an entry document without interpreting its records.
func Decode(r io.Reader, format Format) (ptypes.EntryDocument, error) {
	var doc ptypes.EntryDocument
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return doc, errors.Wrap(err, errors.ErrCodeSerialization, "invalid JSON entry document")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return doc, errors.Wrap(err, errors.ErrCodeSerialization, "invalid YAML entry document")
		}
	default:
		return doc, errors.New(errors.ErrCodeBadRequest, "unsupported entry document format").
			WithDetail("format=" + string(format))
	}
	return doc, nil
}

// Convert validates every record of doc and builds the entries in document
// order.
func (l *Loader) Convert(doc ptypes.EntryDocument) ([]*pourbaix.SingleEntry, error) {
	if len(doc.Entries) == 0 {
		return nil, errors.New(errors.ErrCodeNoEntries, "entry document has no entries")
	}

	seen := make(map[string]int, len(doc.Entries))
	out := make([]*pourbaix.SingleEntry, 0, len(doc.Entries))
	for i, rec := range doc.Entries {
		if rec.EntryID != "" {
			if prev, dup := seen[rec.EntryID]; dup {
				return nil, errors.NewValidationError(fmt.Sprintf("entries[%d].entry_id", i),
					fmt.Sprintf("duplicate entry_id %q, first used by entries[%d]", rec.EntryID, prev))
			}
			seen[rec.EntryID] = i
		}
		e, err := l.convertRecord(rec)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("entries[%d] is invalid", i)).
				WithDetail("formula=" + rec.Formula)
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *Loader) convertRecord(rec ptypes.EntryRecord) (*pourbaix.SingleEntry, error) {
	sp, err := chem.ParseFormula(rec.Formula)
	if err != nil {
		return nil, err
	}

	phase := pourbaix.PhaseSolid
	if sp.Ion {
		phase = pourbaix.PhaseIon
	}
	if rec.Phase != "" {
		if phase, err = pourbaix.ParsePhaseType(rec.Phase); err != nil {
			return nil, err
		}
	}
	if phase == pourbaix.PhaseSolid && sp.Charge != 0 {
		return nil, errors.New(errors.ErrCodeChargeInvalid, "solid entries cannot carry a charge")
	}
	if phase == pourbaix.PhaseSolid && rec.Concentration != 0 {
		l.log.Debug("concentration ignored for solid", logging.String("formula", rec.Formula))
	}
	if phase == pourbaix.PhaseIon && rec.Concentration != 0 {
		l.log.Debug("record concentration superseded by element concentrations",
			logging.String("formula", rec.Formula),
			logging.Float64("concentration", rec.Concentration),
		)
	}

	id := rec.EntryID
	if id == "" {
		id = l.newID()
	}
	return pourbaix.NewEntry(pourbaix.EntryInput{
		Name:          rec.Name,
		ID:            id,
		Composition:   sp.Composition,
		Phase:         phase,
		Charge:        sp.Charge,
		Energy:        rec.Energy,
		Concentration: rec.Concentration,
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Encoding
// ─────────────────────────────────────────────────────────────────────────────

// Records converts entries back into document records.
func Records(entries []*pourbaix.SingleEntry) ptypes.EntryDocument {
	doc := ptypes.EntryDocument{Entries: make([]ptypes.EntryRecord, len(entries))}
	for i, e := range entries {
		rec := ptypes.EntryRecord{
			Name:    e.Name(),
			EntryID: e.ID(),
			Formula: e.Composition().Formula(),
			Energy:  e.UncorrectedEnergy(),
			Phase:   strings.ToLower(string(e.Phase())),
		}
		if e.Phase() == pourbaix.PhaseIon {
			rec.Formula = ionFormula(e.Composition().Formula(), e.Charge())
			rec.Concentration = e.Concentration()
		}
		doc.Entries[i] = rec
	}
	return doc
}

func ionFormula(formula string, charge float64) string {
	switch {
	case charge > 0:
		return fmt.Sprintf("%s[%g+]", formula, charge)
	case charge < 0:
		return fmt.Sprintf("%s[%g-]", formula, -charge)
	default:
		return formula + "(aq)"
	}
}

// Encode writes doc to w in format.
func Encode(w io.Writer, doc ptypes.EntryDocument, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode entry document")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode entry document")
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeBadRequest, "unsupported entry document format").
			WithDetail("format=" + string(format))
	}
	return nil
}

//Personal.AI order the ending
