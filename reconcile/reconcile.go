// Package reconcile checks the chemical formula and charge of model
// metabolites against the entries several compound databases return for
// them, and reports which databases agree.
package reconcile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gemcurate/gemcurate/annotation"
	"github.com/gemcurate/gemcurate/formula"
)

// DefaultDatabases are the compound databases reported on, in column order.
var DefaultDatabases = []string{"BiGG", "BioCyc", "MetaNetX", "SEED"}

// Metabolite is a species of the model under curation.
type Metabolite struct {
	// Index is the position of the species in the model.
	Index   int
	ID      string
	Name    string
	Formula string
	// Charge is nil when the model has no charge for the species.
	Charge *int
}

// Source is what one database returned for a metabolite.
type Source struct {
	Database string
	IDs      []string
	Formulas []string
	Charges  []int

	// ByFormula marks sources that were searched with the model formula
	// itself. They cannot confirm the formula and are only reported as
	// search hits.
	ByFormula bool
}

// Result is the outcome of checking one metabolite.
type Result struct {
	Metabolite Metabolite
	Sources    []Source

	// Matching lists the databases with at least one agreeing formula.
	Matching []string

	// SearchHits holds the IDs of ByFormula sources per database, keyed by
	// the lowercase database name.
	SearchHits map[string][]string

	// Invalid lists database formulas that could not be parsed.
	Invalid []string

	// Mismatch is true when no database agreed with the model.
	Mismatch bool
}

// Checker compares metabolites with database entries.
type Checker struct {
	// ChargeHydrogenBalance accepts hydrogen differences that are explained
	// by a charge difference.
	ChargeHydrogenBalance bool
	Debug                 bool
	Log                   io.Writer
}

// Option configures a Checker.
type Option func(*Checker)

// WithChargeHydrogenBalance toggles tolerance for +1 charge / +1 H differences.
func WithChargeHydrogenBalance(on bool) Option {
	return func(c *Checker) {
		c.ChargeHydrogenBalance = on
	}
}

// WithDebug enables debug output.
func WithDebug(debug bool) Option {
	return func(c *Checker) {
		c.Debug = debug
	}
}

// WithLogger sets where debug output goes (default stderr).
func WithLogger(w io.Writer) Option {
	return func(c *Checker) {
		c.Log = w
	}
}

// NewChecker creates a Checker with the given options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{Log: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check compares the model formula of m against every non-ByFormula source.
//
// With charge/hydrogen balancing every database formula is tried with every
// database charge, and the charges take part in the comparison when the model
// has a charge too. A metabolite without a formula in the model is always a
// mismatch.
func (c *Checker) Check(m Metabolite, sources []Source) (Result, error) {
	res := Result{
		Metabolite: m,
		Sources:    sources,
		SearchHits: make(map[string][]string),
	}

	for _, src := range sources {
		if src.ByFormula {
			db := strings.ToLower(src.Database)
			res.SearchHits[db] = append(res.SearchHits[db], src.IDs...)
		}
	}

	if m.Formula == "" {
		c.debugf("%s: no formula in model", m.ID)
		res.Mismatch = true
		return res, nil
	}
	if _, err := formula.Parse(m.Formula); err != nil {
		return res, fmt.Errorf("model formula of %s: %w", m.ID, err)
	}

	for _, src := range sources {
		if src.ByFormula {
			continue
		}
		for _, p := range c.pairs(src, m) {
			ok, err := formula.Compare(p.formulas, p.charges)
			if err != nil {
				c.debugf("%s: %s formula %q: %v", m.ID, src.Database, p.formulas[0], err)
				res.Invalid = append(res.Invalid, p.formulas[0])
				continue
			}
			c.debugf("%s: %s %v charges %v -> %v", m.ID, src.Database, p.formulas, p.charges, ok)
			if ok {
				res.Matching = append(res.Matching, src.Database)
			}
		}
	}

	res.Matching = annotation.Unique(res.Matching)
	res.Invalid = annotation.Unique(res.Invalid)
	res.Mismatch = len(res.Matching) == 0
	return res, nil
}

type comparison struct {
	formulas []string
	charges  []int
}

// pairs lists the comparisons for one source. Charges only take part when
// balancing is on and both the source and the model have them.
func (c *Checker) pairs(src Source, m Metabolite) []comparison {
	var out []comparison
	if !c.ChargeHydrogenBalance || len(src.Charges) == 0 || m.Charge == nil {
		for _, f := range src.Formulas {
			out = append(out, comparison{formulas: []string{f, m.Formula}})
		}
		return out
	}

	for _, f := range src.Formulas {
		for _, ch := range src.Charges {
			out = append(out, comparison{
				formulas: []string{f, m.Formula},
				charges:  []int{ch, *m.Charge},
			})
		}
	}
	return out
}

func (c *Checker) debugf(format string, args ...any) {
	if c.Debug && c.Log != nil {
		fmt.Fprintf(c.Log, "DEBUG: "+format+"\n", args...)
	}
}

// MismatchHeaders returns the columns of the mismatch table for the given
// databases.
func MismatchHeaders(databases []string) []string {
	h := []string{"model_index", "name", "spec_id"}
	for _, db := range databases {
		h = append(h, "ids_"+strings.ToLower(db))
	}
	for _, db := range databases {
		h = append(h, "formula_"+strings.ToLower(db))
	}
	h = append(h, "formula_model")
	for _, db := range databases {
		h = append(h, "charge_"+strings.ToLower(db))
	}
	return append(h, "charge_model", "matching_db")
}

// Unreported returns the databases of r's sources that are not among
// databases, compared case-insensitively. Their entries do not show up in
// Row or SearchRow.
func (r Result) Unreported(databases []string) []string {
	known := make(map[string]bool, len(databases))
	for _, db := range databases {
		known[strings.ToLower(db)] = true
	}
	var out []string
	for _, src := range r.Sources {
		if !known[strings.ToLower(src.Database)] {
			out = append(out, src.Database)
		}
	}
	return annotation.Unique(out)
}

// Row renders r as a mismatch table row. Database names are matched
// case-insensitively and multi-valued cells are joined with delim.
func (r Result) Row(databases []string, delim string) []string {
	byDB := make(map[string]Source)
	for _, src := range r.Sources {
		if src.ByFormula {
			continue
		}
		db := strings.ToLower(src.Database)
		s := byDB[db]
		s.IDs = append(s.IDs, src.IDs...)
		s.Formulas = append(s.Formulas, src.Formulas...)
		s.Charges = append(s.Charges, src.Charges...)
		byDB[db] = s
	}

	m := r.Metabolite
	row := []string{strconv.Itoa(m.Index), m.Name, m.ID}
	for _, db := range databases {
		row = append(row, strings.Join(byDB[strings.ToLower(db)].IDs, delim))
	}
	for _, db := range databases {
		row = append(row, strings.Join(byDB[strings.ToLower(db)].Formulas, delim))
	}
	row = append(row, m.Formula)
	for _, db := range databases {
		row = append(row, joinInts(byDB[strings.ToLower(db)].Charges, delim))
	}
	charge := ""
	if m.Charge != nil {
		charge = strconv.Itoa(*m.Charge)
	}
	return append(row, charge, strings.Join(r.Matching, delim))
}

// SearchHeaders returns the columns of the formula search table.
func SearchHeaders(databases []string) []string {
	h := []string{"model_index", "name", "spec_id", "formula_model"}
	for _, db := range databases {
		h = append(h, "ids_"+strings.ToLower(db))
	}
	return h
}

// SearchRow renders the formula search hits of r.
func (r Result) SearchRow(databases []string, delim string) []string {
	m := r.Metabolite
	row := []string{strconv.Itoa(m.Index), m.Name, m.ID, m.Formula}
	for _, db := range databases {
		row = append(row, strings.Join(r.SearchHits[strings.ToLower(db)], delim))
	}
	return row
}

func joinInts(vals []int, delim string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, delim)
}
