package reconcile

import (
	"github.com/gemcurate/gemcurate/annotation"
)

// Record is one row of a database lookup export: a database entry found for
// a model metabolite.
type Record struct {
	MetaboliteID string
	Database     string
	ID           string
	Formula      string
	Charge       *int
	ByFormula    bool
}

// GroupRecords collects records into sources per metabolite. Sources keep
// the order in which their database first appears for the metabolite;
// formula lookups are kept apart from lookups by identifier or name.
// Duplicate IDs, formulas and charges are dropped.
func GroupRecords(records []Record) map[string][]Source {
	type key struct {
		db        string
		byFormula bool
	}
	index := make(map[string]map[key]int)
	out := make(map[string][]Source)

	for _, r := range records {
		k := key{r.Database, r.ByFormula}
		if index[r.MetaboliteID] == nil {
			index[r.MetaboliteID] = make(map[key]int)
		}
		i, ok := index[r.MetaboliteID][k]
		if !ok {
			i = len(out[r.MetaboliteID])
			index[r.MetaboliteID][k] = i
			out[r.MetaboliteID] = append(out[r.MetaboliteID], Source{Database: r.Database, ByFormula: r.ByFormula})
		}

		src := &out[r.MetaboliteID][i]
		if r.ID != "" {
			src.IDs = append(src.IDs, r.ID)
		}
		if r.Formula != "" {
			src.Formulas = append(src.Formulas, r.Formula)
		}
		if r.Charge != nil {
			src.Charges = append(src.Charges, *r.Charge)
		}
	}

	for _, sources := range out {
		for i := range sources {
			sources[i].IDs = annotation.Unique(sources[i].IDs)
			sources[i].Formulas = annotation.Unique(sources[i].Formulas)
			sources[i].Charges = annotation.Unique(sources[i].Charges)
		}
	}
	return out
}
