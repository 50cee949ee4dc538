package ids

import (
	"context"
	"sort"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
)

// Resolved pairs an input identifier with its PMC alternate
type Resolved struct {
	ID    string
	PMCID Resolution
}

// ResolvePMC resolves the PMC alternate of every id, in input order.
// A translated value without the PMC prefix counts as a miss.
func (r *Resolver) ResolvePMC(ctx context.Context, ids []string) []Resolved {
	out := make([]Resolved, len(ids))
	for i, id := range ids {
		res := r.ResolveAlternate(ctx, id, PMCID)
		if res.Found && Classify(res.Value) != KindPMC {
			res = Miss
		}
		out[i] = Resolved{ID: id, PMCID: res}
	}
	return out
}

// Plan says which identifiers to retrieve and how
type Plan struct {
	FullText []string // PMC alternates, fetched as full articles
	Abstract []string // ids without PMC alternate that are not DOIs
	Excluded []string // DOIs without PMC alternate, never retrieved
}

// Partition splits resolved identifiers into disjoint retrieval sets.
// Each list keeps first-seen order and holds no duplicates.
func Partition(resolved []Resolved) Plan {
	var plan Plan
	seen := make(map[string]struct{})
	add := func(list *[]string, key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		*list = append(*list, key)
	}

	for _, r := range resolved {
		switch {
		case r.PMCID.Found:
			add(&plan.FullText, r.PMCID.Value)
		case IsDOI(r.ID):
			add(&plan.Excluded, r.ID)
		default:
			add(&plan.Abstract, r.ID)
		}
	}
	return plan
}

// ResultRow is one line of the output table
type ResultRow struct {
	ID         string
	PMCID      string // resolved PMC alternate or NotFound
	Confidence score.Confidence
}

// ResultTable holds one row per input identifier
type ResultTable []ResultRow

// Assemble looks up the confidence of every resolved id. Rows with a PMC
// alternate match on it; the others match on their own id, unless that id
// is a DOI or carries the PMC prefix. No match gives an unscored row.
func Assemble(resolved []Resolved, scores map[string]float64) ResultTable {
	table := make(ResultTable, len(resolved))
	for i, r := range resolved {
		row := ResultRow{ID: r.ID, PMCID: r.PMCID.Or(NotFound), Confidence: score.Unscored}

		key := ""
		switch {
		case r.PMCID.Found:
			key = r.PMCID.Value
		case !IsDOI(r.ID) && Classify(r.ID) != KindPMC:
			key = r.ID
		}
		if key != "" {
			if v, ok := scores[key]; ok {
				row.Confidence = score.Scored(v)
			}
		}
		table[i] = row
	}
	return table
}

// SortByConfidence returns the rows ordered by descending numeric
// confidence, unscored rows last. Ties keep their input order.
func SortByConfidence(table ResultTable) ResultTable {
	out := append(ResultTable(nil), table...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, oki := out[i].Confidence.Value()
		vj, okj := out[j].Confidence.Value()
		if oki != okj {
			return oki
		}
		return oki && vi > vj
	})
	return out
}

// BuildResultTable assembles and sorts the final table.
func BuildResultTable(resolved []Resolved, scores map[string]float64) ResultTable {
	return SortByConfidence(Assemble(resolved, scores))
}

// Scored counts rows with a numeric confidence.
func (t ResultTable) Scored() int {
	n := 0
	for _, row := range t {
		if row.Confidence.IsScored() {
			n++
		}
	}
	return n
}
