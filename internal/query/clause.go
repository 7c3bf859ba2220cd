// Package query builds the engine-native search DSL from structured search
// requests. Clauses are immutable values forming a tagged tree; nothing in
// this package talks to the engine, so builders are unit-testable offline.
package query

// Clause is one node of the engine query tree. Body returns the clause in
// the engine's JSON form, ready to be marshalled inside a search body.
type Clause interface {
	Body() map[string]any
}

// MatchAll matches every document in the index.
type MatchAll struct{}

func (MatchAll) Body() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// Match is a single-field full-text match.
type Match struct {
	Field    string
	Query    string
	Analyzer string
	Boost    float64
}

func (m Match) Body() map[string]any {
	inner := map[string]any{"query": m.Query}
	if m.Analyzer != "" {
		inner["analyzer"] = m.Analyzer
	}
	if m.Boost != 0 {
		inner["boost"] = m.Boost
	}
	return map[string]any{"match": map[string]any{m.Field: inner}}
}

// MatchPhrasePrefix matches documents whose field starts with the given phrase.
type MatchPhrasePrefix struct {
	Field string
	Query string
	Boost float64
}

func (m MatchPhrasePrefix) Body() map[string]any {
	inner := map[string]any{"query": m.Query}
	if m.Boost != 0 {
		inner["boost"] = m.Boost
	}
	return map[string]any{"match_phrase_prefix": map[string]any{m.Field: inner}}
}

// MultiMatch is a weighted full-text match across several fields. Fields use
// the engine's caret boost notation, e.g. "name^3".
type MultiMatch struct {
	Query        string
	Fields       []string
	Fuzziness    string
	PrefixLength int
	Operator     string
}

func (m MultiMatch) Body() map[string]any {
	inner := map[string]any{
		"query":  m.Query,
		"fields": m.Fields,
	}
	if m.Fuzziness != "" {
		inner["fuzziness"] = m.Fuzziness
	}
	if m.PrefixLength > 0 {
		inner["prefix_length"] = m.PrefixLength
	}
	if m.Operator != "" {
		inner["operator"] = m.Operator
	}
	return map[string]any{"multi_match": inner}
}

// Term is an exact match on a single keyword or boolean field.
type Term struct {
	Field string
	Value any
}

func (t Term) Body() map[string]any {
	return map[string]any{"term": map[string]any{t.Field: t.Value}}
}

// Terms is set containment on a keyword field.
type Terms struct {
	Field  string
	Values []string
}

func (t Terms) Body() map[string]any {
	return map[string]any{"terms": map[string]any{t.Field: t.Values}}
}

// Range is an inclusive numeric window. A nil bound is unconstrained.
type Range struct {
	Field string
	GTE   *float64
	LTE   *float64
}

func (r Range) Body() map[string]any {
	bounds := map[string]any{}
	if r.GTE != nil {
		bounds["gte"] = *r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = *r.LTE
	}
	return map[string]any{"range": map[string]any{r.Field: bounds}}
}

// Bool combines sub-clauses. Must clauses match and score; Filter clauses
// gate eligibility without affecting the score; Should clauses are weighted
// alternatives.
type Bool struct {
	Must   []Clause
	Filter []Clause
	Should []Clause
}

func (b Bool) Body() map[string]any {
	inner := map[string]any{}
	if len(b.Must) > 0 {
		inner["must"] = bodies(b.Must)
	}
	if len(b.Filter) > 0 {
		inner["filter"] = bodies(b.Filter)
	}
	if len(b.Should) > 0 {
		inner["should"] = bodies(b.Should)
	}
	return map[string]any{"bool": inner}
}

func bodies(clauses []Clause) []map[string]any {
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, c.Body())
	}
	return out
}

// Agg is a single named aggregation specification.
type Agg interface {
	Body() map[string]any
}

// TermsAgg counts documents per distinct value of a keyword field, returning
// the top Size values by count.
type TermsAgg struct {
	Field string
	Size  int
}

func (a TermsAgg) Body() map[string]any {
	return map[string]any{"terms": map[string]any{"field": a.Field, "size": a.Size}}
}

// StatsAgg computes min/max/avg statistics over a numeric field.
type StatsAgg struct {
	Field string
}

func (a StatsAgg) Body() map[string]any {
	return map[string]any{"stats": map[string]any{"field": a.Field}}
}

// AvgAgg computes the mean of a numeric field.
type AvgAgg struct {
	Field string
}

func (a AvgAgg) Body() map[string]any {
	return map[string]any{"avg": map[string]any{"field": a.Field}}
}

// AggsBody renders a named aggregation set into the engine's JSON form.
func AggsBody(aggs map[string]Agg) map[string]any {
	out := make(map[string]any, len(aggs))
	for name, agg := range aggs {
		out[name] = agg.Body()
	}
	return out
}

// SortClause orders results by a single field.
type SortClause struct {
	Field string
	Order string
}

func (s SortClause) Body() map[string]any {
	return map[string]any{s.Field: map[string]any{"order": s.Order}}
}

// SortBodies renders a sort clause list into the engine's JSON form.
func SortBodies(clauses []SortClause) []map[string]any {
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, c.Body())
	}
	return out
}
