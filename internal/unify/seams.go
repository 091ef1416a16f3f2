package unify

import "strings"

// resolveSeam implements spec §4.5's two non-core unification rules —
// progressive-record field intersection and overloaded-candidate
// intersection — entirely outside the Delete/Decompose/Eliminate
// rules above, enqueuing whatever follow-up pairs each rule produces
// into q and returning a non-nil *Conflict only when no unifier
// exists. At least one of p.Left/p.Right is a seam term by the time
// this is called.
func resolveSeam(p Pair, q *queues) *Conflict {
	switch left := p.Left.(type) {
	case ProgressiveRecordTerm:
		switch right := p.Right.(type) {
		case ProgressiveRecordTerm:
			return unifyProgressiveProgressive(left, right, p.depth, q)
		default:
			return unifyProgressiveConcrete(left, p.Right, p.depth, q)
		}
	case OverloadedTerm:
		switch right := p.Right.(type) {
		case OverloadedTerm:
			return unifyOverloadedOverloaded(left, right, p.depth, q)
		default:
			return unifyOverloadedConcrete(left, p.Right, p.depth, q)
		}
	default:
		// p.Right carries the seam; p.Left does not.
		switch right := p.Right.(type) {
		case ProgressiveRecordTerm:
			return unifyProgressiveConcrete(right, p.Left, p.depth, q)
		case OverloadedTerm:
			return unifyOverloadedConcrete(right, p.Left, p.depth, q)
		}
	}
	return nil
}

// unifyProgressiveProgressive intersects two progressive records by
// field set (spec §4.5): a shared label unifies its two field types; a
// label only one side names is checked against the other side's
// Discover hook first (unifying the field with the discovered type),
// then against its own side's hook, since both sides may still grow
// it. A label neither side's Discover accepts is a Conflict. Neither
// record's Labels/Fields is extended.
func unifyProgressiveProgressive(left, right ProgressiveRecordTerm, depth int, q *queues) *Conflict {
	seen := make(map[string]bool, len(left.Labels)+len(right.Labels))
	for i, label := range left.Labels {
		seen[label] = true
		if rf, ok := right.fieldByLabel(label); ok {
			q.add(Pair{Left: left.Fields[i], Right: rf, depth: depth})
			continue
		}
		if dt, ok := right.Discover(label); ok {
			q.add(Pair{Left: left.Fields[i], Right: dt, depth: depth})
			continue
		}
		if _, ok := left.Discover(label); ok {
			continue
		}
		return &Conflict{Left: left, Right: right}
	}
	for i, label := range right.Labels {
		if seen[label] {
			continue
		}
		if dt, ok := left.Discover(label); ok {
			q.add(Pair{Left: dt, Right: right.Fields[i], depth: depth})
			continue
		}
		if _, ok := right.Discover(label); ok {
			continue
		}
		return &Conflict{Left: left, Right: right}
	}
	return nil
}

// unifyProgressiveConcrete unifies a progressive record against a
// fixed term: a plain record Sequence unifies label-by-label, with any
// label pr lacks checked against pr's Discover hook (the plain side
// can never grow, so a label pr has that the plain record doesn't is
// always a Conflict); any other concrete shape is always a
// Conflict, since only records can satisfy a progressive record.
func unifyProgressiveConcrete(pr ProgressiveRecordTerm, other Term, depth int, q *queues) *Conflict {
	symbol, args := decomposeKey(other)
	labels, ok := recordLabels(symbol)
	if !ok || len(labels) != len(args) {
		return &Conflict{Left: pr, Right: other}
	}
	otherByLabel := make(map[string]Term, len(labels))
	for i, l := range labels {
		otherByLabel[l] = args[i]
	}
	for i, label := range pr.Labels {
		if ot, ok := otherByLabel[label]; ok {
			q.add(Pair{Left: pr.Fields[i], Right: ot, depth: depth})
			continue
		}
		return &Conflict{Left: pr, Right: other}
	}
	for _, label := range labels {
		if _, ok := pr.fieldByLabel(label); ok {
			continue
		}
		if dt, ok := pr.Discover(label); ok {
			q.add(Pair{Left: dt, Right: otherByLabel[label], depth: depth})
			continue
		}
		return &Conflict{Left: pr, Right: other}
	}
	return nil
}

func recordLabels(symbol string) ([]string, bool) {
	if !strings.HasPrefix(symbol, "record_") {
		return nil, false
	}
	return strings.Split(strings.TrimPrefix(symbol, "record_"), ","), true
}

// unifyOverloadedOverloaded intersects two candidate sets by Term
// equality (spec §4.5). An empty intersection is a Conflict; any
// non-empty intersection (including a lone survivor) succeeds with no
// further obligation — Overloaded values carry no canonical identity
// to unify further against (typesystem.Overloaded's doc comment).
func unifyOverloadedOverloaded(left, right OverloadedTerm, depth int, q *queues) *Conflict {
	var shared []Term
	for _, c := range left.Candidates {
		for _, d := range right.Candidates {
			if equalTerms(c, d) {
				shared = append(shared, c)
				break
			}
		}
	}
	if len(shared) == 0 {
		return &Conflict{Left: left, Right: right}
	}
	return nil
}

// unifyOverloadedConcrete resolves an overload against a concrete,
// non-Variable term: a Conflict unless exactly one candidate is
// structurally equal to other (spec §4.5's "resolves once exactly one
// candidate survives"). other is never a Variable here — queues.add
// routes any pair with a Variable on either side to var-any before a
// seam rule ever runs, so a Variable binds to a whole OverloadedTerm
// as an ordinary bind instead.
func unifyOverloadedConcrete(o OverloadedTerm, other Term, depth int, q *queues) *Conflict {
	var matches int
	for _, c := range o.Candidates {
		if equalTerms(c, other) {
			matches++
		}
	}
	if matches == 1 {
		return nil
	}
	return &Conflict{Left: o, Right: other}
}
