package unify

// Pair is spec §4.4's TermPair: one constraint awaiting unification.
type Pair struct {
	Left, Right Term
	depth       int
}

// NewPair builds a Pair for Unify's initial pair set.
func NewPair(left, right Term) Pair {
	return Pair{Left: left, Right: right}
}

// queues partitions pending pairs into spec §4.4's three buckets, so
// the main loop's rule selection is an O(1) priority check rather
// than a scan: Delete fires first, then Sequence-Sequence (decompose
// or conflict), then Variable-Any (eliminate) last.
type queues struct {
	deleteQ []Pair
	seqSeqQ []Pair
	varAnyQ []Pair
	tracer  Tracer
}

// add buckets pair per spec §4.4: equal terms go to delete; a
// non-Variable paired with a Variable is swapped so the Variable is
// always on the left before landing in var-any (this also covers a
// Variable paired with a seam term — binding a variable to a
// ProgressiveRecordTerm/OverloadedTerm is an ordinary bind, occurs-
// check included); two Variables or one Variable on the left already
// go straight to var-any. Everything else — two Sequences, two Atoms,
// an Atom and a Sequence, or either side a seam term — goes to
// seq-seq: decomposeKey's arity/symbol check turns an incompatible
// plain pair into a Conflict, and resolveSeam (seams.go) handles any
// pair with a seam term on either side before that check runs.
func (q *queues) add(pair Pair) {
	if equalTerms(pair.Left, pair.Right) {
		q.deleteQ = append(q.deleteQ, pair)
		return
	}
	_, leftIsVar := pair.Left.(Variable)
	_, rightIsVar := pair.Right.(Variable)
	if !leftIsVar && rightIsVar {
		swapped := Pair{Left: pair.Right, Right: pair.Left, depth: pair.depth}
		q.tracer.Trace(Event{Kind: EventSwap, Pair: swapped})
		q.varAnyQ = append(q.varAnyQ, swapped)
		return
	}
	if leftIsVar {
		q.varAnyQ = append(q.varAnyQ, pair)
		return
	}
	q.seqSeqQ = append(q.seqSeqQ, pair)
}

func (q *queues) empty() bool {
	return len(q.deleteQ) == 0 && len(q.seqSeqQ) == 0 && len(q.varAnyQ) == 0
}

func pop(slice *[]Pair) Pair {
	p := (*slice)[0]
	*slice = (*slice)[1:]
	return p
}

func isSeam(t Term) bool {
	switch t.(type) {
	case ProgressiveRecordTerm, OverloadedTerm:
		return true
	default:
		return false
	}
}

// eliminate substitutes v for t through every pair in all three
// queues (spec §4.4's eliminate rule), then re-buckets each rewritten
// pair via add — a pair's shape can change once a variable it
// mentions is bound (e.g. a var-any pair can become a delete pair).
func (q *queues) eliminate(v Variable, t Term) {
	all := make([]Pair, 0, len(q.deleteQ)+len(q.seqSeqQ)+len(q.varAnyQ))
	all = append(all, q.deleteQ...)
	all = append(all, q.seqSeqQ...)
	all = append(all, q.varAnyQ...)
	q.deleteQ = nil
	q.seqSeqQ = nil
	q.varAnyQ = nil

	for _, p := range all {
		nl, chl := substituteTerm(p.Left, v, t)
		nr, chr := substituteTerm(p.Right, v, t)
		np := Pair{Left: nl, Right: nr, depth: p.depth}
		if chl || chr {
			q.tracer.Trace(Event{Kind: EventSubstitute, Pair: np})
		}
		q.add(np)
	}
}
