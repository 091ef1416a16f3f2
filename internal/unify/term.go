// Package unify implements spec §4.4: Martelli–Montanari unification
// over a small term language, producing a most-general substitution
// or a classified failure.
package unify

import (
	"fmt"
	"strings"

	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// Term is spec §4.4's term language: a Variable, an Atom, or a
// Sequence, plus the two seam variants of spec §4.5 (ProgressiveRecordTerm,
// OverloadedTerm) carried along as trait-object-like variants so they
// can ride through the same queues without entwining the core rules.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Variable is an inference variable: distinct from a Scheme's bound
// ordinal even though both are plain integers (spec §4.4) — by the
// time a Type reaches the unifier, every Scheme has already been
// applied, so every remaining *typesystem.Variable ordinal denotes an
// inference variable.
type Variable struct {
	Ordinal int
}

func (Variable) isTerm()           {}
func (v Variable) String() string { return fmt.Sprintf("$%d", v.Ordinal) }

// Atom is a nullary symbol: a primitive name or a user-defined
// nullary name (spec §4.4).
type Atom struct {
	Symbol string
}

func (Atom) isTerm()           {}
func (a Atom) String() string { return a.Symbol }

// Sequence is a symbol applied to an ordered list of subterms,
// encoding functions, tuples, records, datatypes, and lists uniformly
// (spec §4.4). Two Sequences are compatible iff they share Symbol and
// arity (len(Args)); otherwise they conflict.
type Sequence struct {
	Symbol string
	Args   []Term
}

func (Sequence) isTerm() {}
func (s Sequence) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return s.Symbol + "(" + strings.Join(parts, ",") + ")"
}

// ProgressiveRecordTerm carries a typesystem.ProgressiveRecord into
// the term language (spec §4.5). Discover is consulted when the other
// side of a unification names a label not present here.
type ProgressiveRecordTerm struct {
	Labels   []string
	Fields   []Term
	Discover func(label string) (Term, bool)
}

func (ProgressiveRecordTerm) isTerm() {}
func (p ProgressiveRecordTerm) String() string {
	parts := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		parts[i] = l + ":" + p.Fields[i].String()
	}
	return "{" + strings.Join(parts, ",") + ",...}"
}

func (p ProgressiveRecordTerm) fieldByLabel(label string) (Term, bool) {
	for i, l := range p.Labels {
		if l == label {
			return p.Fields[i], true
		}
	}
	return nil, false
}

// OverloadedTerm carries a typesystem.Overloaded into the term
// language (spec §4.5): a finite set of candidate terms, narrowed by
// intersection as unification proceeds.
type OverloadedTerm struct {
	Candidates []Term
}

func (OverloadedTerm) isTerm() {}
func (o OverloadedTerm) String() string {
	parts := make([]string, len(o.Candidates))
	for i, c := range o.Candidates {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, "|") + "}"
}

// FromType derives a Term from a canonical Type (spec §4.4: "terms
// ... derived from types"). Aliases are peeled before conversion,
// since unification always matches through an alias (spec §4.5).
func FromType(t typesystem.Type) Term {
	switch v := typesystem.Unalias(t).(type) {
	case *typesystem.Variable:
		return Variable{Ordinal: v.Ordinal}
	case *typesystem.Primitive:
		return Atom{Symbol: v.Name}
	case *typesystem.Function:
		return Sequence{Symbol: "fn", Args: []Term{FromType(v.Arg), FromType(v.Ret)}}
	case *typesystem.ListType:
		return Sequence{Symbol: "list", Args: []Term{FromType(v.Elem)}}
	case *typesystem.Tuple:
		return Sequence{Symbol: "tuple", Args: fromTypes(v.Elems)}
	case *typesystem.Record:
		return Sequence{Symbol: "record_" + strings.Join(v.Labels, ","), Args: fromTypes(v.Fields)}
	case *typesystem.DataType:
		return Sequence{Symbol: v.Name, Args: fromTypes(v.Args)}
	case *typesystem.ProgressiveRecord:
		fields := fromTypes(v.Fields)
		discover := v.Discover
		return ProgressiveRecordTerm{
			Labels: v.Labels,
			Fields: fields,
			Discover: func(label string) (Term, bool) {
				if discover == nil {
					return nil, false
				}
				ft, ok := discover(label)
				if !ok {
					return nil, false
				}
				return FromType(ft), true
			},
		}
	case *typesystem.Overloaded:
		return OverloadedTerm{Candidates: fromTypes(v.Candidates)}
	case *typesystem.Scheme:
		// A Scheme should already have been applied before reaching the
		// unifier; fall back to its display string so a caller error
		// surfaces as a conflict rather than a panic.
		return Atom{Symbol: v.String()}
	default:
		return Atom{Symbol: t.String()}
	}
}

func fromTypes(ts []typesystem.Type) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = FromType(t)
	}
	return out
}

// equalTerms is structural equality, used by queues.add's delete-rule
// test and by the overloaded-type seam rules (seams.go). Term's dynamic
// types include slices (Sequence.Args), so they are not Go-comparable
// with ==; this is the substitute.
func equalTerms(a, b Term) bool {
	switch x := a.(type) {
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Ordinal == y.Ordinal
	case Atom:
		y, ok := b.(Atom)
		return ok && x.Symbol == y.Symbol
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || x.Symbol != y.Symbol || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !equalTerms(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// contains is the occurs-check test: does t mention v anywhere.
func contains(t Term, v Variable) bool {
	switch x := t.(type) {
	case Variable:
		return x.Ordinal == v.Ordinal
	case Atom:
		return false
	case Sequence:
		for _, a := range x.Args {
			if contains(a, v) {
				return true
			}
		}
		return false
	case ProgressiveRecordTerm:
		for _, f := range x.Fields {
			if contains(f, v) {
				return true
			}
		}
		return false
	case OverloadedTerm:
		for _, c := range x.Candidates {
			if contains(c, v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// substituteTerm replaces every occurrence of v in t with repl,
// reporting whether anything changed (so a caller can avoid
// re-bucketing a pair that substitution left untouched).
func substituteTerm(t Term, v Variable, repl Term) (Term, bool) {
	switch x := t.(type) {
	case Variable:
		if x.Ordinal == v.Ordinal {
			return repl, true
		}
		return x, false
	case Atom:
		return x, false
	case Sequence:
		args := make([]Term, len(x.Args))
		changed := false
		for i, a := range x.Args {
			na, ch := substituteTerm(a, v, repl)
			args[i] = na
			if ch {
				changed = true
			}
		}
		if !changed {
			return x, false
		}
		return Sequence{Symbol: x.Symbol, Args: args}, true
	case ProgressiveRecordTerm:
		fields := make([]Term, len(x.Fields))
		changed := false
		for i, f := range x.Fields {
			nf, ch := substituteTerm(f, v, repl)
			fields[i] = nf
			if ch {
				changed = true
			}
		}
		if !changed {
			return x, false
		}
		return ProgressiveRecordTerm{Labels: x.Labels, Fields: fields, Discover: x.Discover}, true
	case OverloadedTerm:
		cands := make([]Term, len(x.Candidates))
		changed := false
		for i, c := range x.Candidates {
			nc, ch := substituteTerm(c, v, repl)
			cands[i] = nc
			if ch {
				changed = true
			}
		}
		if !changed {
			return x, false
		}
		return OverloadedTerm{Candidates: cands}, true
	default:
		return t, false
	}
}

// decomposeKey returns the operator symbol and ordered subterms of an
// Atom or Sequence, so the seq-seq rule can compare them uniformly: an
// Atom is a zero-arity Sequence for this purpose (spec §4.4's "two
// Sequences are compatible iff they share operator and arity" also
// governs "unify two distinct nullary atoms: conflict", §8).
func decomposeKey(t Term) (symbol string, args []Term) {
	switch x := t.(type) {
	case Atom:
		return x.Symbol, nil
	case Sequence:
		return x.Symbol, x.Args
	default:
		return "", nil
	}
}
