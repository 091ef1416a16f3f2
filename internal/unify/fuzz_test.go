package unify

import "testing"

// FuzzUnify replaces the teacher's parser-dependent fuzz harness (see
// DESIGN.md) with one scoped to just the unifier: two small terms
// built from a handful of fuzzer-controlled bytes, checking only the
// invariants Unify must never violate regardless of input shape
// (spec §8's occurs-check soundness, and that Unify always terminates
// and returns exactly one of a Substitution or a Failure, never both
// or neither).
func FuzzUnify(f *testing.F) {
	f.Add([]byte{0, 0, 0, 0})                                              // var(0) ~ var(0): delete rule
	f.Add([]byte{1, 2, 1, 0})                                              // atom(2) ~ atom(0): conflict
	f.Add([]byte{2, 0, 0, 1, 0, 2, 1, 0, 1, 0})                            // fn(var0,atom0) ~ fn(atom0,atom0)
	f.Add([]byte{0, 0, 2, 0, 0, 1, 0})                                     // var0 ~ fn(var0,atom0): occurs check
	f.Add([]byte{2, 2, 2, 0, 0, 0, 1, 1, 0, 0, 2, 2, 0, 3, 2, 1, 1, 0, 0}) // deeply nested sequences

	f.Fuzz(func(t *testing.T, data []byte) {
		left, rest := genTerm(data, 3)
		right, _ := genTerm(rest, 3)

		sub, fail := Unify([]Pair{NewPair(left, right)}, nil, nil)
		if (sub == nil) == (fail == nil) {
			t.Fatalf("Unify must return exactly one of (Substitution, Failure); got sub=%v fail=%v", sub, fail)
		}
		if sub == nil {
			return
		}
		for _, ordinal := range sub.Ordinals() {
			bound, _ := sub.Lookup(Variable{Ordinal: ordinal})
			if contains(bound, Variable{Ordinal: ordinal}) {
				t.Fatalf("occurs-check violated: $%d occurs in its own binding %s", ordinal, bound)
			}
		}
	})
}

// genTerm decodes a small, depth-bounded Term out of fuzzer bytes: the
// first byte selects a shape (variable / atom / 2-ary sequence), and
// the next bytes select its ordinal/symbol/children, so arbitrary
// fuzzer input always yields a finite, well-formed term instead of
// panicking on an empty or malformed byte slice.
func genTerm(data []byte, depth int) (Term, []byte) {
	if len(data) == 0 {
		return Atom{Symbol: "int"}, nil
	}
	tag, data := data[0], data[1:]
	switch {
	case tag%3 == 0 || depth <= 0:
		ordinal := 0
		if len(data) > 0 {
			ordinal = int(data[0]) % 4
			data = data[1:]
		}
		return Variable{Ordinal: ordinal}, data
	case tag%3 == 1:
		names := []string{"int", "bool", "char", "real", "string", "unit"}
		idx := 0
		if len(data) > 0 {
			idx = int(data[0]) % len(names)
			data = data[1:]
		}
		return Atom{Symbol: names[idx]}, data
	default:
		left, rest := genTerm(data, depth-1)
		right, rest2 := genTerm(rest, depth-1)
		return Sequence{Symbol: "fn", Args: []Term{left, right}}, rest2
	}
}
