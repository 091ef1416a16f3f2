package typesystem

import "testing"

func TestDigestStructuralEquality(t *testing.T) {
	a := FnKey{Arg: NameKey{Name: "int"}, Ret: NameKey{Name: "bool"}}
	b := FnKey{Arg: NameKey{Name: "int"}, Ret: NameKey{Name: "bool"}}
	if a.Digest() != b.Digest() {
		t.Error("two structurally equal FnKeys should have equal Digest")
	}
	if !a.Equal(b) {
		t.Error("Equal should agree with Digest equality")
	}
}

func TestDigestDistinguishesShape(t *testing.T) {
	fn := FnKey{Arg: NameKey{Name: "int"}, Ret: NameKey{Name: "bool"}}
	list := ListKey{Elem: NameKey{Name: "int"}}
	if fn.Digest() == list.Digest() {
		t.Error("a function key and a list key must not collide")
	}
}

// TestDataTypeKeyDigestIgnoresCtors is the load-bearing invariant
// behind recursive-datatype substitution (see key.go's doc comment on
// DataTypeKey): two keys with the same Name/Arity/Args are the same
// key even when their Ctors slices differ, so a placeholder's identity
// never has to change once FillCtors runs.
func TestDataTypeKeyDigestIgnoresCtors(t *testing.T) {
	bare := DataTypeKey{Name: "option", Arity: 1, Args: []Key{NameKey{Name: "int"}}}
	withCtors := DataTypeKey{
		Name:  "option",
		Arity: 1,
		Args:  []Key{NameKey{Name: "int"}},
		Ctors: []CtorKey{{Name: "SOME", Payload: NameKey{Name: "int"}}},
	}
	if bare.Digest() != withCtors.Digest() {
		t.Error("DataTypeKey.Digest must not depend on Ctors")
	}
}

func TestDataTypeKeySubstituteLeavesCtorsUntouched(t *testing.T) {
	ctors := []CtorKey{{Name: "SOME", Payload: OrdinalKey{Ordinal: 0}}}
	k := DataTypeKey{Name: "option", Arity: 1, Args: []Key{OrdinalKey{Ordinal: 0}}, Ctors: ctors}
	substituted := k.Substitute([]Key{NameKey{Name: "int"}}).(DataTypeKey)
	if len(substituted.Args) != 1 || substituted.Args[0].Digest() != (NameKey{Name: "int"}).Digest() {
		t.Errorf("Args should be substituted, got %v", substituted.Args)
	}
	if substituted.Ctors[0].Payload.Digest() != ctors[0].Payload.Digest() {
		t.Error("Substitute must not rewrite Ctors")
	}
}

func TestCanonicalTupleShapeRecordKey(t *testing.T) {
	key := NewRecordKey(map[string]Key{
		"1": NameKey{Name: "int"},
		"2": NameKey{Name: "bool"},
	})
	tuple, ok := key.(TupleKey)
	if !ok {
		t.Fatalf("a {1,2} label set should canonicalize to a TupleKey, got %T", key)
	}
	if len(tuple.Elems) != 2 {
		t.Errorf("len(Elems) = %d, want 2", len(tuple.Elems))
	}
}

func TestNonTupleShapedRecordKeyStaysRecord(t *testing.T) {
	key := NewRecordKey(map[string]Key{
		"x": NameKey{Name: "int"},
		"y": NameKey{Name: "bool"},
	})
	if _, ok := key.(RecordKey); !ok {
		t.Fatalf("a {x,y} label set should stay a RecordKey, got %T", key)
	}
}

func TestFnKeyDescribeRightAssociative(t *testing.T) {
	inner := FnKey{Arg: NameKey{Name: "bool"}, Ret: NameKey{Name: "string"}}
	outer := FnKey{Arg: NameKey{Name: "int"}, Ret: inner}
	got := outer.String()
	want := "int -> bool -> string"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFnKeyDescribeParenthesizesFnOnLeft(t *testing.T) {
	inner := FnKey{Arg: NameKey{Name: "int"}, Ret: NameKey{Name: "bool"}}
	outer := FnKey{Arg: inner, Ret: NameKey{Name: "string"}}
	got := outer.String()
	want := "(int -> bool) -> string"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestTupleKeyDescribeParenthesizesFnOperand guards against a Function
// operand printing without parens inside a Tuple: "int -> bool * string"
// re-parses (per this file's own precedence table) as
// Function(int, Tuple(bool, string)) instead of Tuple(Function(int,bool),
// string) — a different type, breaking the print/parse/print fixed point.
func TestTupleKeyDescribeParenthesizesFnOperand(t *testing.T) {
	fn := FnKey{Arg: NameKey{Name: "int"}, Ret: NameKey{Name: "bool"}}
	tuple := TupleKey{Elems: []Key{fn, NameKey{Name: "string"}}}
	got := tuple.String()
	want := "(int -> bool) * string"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
