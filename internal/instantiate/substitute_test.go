package instantiate

import (
	"testing"

	"github.com/sorrel-lang/sorrel/internal/registry"
	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// TestSubstitutionIdentity is spec §8's "Substitution identity" law:
// substituting with no args is the identity, with no allocation.
func TestSubstitutionIdentity(t *testing.T) {
	reg := registry.New()
	intType, err := reg.Lookup("int")
	if err != nil {
		t.Fatal(err)
	}
	listType, err := reg.ListType(intType)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Substitute(reg, listType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != listType {
		t.Error("Substitute with empty args should return the identical Type")
	}
}

// TestOptionInstantiation is spec §8 scenario 2: a scheme
// option = forall a. {NONE: dummy, SOME: a} applied to [int] yields a
// datatype with name option, args [int], and SOME: int; applying it
// twice with the same args returns the identical object.
func TestOptionInstantiation(t *testing.T) {
	reg := registry.New()
	dummyType, err := reg.TypeFor(typesystem.DummyKey)
	if err != nil {
		t.Fatal(err)
	}

	defs := []DatatypeDef{{
		Name:  "option",
		Arity: 1,
		Ctors: []CtorDef{
			{Name: "NONE", Payload: dummyType.TypeKey()},
			{Name: "SOME", Payload: typesystem.OrdinalKey{Ordinal: 0}},
		},
	}}
	built, err := DataTypes(reg, defs)
	if err != nil {
		t.Fatal(err)
	}
	option := built[0]

	intType, err := reg.Lookup("int")
	if err != nil {
		t.Fatal(err)
	}

	applied1, err := Apply(reg, option, []typesystem.Type{intType})
	if err != nil {
		t.Fatal(err)
	}
	dt, ok := applied1.(*typesystem.DataType)
	if !ok {
		t.Fatalf("Apply(option, [int]) should be a DataType, got %T", applied1)
	}
	if dt.Name != "option" {
		t.Errorf("Name = %q, want option", dt.Name)
	}
	if len(dt.Args) != 1 || dt.Args[0] != intType {
		t.Errorf("Args = %v, want [int]", dt.Args)
	}
	some, ok := dt.CtorByName("SOME")
	if !ok || some != intType {
		t.Errorf("SOME payload = %v, want int", some)
	}
	if _, ok := dt.CtorByName("NONE"); !ok {
		t.Error("NONE constructor missing")
	}

	applied2, err := Apply(reg, option, []typesystem.Type{intType})
	if err != nil {
		t.Fatal(err)
	}
	if applied1 != applied2 {
		t.Error("a second Apply with the same args should return the identical object")
	}
}

// TestMutualRecursion is spec §8 scenario 3: tree/forest applied with
// [int] installs two Types atomically, Node's payload is
// tuple(int, forest_int), and the cycle is preserved without
// duplication.
func TestMutualRecursion(t *testing.T) {
	reg := registry.New()
	dummyType, err := reg.TypeFor(typesystem.DummyKey)
	if err != nil {
		t.Fatal(err)
	}
	dummyKey := dummyType.TypeKey()

	defs := []DatatypeDef{
		{
			Name:  "tree",
			Arity: 1,
			Ctors: []CtorDef{
				{Name: "Leaf", Payload: dummyKey},
				{Name: "Node", Payload: typesystem.TupleKey{Elems: []typesystem.Key{
					typesystem.OrdinalKey{Ordinal: 0},
					typesystem.DataTypeKey{Name: "forest", Arity: 1},
				}}},
			},
		},
		{
			Name:  "forest",
			Arity: 1,
			Ctors: []CtorDef{
				{Name: "Nil", Payload: dummyKey},
				{Name: "Cons", Payload: typesystem.TupleKey{Elems: []typesystem.Key{
					typesystem.DataTypeKey{Name: "tree", Arity: 1},
					typesystem.DataTypeKey{Name: "forest", Arity: 1},
				}}},
			},
		},
	}
	built, err := DataTypes(reg, defs)
	if err != nil {
		t.Fatal(err)
	}
	tree, forest := built[0], built[1]

	intType, err := reg.Lookup("int")
	if err != nil {
		t.Fatal(err)
	}
	treeInt, err := Apply(reg, tree, []typesystem.Type{intType})
	if err != nil {
		t.Fatal(err)
	}
	forestInt, err := Apply(reg, forest, []typesystem.Type{intType})
	if err != nil {
		t.Fatal(err)
	}

	treeDT := treeInt.(*typesystem.DataType)
	nodePayload, ok := treeDT.CtorByName("Node")
	if !ok {
		t.Fatal("Node constructor missing")
	}
	nodeTuple, ok := nodePayload.(*typesystem.Tuple)
	if !ok {
		t.Fatalf("Node payload should be a Tuple, got %T", nodePayload)
	}
	if nodeTuple.Elems[0] != intType {
		t.Errorf("Node payload first element = %v, want int", nodeTuple.Elems[0])
	}
	if nodeTuple.Elems[1] != forestInt {
		t.Error("Node payload's forest component should be the same forest_int object")
	}

	forestDT := forestInt.(*typesystem.DataType)
	consPayload, _ := forestDT.CtorByName("Cons")
	consTuple := consPayload.(*typesystem.Tuple)
	if consTuple.Elems[0] != treeInt {
		t.Error("Cons payload's tree component should cycle back to the same tree_int object")
	}

	// Printing must terminate: String() walks the Key graph, which is
	// finite because DataTypeKey.Describe prints only Name and Args and
	// never descends into Ctors.
	_ = treeInt.String()
	_ = forestInt.String()
}

// TestDataTypesRejectsZeroConstructors covers spec.md's boundary case
// "a datatype with zero constructors is legal only as an intermediate
// placeholder, never committed": DataTypes must refuse to commit a def
// with no constructors, and must roll the whole group back rather than
// leaving the placeholder visible under its name.
func TestDataTypesRejectsZeroConstructors(t *testing.T) {
	reg := registry.New()
	defs := []DatatypeDef{{Name: "empty", Arity: 0, Ctors: nil}}
	if _, err := DataTypes(reg, defs); err == nil {
		t.Fatal("DataTypes should reject a zero-constructor def")
	}
	if _, err := reg.Lookup("empty"); err == nil {
		t.Error("a rejected zero-constructor datatype must not remain registered")
	}
}

func TestGeneralizeRoundTrip(t *testing.T) {
	reg := registry.New()
	v0 := reg.FreshVar()
	v1 := reg.FreshVar()
	fn, err := reg.FnType(v0, v1)
	if err != nil {
		t.Fatal(err)
	}
	scheme, err := Generalize(reg, fn)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := scheme.(*typesystem.Scheme)
	if !ok {
		t.Fatalf("Generalize should produce a Scheme, got %T", scheme)
	}
	if s.Arity != 2 {
		t.Errorf("Arity = %d, want 2", s.Arity)
	}
}

func TestGeneralizeSkipsDatatypeVariables(t *testing.T) {
	reg := registry.New()
	_, err := reg.TypeFor(typesystem.DummyKey)
	if err != nil {
		t.Fatal(err)
	}
	defs := []DatatypeDef{{
		Name:  "box",
		Arity: 1,
		Ctors: []CtorDef{
			{Name: "Box", Payload: typesystem.OrdinalKey{Ordinal: 0}},
		},
	}}
	built, err := DataTypes(reg, defs)
	if err != nil {
		t.Fatal(err)
	}
	v := reg.FreshVar()
	boxed, err := Apply(reg, built[0], []typesystem.Type{v})
	if err != nil {
		t.Fatal(err)
	}
	scheme, err := Generalize(reg, boxed)
	if err != nil {
		t.Fatal(err)
	}
	s := scheme.(*typesystem.Scheme)
	if s.Arity != 0 {
		t.Errorf("Arity = %d, want 0 (variables inside a DataType are not free for generalization)", s.Arity)
	}
	if s.Body != boxed {
		t.Error("generalizing a type with no generalizable free variables should leave the body untouched")
	}
}

func TestApplyArityMismatch(t *testing.T) {
	reg := registry.New()
	dummyType, err := reg.TypeFor(typesystem.DummyKey)
	if err != nil {
		t.Fatal(err)
	}
	defs := []DatatypeDef{{
		Name:  "option",
		Arity: 1,
		Ctors: []CtorDef{{Name: "NONE", Payload: dummyType.TypeKey()}},
	}}
	built, err := DataTypes(reg, defs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(reg, built[0], nil); err == nil {
		t.Error("Apply with the wrong argument count should fail")
	}
}
