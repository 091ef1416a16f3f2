// Package typesystem defines the canonical node shapes of the type
// core (spec §3): Type Keys (structural identifiers) and the Type
// nodes they identify. Neither a Key nor a Type is ever mutated after
// construction, apart from a DataType's Ctors, which a registry
// Transaction fills in after building the placeholder; the Registry
// (package registry) is the only thing that decides when a new node
// gets built.
package typesystem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sorrel-lang/sorrel/internal/config"
)

// precedence levels used by Key.Describe, loosely following spec §6's
// printer table. Higher binds tighter; a child is parenthesized when
// its own precedence is lower than the minimum its parent requires.
const (
	precTop    = 0   // top level / inside braces or parens — nothing required
	precTuple  = 10  // "*" joined tuple
	precFn     = 20  // "->" function arrow
	precPrefix = 100 // postfix application (list, option, ...) and atoms
)

// Key is the structural identifier of a Type (spec §3, §4.1). Two
// Types are equal iff their Keys are equal; Keys hash and compare by
// structure, never by the identity of the Types or Keys that produced
// them.
type Key interface {
	fmt.Stringer

	// Digest returns a canonical, order-independent string encoding
	// of this key's structure. Two keys with equal Digest are the
	// same key. The Registry uses Digest as its by_key map key, so it
	// doubles as the hash-cons handle (spec §9: "Key hashing must
	// avoid pointer hashing of child types").
	Digest() string

	// Equal reports structural equality, defined as Digest equality.
	Equal(other Key) bool

	// Describe renders the key to buf, parenthesizing iff the
	// enclosing context's minPrec exceeds this key's own precedence.
	Describe(buf *strings.Builder, minPrec int)

	// Substitute returns a new key with every ordinal key i replaced
	// by args[i], recursing through composite keys. Leaf keys other
	// than ordinals return themselves unchanged.
	Substitute(args []Key) Key

	// precedence is this key's own binding strength, used by
	// Describe to decide whether a child needs parens.
	precedence() int
}

func describeString(k Key) string {
	var sb strings.Builder
	k.Describe(&sb, precTop)
	return sb.String()
}

func maybeParen(buf *strings.Builder, k Key, minPrec int, body func(*strings.Builder)) {
	if k.precedence() < minPrec {
		buf.WriteByte('(')
		body(buf)
		buf.WriteByte(')')
	} else {
		body(buf)
	}
}

// substituteAll substitutes a whole key slice, sharing the backing
// array only when nothing actually changed (mirrors the
// rebuild-only-if-changed discipline spec §4.3 asks of Type.Apply).
func substituteAll(keys []Key, args []Key) []Key {
	changed := false
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = k.Substitute(args)
		if out[i] != k {
			changed = true
		}
	}
	if !changed {
		return keys
	}
	return out
}

// ---- NameKey : primitives and nullary constants ----

// NameKey identifies a primitive or other nullary named type (spec
// §4.1's name(string) constructor).
type NameKey struct {
	Name string
}

func (k NameKey) Digest() string               { return "N:" + k.Name }
func (k NameKey) Equal(o Key) bool              { return o != nil && k.Digest() == o.Digest() }
func (k NameKey) String() string               { return describeString(k) }
func (k NameKey) precedence() int              { return precPrefix }
func (k NameKey) Substitute(args []Key) Key     { return k }
func (k NameKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteString(k.Name)
}

// ---- OrdinalKey : bound/inference type variables ----

// OrdinalKey identifies a type variable by its non-negative ordinal
// (spec §4.1's ordinal(int) constructor). Distinct ordinals are
// distinct variables; nothing else about an OrdinalKey carries
// identity.
type OrdinalKey struct {
	Ordinal int
}

func (k OrdinalKey) Digest() string  { return "O:" + strconv.Itoa(k.Ordinal) }
func (k OrdinalKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k OrdinalKey) String() string  { return describeString(k) }
func (k OrdinalKey) precedence() int { return precPrefix }

func (k OrdinalKey) Substitute(args []Key) Key {
	if k.Ordinal < 0 || k.Ordinal >= len(args) {
		return k
	}
	return args[k.Ordinal]
}

func (k OrdinalKey) Describe(buf *strings.Builder, minPrec int) {
	if config.DeterministicNames {
		buf.WriteString("t")
		buf.WriteString(strconv.Itoa(k.Ordinal))
		return
	}
	buf.WriteString("'")
	buf.WriteString(varLetter(k.Ordinal))
}

func varLetter(ordinal int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	if ordinal < len(letters) {
		return string(letters[ordinal])
	}
	return string(letters[ordinal%len(letters)]) + strconv.Itoa(ordinal/len(letters))
}

// ---- FnKey : function types ----

// FnKey is a function type's key: parameter then result, right
// associative when printed (spec §4.1).
type FnKey struct {
	Arg, Ret Key
}

func (k FnKey) Digest() string  { return "F(" + k.Arg.Digest() + "," + k.Ret.Digest() + ")" }
func (k FnKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k FnKey) String() string  { return describeString(k) }
func (k FnKey) precedence() int { return precFn }

func (k FnKey) Substitute(args []Key) Key {
	arg, ret := k.Arg.Substitute(args), k.Ret.Substitute(args)
	if arg == k.Arg && ret == k.Ret {
		return k
	}
	return FnKey{Arg: arg, Ret: ret}
}

func (k FnKey) Describe(buf *strings.Builder, minPrec int) {
	maybeParen(buf, k, minPrec, func(buf *strings.Builder) {
		// left operand is non-associative: a fn on the left always
		// needs parens, so require precedence strictly above our own.
		k.Arg.Describe(buf, precFn+1)
		buf.WriteString(" -> ")
		// right operand chains without parens: "a -> b -> c".
		k.Ret.Describe(buf, precFn)
	})
}

// ---- ListKey ----

// ListKey is a list type's key, printed postfix ("int list").
type ListKey struct {
	Elem Key
}

func (k ListKey) Digest() string  { return "L(" + k.Elem.Digest() + ")" }
func (k ListKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k ListKey) String() string  { return describeString(k) }
func (k ListKey) precedence() int { return precPrefix }

func (k ListKey) Substitute(args []Key) Key {
	elem := k.Elem.Substitute(args)
	if elem == k.Elem {
		return k
	}
	return ListKey{Elem: elem}
}

func (k ListKey) Describe(buf *strings.Builder, minPrec int) {
	maybeParen(buf, k, minPrec, func(buf *strings.Builder) {
		k.Elem.Describe(buf, precFn+1)
		buf.WriteString(" list")
	})
}

// ---- TupleKey ----

// TupleKey is an ordered tuple key, length >= 2, joined by "*".
type TupleKey struct {
	Elems []Key
}

func (k TupleKey) Digest() string {
	parts := make([]string, len(k.Elems))
	for i, e := range k.Elems {
		parts[i] = e.Digest()
	}
	return "T(" + strings.Join(parts, ",") + ")"
}
func (k TupleKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k TupleKey) String() string  { return describeString(k) }
func (k TupleKey) precedence() int { return precTuple }

func (k TupleKey) Substitute(args []Key) Key {
	elems := substituteAll(k.Elems, args)
	if elems == nil || sameSlice(elems, k.Elems) {
		return k
	}
	return TupleKey{Elems: elems}
}

func (k TupleKey) Describe(buf *strings.Builder, minPrec int) {
	maybeParen(buf, k, minPrec, func(buf *strings.Builder) {
		for i, e := range k.Elems {
			if i > 0 {
				buf.WriteString(" * ")
			}
			// a fn operand binds looser than "*" (precFn < precPrefix but
			// precFn > precTuple), so precTuple+1 alone lets it through
			// unparenthesized; require precFn+1 like FnKey's own operands do.
			e.Describe(buf, precFn+1)
		}
	})
}

func sameSlice(a, b []Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---- RecordKey ----

// RecordKey is a record key: label set plus aligned field keys, always
// stored in the canonical ascending order of §4.1 so Digest is
// insertion-order independent.
type RecordKey struct {
	Labels []string // canonically ordered, see key_label.go
	Fields []Key    // Fields[i] is the type of Labels[i]
}

// NewRecordKey builds a RecordKey from an unordered label->key map,
// canonicalizing the label order (numeric labels first by numeric
// value, then non-numeric labels lexicographically). Returns a
// TupleKey instead when the label set is exactly {"1",...,"n"} for
// n>=2, and a bare element key when n==1 (spec §4.1's contiguous-
// integer detection; unit has n==0 and is handled by the caller, which
// always has a NameKey for "unit" available).
func NewRecordKey(fields map[string]Key) Key {
	labels := sortLabels(fields)
	if shape, ok := tupleShape(labels); ok {
		switch shape {
		case tupleShapeSingle:
			return fields[labels[0]]
		case tupleShapeTuple:
			elems := make([]Key, len(labels))
			for i, l := range labels {
				elems[i] = fields[l]
			}
			return TupleKey{Elems: elems}
		}
	}
	ks := make([]Key, len(labels))
	for i, l := range labels {
		ks[i] = fields[l]
	}
	return RecordKey{Labels: labels, Fields: ks}
}

func (k RecordKey) Digest() string {
	parts := make([]string, len(k.Labels))
	for i, l := range k.Labels {
		parts[i] = l + ":" + k.Fields[i].Digest()
	}
	return "R{" + strings.Join(parts, ",") + "}"
}
func (k RecordKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k RecordKey) String() string  { return describeString(k) }
func (k RecordKey) precedence() int { return precPrefix }

func (k RecordKey) Substitute(args []Key) Key {
	fields := substituteAll(k.Fields, args)
	if sameSlice(fields, k.Fields) {
		return k
	}
	return RecordKey{Labels: k.Labels, Fields: fields}
}

func (k RecordKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteByte('{')
	for i, l := range k.Labels {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(l)
		buf.WriteByte(':')
		k.Fields[i].Describe(buf, precTop)
	}
	buf.WriteByte('}')
}

// ---- DummyKey : nullary-constructor payload ----

// dummyKey is the single distinguished payload type denoting a
// nullary datatype constructor.
type dummyKey struct{}

// DummyKey is the one instance of the dummy payload key.
var DummyKey Key = dummyKey{}

func (dummyKey) Digest() string              { return "!dummy" }
func (k dummyKey) Equal(o Key) bool           { return o != nil && k.Digest() == o.Digest() }
func (dummyKey) String() string              { return "<>" }
func (dummyKey) precedence() int             { return precPrefix }
func (k dummyKey) Substitute(args []Key) Key { return k }
func (dummyKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteString("<>")
}

// ---- AliasKey ----

// AliasKey names a transparent alias over another key: unification
// peels it, display prefers the name (spec §4.5).
type AliasKey struct {
	Name string
	Body Key
}

func (k AliasKey) Digest() string  { return "A:" + k.Name + "=" + k.Body.Digest() }
func (k AliasKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k AliasKey) String() string  { return describeString(k) }
func (k AliasKey) precedence() int { return precPrefix }

func (k AliasKey) Substitute(args []Key) Key {
	body := k.Body.Substitute(args)
	if body == k.Body {
		return k
	}
	return AliasKey{Name: k.Name, Body: body}
}

func (k AliasKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteString(k.Name)
}

// ---- DataTypeKey ----

// DataTypeKey identifies an algebraic datatype application: a name,
// its applied argument keys (empty for an unapplied scheme), and its
// ordered constructor-name -> payload-key map (spec §4.1's
// datatype(name, arity, [arg_k...], {ctor:payload_k,...})).
//
// Digest deliberately ignores Ctors and is computed from Name/Arity/
// Args alone. Datatypes are nominal, not structural: within one
// Registry a Name is installed with exactly one shape (spec §3's
// "Mutual recursion" and "Datatype closure" invariants — a group
// either all commits or none does, so a committed Name never has two
// competing ctor maps). Naively hashing Ctors would also have to
// expand a constructor's own payload, which may be — directly or via
// a mutually recursive sibling — this very DataTypeKey again; spec §4.3
// calls this out explicitly ("Naïvely substituting into the
// constructor list of a recursive datatype diverges"), and the same
// divergence would hit a naive Digest. Name/Arity/Args is exactly the
// "post-substitution key" spec §4.3.1 step 2 computes to memoize the
// DFS before a single constructor payload has been resolved, which
// only makes sense if that key never needed the ctors in the first
// place.
type DataTypeKey struct {
	Name  string
	Arity int
	Args  []Key
	Ctors []CtorKey
}

// CtorKey is one constructor-name/payload-key pair of a DataTypeKey.
type CtorKey struct {
	Name    string
	Payload Key
}

func (k DataTypeKey) Digest() string {
	argParts := make([]string, len(k.Args))
	for i, a := range k.Args {
		argParts[i] = a.Digest()
	}
	return fmt.Sprintf("D:%s/%d(%s)", k.Name, k.Arity, strings.Join(argParts, ","))
}

func (k DataTypeKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k DataTypeKey) String() string  { return describeString(k) }
func (k DataTypeKey) precedence() int { return precPrefix }

// Substitute is intentionally shallow: it only substitutes ordinals
// appearing in Args, producing the "post-substitution key" of spec
// §4.3.1 step 2. It does NOT attempt to substitute through Ctors —
// that is the hard recursive-datatype problem spec §4.3.1 solves at
// the Type level, with a Transaction and placeholders, in package
// instantiate; doing it here at the Key level would recurse through a
// cyclic constructor graph with no memoization and never terminate.
// Ctors is carried over unchanged (and ignored by Digest/Equal), so
// the result is only ever useful as a lookup key, never as a
// fully-resolved key.
func (k DataTypeKey) Substitute(args []Key) Key {
	newArgs := substituteAll(k.Args, args)
	if sameSlice(newArgs, k.Args) {
		return k
	}
	return DataTypeKey{Name: k.Name, Arity: k.Arity, Args: newArgs, Ctors: k.Ctors}
}

func (k DataTypeKey) Describe(buf *strings.Builder, minPrec int) {
	maybeParen(buf, k, minPrec, func(buf *strings.Builder) {
		switch len(k.Args) {
		case 0:
			buf.WriteString(k.Name)
		case 1:
			k.Args[0].Describe(buf, precFn+1)
			buf.WriteByte(' ')
			buf.WriteString(k.Name)
		default:
			buf.WriteByte('(')
			for i, a := range k.Args {
				if i > 0 {
					buf.WriteString(", ")
				}
				a.Describe(buf, precTop)
			}
			buf.WriteByte(')')
			buf.WriteByte(' ')
			buf.WriteString(k.Name)
		}
	})
}

func sortCtorKeys(ctors []CtorKey) {
	for i := 1; i < len(ctors); i++ {
		for j := i; j > 0 && ctors[j-1].Name > ctors[j].Name; j-- {
			ctors[j-1], ctors[j] = ctors[j], ctors[j-1]
		}
	}
}

// ---- ForallKey (Scheme) ----

// ForallKey identifies a universally quantified scheme: a body whose
// free ordinals 0..arity-1 are bound, plus the arity itself (spec
// §4.1's forall(body_k, arity)).
type ForallKey struct {
	Body  Key
	Arity int
}

func (k ForallKey) Digest() string  { return fmt.Sprintf("Forall/%d(%s)", k.Arity, k.Body.Digest()) }
func (k ForallKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k ForallKey) String() string  { return describeString(k) }
func (k ForallKey) precedence() int { return precPrefix }

func (k ForallKey) Substitute(args []Key) Key {
	// Schemes are only ever substituted-into via Apply (which peels
	// the quantifier first); substituting through a live ForallKey
	// would capture its own bound ordinals, so treat it as opaque.
	return k
}

func (k ForallKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteString("forall ")
	for i := 0; i < k.Arity; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString("'")
		buf.WriteString(varLetter(i))
	}
	buf.WriteString(". ")
	k.Body.Describe(buf, precTop)
}

