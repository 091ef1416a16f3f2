package typesystem

import "strings"

// This file holds the three seams spec §4.5 calls out explicitly as
// "not central to the core": Alias (see types.go), progressive
// records, and overloaded types. Both seam types below are ordinary
// Types that the unifier (package unify) special-cases in exactly one
// rule each, rather than entwining the main Martelli–Montanari loop
// with their semantics.

// DiscoverFunc looks up a not-yet-seen label on a progressive record
// and returns the Type it should have, or (nil, false) if the record
// truly has no such field.
type DiscoverFunc func(label string) (Type, bool)

// ProgressiveRecord is a Record that may grow new fields on demand:
// unifying it against another progressive record intersects (rather
// than requires-equal) their field sets (spec §4.5): a field only one
// side has is accepted when either side's Discover hook knows its
// label. Unification never extends either record's Labels/Fields.
type ProgressiveRecord struct {
	*Record
	Discover DiscoverFunc
}

// NewProgressiveRecord wraps an already-built Record with a discovery
// hook.
func NewProgressiveRecord(r *Record, discover DiscoverFunc) *ProgressiveRecord {
	return &ProgressiveRecord{Record: r, Discover: discover}
}

// Overloaded is a finite set of candidate types a variable may yet
// resolve to; unifying it against a concrete type intersects the
// candidate set, and the overload resolves once exactly one candidate
// survives (spec §4.5). Overloaded values are transient query-time
// constructs, not interned Registry nodes — they have no canonical
// Key, only a display rendering.
type Overloaded struct {
	Candidates []Type
}

// NewOverloaded builds an Overloaded seam value over the given
// candidate set.
func NewOverloaded(candidates []Type) *Overloaded {
	return &Overloaded{Candidates: candidates}
}

func (o *Overloaded) TypeKey() Key { return overloadKey{candidates: o.Candidates} }

func (o *Overloaded) Children() []Type { return o.Candidates }

func (o *Overloaded) String() string {
	parts := make([]string, len(o.Candidates))
	for i, c := range o.Candidates {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, " | ") + "}"
}

// Intersect returns the candidates o shares with other, by key
// equality, and whether the result has narrowed to exactly one type
// (the overload has resolved).
func (o *Overloaded) Intersect(other *Overloaded) (candidates []Type, resolved bool) {
	for _, c := range o.Candidates {
		for _, d := range other.Candidates {
			if c.TypeKey().Equal(d.TypeKey()) {
				candidates = append(candidates, c)
				break
			}
		}
	}
	return candidates, len(candidates) == 1
}

// overloadKey is a display-only Key for Overloaded values; it is never
// registered or compared for interning purposes (Overloaded has no
// canonical identity, see Overloaded's doc comment).
type overloadKey struct {
	candidates []Type
}

func (k overloadKey) Digest() string {
	parts := make([]string, len(k.candidates))
	for i, c := range k.candidates {
		parts[i] = c.TypeKey().Digest()
	}
	return "Overload{" + strings.Join(parts, "|") + "}"
}
func (k overloadKey) Equal(o Key) bool { return o != nil && k.Digest() == o.Digest() }
func (k overloadKey) String() string  { return describeString(k) }
func (k overloadKey) precedence() int { return precPrefix }
func (k overloadKey) Substitute(args []Key) Key { return k }
func (k overloadKey) Describe(buf *strings.Builder, minPrec int) {
	buf.WriteByte('{')
	for i, c := range k.candidates {
		if i > 0 {
			buf.WriteString(" | ")
		}
		buf.WriteString(c.TypeKey().String())
	}
	buf.WriteByte('}')
}
