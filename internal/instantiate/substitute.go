// Package instantiate implements spec §4.3: substituting concrete
// argument types into a polymorphic Type (Scheme or Datatype),
// producing new canonical nodes through a Registry while preserving
// the sharing of any recursive cycle.
package instantiate

import (
	"fmt"

	"github.com/sorrel-lang/sorrel/internal/registry"
	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// ctxBox threads the single Transaction and per-DataType
// visited/placeholder map one substitution walk needs once it crosses
// into a recursive datatype (spec §4.3.1). It starts empty and is
// lazily populated the first time the walk actually reaches a
// DataType, then reused for the rest of that walk — so two branches
// of one Function or Tuple that both lead back to the same cyclic
// datatype share a single placeholder instead of diverging or
// duplicating it.
type ctxBox struct {
	reg     *registry.Registry
	txn     *registry.Transaction
	visited map[*typesystem.DataType]*typesystem.DataType
}

// Substitute is spec §4.3's entry point: replace self's bound
// parameters with args, building new canonical nodes through reg
// while preserving sharing. For empty args, Substitute is the
// identity — no allocation, per spec §8's "substitution identity" law.
func Substitute(reg *registry.Registry, self typesystem.Type, args []typesystem.Type) (typesystem.Type, error) {
	if len(args) == 0 {
		return self, nil
	}
	box := &ctxBox{reg: reg}
	result, err := substitute(box, self, args)
	if box.txn == nil {
		return result, err
	}
	if err != nil {
		_ = box.txn.Close(false)
		return nil, err
	}
	if cerr := box.txn.Close(true); cerr != nil {
		return nil, cerr
	}
	return result, nil
}

// Apply is spec §6's scheme/datatype application entry point. t must
// be a *typesystem.Scheme or a *typesystem.DataType; for a Scheme the
// argument count must equal its arity, for a DataType its Arity. A
// second Apply with the same (scheme_or_datatype, args) returns the
// identical object, since it bottoms out in the same interned
// placeholder keys as the first call (spec §8, scenario 2).
func Apply(reg *registry.Registry, t typesystem.Type, args []typesystem.Type) (typesystem.Type, error) {
	switch v := t.(type) {
	case *typesystem.Scheme:
		if len(args) != v.Arity {
			return nil, &typesystem.ArityMismatchError{Expected: v.Arity, Got: len(args)}
		}
		return Substitute(reg, v.Body, args)
	case *typesystem.DataType:
		if len(args) != v.Arity {
			return nil, &typesystem.ArityMismatchError{Name: v.Name, Expected: v.Arity, Got: len(args)}
		}
		return Substitute(reg, v, args)
	default:
		if len(args) == 0 {
			return t, nil
		}
		return nil, &typesystem.InternalInvariantError{Detail: fmt.Sprintf("apply: %T is not a scheme or datatype", t)}
	}
}

func substitute(box *ctxBox, self typesystem.Type, args []typesystem.Type) (typesystem.Type, error) {
	switch t := self.(type) {
	case *typesystem.Variable:
		if t.Ordinal < 0 || t.Ordinal >= len(args) {
			return self, nil
		}
		return args[t.Ordinal], nil

	case *typesystem.Primitive:
		return self, nil

	case *typesystem.Function:
		children, changed, err := substituteChildren(box, t.Children(), args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return self, nil
		}
		return box.reg.FnType(children[0], children[1])

	case *typesystem.ListType:
		children, changed, err := substituteChildren(box, t.Children(), args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return self, nil
		}
		return box.reg.ListType(children[0])

	case *typesystem.Tuple:
		children, changed, err := substituteChildren(box, t.Children(), args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return self, nil
		}
		return box.reg.TupleType(children)

	case *typesystem.Record:
		children, changed, err := substituteChildren(box, t.Children(), args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return self, nil
		}
		fields := make(map[string]typesystem.Type, len(t.Labels))
		for i, label := range t.Labels {
			fields[label] = children[i]
		}
		return box.reg.RecordType(fields)

	case *typesystem.Alias:
		children, changed, err := substituteChildren(box, t.Children(), args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return self, nil
		}
		return box.reg.AliasType(t.Name, children[0])

	case *typesystem.Scheme:
		// A nested Scheme owns its own ordinal space (spec §3: its body
		// references ordinals 0..arity-1 bound by itself); an outer
		// substitution does not reach inside it.
		return self, nil

	case *typesystem.DataType:
		return substituteDataType(box, t, args)

	default:
		return nil, &typesystem.InternalInvariantError{Detail: fmt.Sprintf("substitute: unrecognized Type %T", self)}
	}
}

func substituteChildren(box *ctxBox, children []typesystem.Type, args []typesystem.Type) ([]typesystem.Type, bool, error) {
	out := make([]typesystem.Type, len(children))
	changed := false
	for i, c := range children {
		nc, err := substitute(box, c, args)
		if err != nil {
			return nil, false, err
		}
		out[i] = nc
		if nc != c {
			changed = true
		}
	}
	return out, changed, nil
}
