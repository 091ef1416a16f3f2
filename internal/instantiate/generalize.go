package instantiate

import (
	"fmt"

	"github.com/sorrel-lang/sorrel/internal/registry"
	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// Generalize closes t over its free type variables (spec §4.3.2):
// collect them in post-order, skipping any ordinal that occurs only
// inside a nested DataType (those are bound by that datatype's own
// scheme, not by this one — spec §9's "Variable-collection for
// generalization" note, preserved literally here), renumber the
// survivors consecutively from 0, and wrap the renamed body in a
// Scheme of that arity.
func Generalize(reg *registry.Registry, t typesystem.Type) (typesystem.Type, error) {
	order := collectFreeVars(t)
	if len(order) == 0 {
		return reg.ForallType(0, t)
	}
	renumber := make(map[int]int, len(order))
	for i, ordinal := range order {
		renumber[ordinal] = i
	}
	body, err := renameFreeVars(reg, t, renumber)
	if err != nil {
		return nil, err
	}
	return reg.ForallType(len(order), body)
}

// collectFreeVars returns t's free variable ordinals in first-
// encountered (post-order-ish, left to right) order, without
// duplicates, never descending into a *typesystem.DataType's Args or
// Ctors.
func collectFreeVars(t typesystem.Type) []int {
	seen := make(map[int]bool)
	var order []int
	var visit func(typesystem.Type)
	visit = func(t typesystem.Type) {
		switch v := t.(type) {
		case *typesystem.Variable:
			if !seen[v.Ordinal] {
				seen[v.Ordinal] = true
				order = append(order, v.Ordinal)
			}
		case *typesystem.DataType:
			return
		default:
			for _, c := range t.Children() {
				visit(c)
			}
		}
	}
	visit(t)
	return order
}

// renameFreeVars rebuilds t with every free variable ordinal in
// renumber replaced by its renumbered counterpart, leaving the
// contents of any nested *typesystem.DataType untouched — the mirror
// image of collectFreeVars's traversal policy.
func renameFreeVars(reg *registry.Registry, t typesystem.Type, renumber map[int]int) (typesystem.Type, error) {
	switch v := t.(type) {
	case *typesystem.Variable:
		idx, ok := renumber[v.Ordinal]
		if !ok {
			return t, nil
		}
		return reg.TypeFor(typesystem.OrdinalKey{Ordinal: idx})

	case *typesystem.Primitive:
		return t, nil

	case *typesystem.DataType:
		return t, nil

	case *typesystem.Function:
		return rebuildRenamed(reg, t, v.Children(), renumber, func(c []typesystem.Type) (typesystem.Type, error) {
			return reg.FnType(c[0], c[1])
		})

	case *typesystem.ListType:
		return rebuildRenamed(reg, t, v.Children(), renumber, func(c []typesystem.Type) (typesystem.Type, error) {
			return reg.ListType(c[0])
		})

	case *typesystem.Tuple:
		return rebuildRenamed(reg, t, v.Children(), renumber, func(c []typesystem.Type) (typesystem.Type, error) {
			return reg.TupleType(c)
		})

	case *typesystem.Record:
		labels := v.Labels
		return rebuildRenamed(reg, t, v.Children(), renumber, func(c []typesystem.Type) (typesystem.Type, error) {
			fields := make(map[string]typesystem.Type, len(labels))
			for i, label := range labels {
				fields[label] = c[i]
			}
			return reg.RecordType(fields)
		})

	case *typesystem.Alias:
		name := v.Name
		return rebuildRenamed(reg, t, v.Children(), renumber, func(c []typesystem.Type) (typesystem.Type, error) {
			return reg.AliasType(name, c[0])
		})

	case *typesystem.Scheme:
		return t, nil

	default:
		return nil, &typesystem.InternalInvariantError{Detail: fmt.Sprintf("generalize: unrecognized Type %T", t)}
	}
}

func rebuildRenamed(
	reg *registry.Registry,
	self typesystem.Type,
	children []typesystem.Type,
	renumber map[int]int,
	rebuild func([]typesystem.Type) (typesystem.Type, error),
) (typesystem.Type, error) {
	out := make([]typesystem.Type, len(children))
	changed := false
	for i, c := range children {
		nc, err := renameFreeVars(reg, c, renumber)
		if err != nil {
			return nil, err
		}
		out[i] = nc
		if nc != c {
			changed = true
		}
	}
	if !changed {
		return self, nil
	}
	return rebuild(out)
}
