package instantiate

import (
	"fmt"

	"github.com/sorrel-lang/sorrel/internal/registry"
	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// DatatypeDef and CtorDef describe one member of a (possibly mutually
// recursive) group of datatypes to declare via DataTypes (spec §6's
// "Each def is (name, parameter_count, arg_keys, {ctor_name:
// payload_key})"). A Ctor's Payload key references its own quantified
// parameters with typesystem.OrdinalKey(0..Arity-1), and any — direct
// or mutual — recursive sibling with typesystem.DataTypeKey{Name:
// sibling, Arity: sibling's arity, Args: nil}: the same unapplied-
// scheme key the sibling itself ends up registered under.
type DatatypeDef struct {
	Name  string
	Arity int
	Ctors []CtorDef
}

// CtorDef is one constructor of a DatatypeDef: a name and a payload
// key. Use typesystem.DummyKey for a nullary constructor.
type CtorDef struct {
	Name    string
	Payload typesystem.Key
}

// DataTypes declares a group of datatypes and returns their canonical
// Types in input order (spec §6's dataTypes(defs)). It runs spec
// §4.3.1's placeholder construction at declaration time rather than
// at instantiation time: every member is installed as a placeholder,
// under its own name, before any constructor payload is resolved, so
// a cross-reference anywhere in the group — direct or mutual
// recursion — always finds an already-interned node to point to. If
// any constructor payload is malformed (step 3 fails, e.g. an
// out-of-group datatype reference), the whole group rolls back: no
// partial datatype escapes (spec §3's "Mutual recursion" invariant,
// §8's "transaction atomicity").
func DataTypes(reg *registry.Registry, defs []DatatypeDef) ([]typesystem.Type, error) {
	txn := reg.Transaction()
	ok := false
	defer func() { _ = txn.Close(ok) }()

	placeholders := make(map[string]*typesystem.DataType, len(defs))
	for _, def := range defs {
		key := typesystem.DataTypeKey{Name: def.Name, Arity: def.Arity}
		placeholders[def.Name] = txn.InstallPlaceholder(key, nil)
	}

	results := make([]typesystem.Type, len(defs))
	for i, def := range defs {
		dt := placeholders[def.Name]
		if len(def.Ctors) == 0 {
			return nil, &typesystem.InternalInvariantError{
				Detail: fmt.Sprintf("datatype %q has zero constructors: legal only as an intermediate placeholder, never committed", def.Name),
			}
		}
		ctors := make([]typesystem.Ctor, len(def.Ctors))
		for j, c := range def.Ctors {
			payload, err := resolveDeclPayload(reg, placeholders, c.Payload)
			if err != nil {
				return nil, err
			}
			ctors[j] = typesystem.Ctor{Name: c.Name, Payload: payload}
		}
		txn.FillCtors(dt, ctors)
		results[i] = dt

		final := dt
		txn.Replace(def.Name, func() (typesystem.Type, error) { return final, nil })
	}

	ok = true
	return results, nil
}

// resolveDeclPayload builds the Type for a constructor payload key
// during group declaration. It mirrors Registry.TypeFor's key-to-Type
// construction, except that a DataTypeKey naming a member still being
// declared in this same group is redirected to that member's
// placeholder — Registry.TypeFor refuses to build a DataTypeKey it has
// not already interned, precisely to force every datatype reference through this
// group-aware path instead of one that would recurse into a cyclic
// constructor graph with no way to stop.
func resolveDeclPayload(reg *registry.Registry, placeholders map[string]*typesystem.DataType, key typesystem.Key) (typesystem.Type, error) {
	switch k := key.(type) {
	case typesystem.DataTypeKey:
		if placeholder, inGroup := placeholders[k.Name]; inGroup {
			return placeholder, nil
		}
		return nil, &typesystem.InternalInvariantError{
			Detail: fmt.Sprintf("datatype reference %q is not part of this declaration group", k.Name),
		}
	case typesystem.FnKey:
		arg, err := resolveDeclPayload(reg, placeholders, k.Arg)
		if err != nil {
			return nil, err
		}
		ret, err := resolveDeclPayload(reg, placeholders, k.Ret)
		if err != nil {
			return nil, err
		}
		return reg.FnType(arg, ret)
	case typesystem.ListKey:
		elem, err := resolveDeclPayload(reg, placeholders, k.Elem)
		if err != nil {
			return nil, err
		}
		return reg.ListType(elem)
	case typesystem.TupleKey:
		elems := make([]typesystem.Type, len(k.Elems))
		for i, ek := range k.Elems {
			e, err := resolveDeclPayload(reg, placeholders, ek)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return reg.TupleType(elems)
	case typesystem.RecordKey:
		fields := make(map[string]typesystem.Type, len(k.Fields))
		for i, fk := range k.Fields {
			f, err := resolveDeclPayload(reg, placeholders, fk)
			if err != nil {
				return nil, err
			}
			fields[k.Labels[i]] = f
		}
		return reg.RecordType(fields)
	case typesystem.AliasKey:
		body, err := resolveDeclPayload(reg, placeholders, k.Body)
		if err != nil {
			return nil, err
		}
		return reg.AliasType(k.Name, body)
	default:
		// NameKey, OrdinalKey, and the dummy key contain no nested key,
		// so the ordinary Registry builder handles them directly. A
		// ForallKey also goes to the Registry builder, which resolves an
		// in-group datatype reference in its body only by the
		// placeholder's already-interned digest.
		return reg.TypeFor(key)
	}
}

// substituteDataType is the hard case of spec §4.3: §4.3.1's
// recursive-datatype substitution, reached from substitute when a
// walk arrives at a *typesystem.DataType. It walks dt's already-built
// constructor graph (rather than raw keys, since by the time a
// DataType exists its group was already resolved once by DataTypes),
// substituting args for ordinals and redirecting any DataType
// reachable through a constructor payload to the placeholder installed
// for its post-substitution key — memoized on the *source* pointer in
// box.visited, which is exactly how a direct or mutual cycle in dt's
// constructor graph is detected and broken.
func substituteDataType(box *ctxBox, dt *typesystem.DataType, args []typesystem.Type) (typesystem.Type, error) {
	if box.txn == nil {
		box.txn = box.reg.Transaction()
		box.visited = make(map[*typesystem.DataType]*typesystem.DataType)
	}
	if placeholder, ok := box.visited[dt]; ok {
		return placeholder, nil
	}
	if len(args) != dt.Arity {
		return nil, &typesystem.ArityMismatchError{Name: dt.Name, Expected: dt.Arity, Got: len(args)}
	}

	argKeys := make([]typesystem.Key, len(args))
	for i, a := range args {
		argKeys[i] = a.TypeKey()
	}
	postKey := typesystem.DataTypeKey{Name: dt.Name, Arity: dt.Arity, Args: argKeys}
	placeholder := box.txn.InstallPlaceholder(postKey, args)
	box.visited[dt] = placeholder

	ctors := make([]typesystem.Ctor, len(dt.Ctors))
	for i, c := range dt.Ctors {
		payload, err := substitute(box, c.Payload, args)
		if err != nil {
			return nil, err
		}
		ctors[i] = typesystem.Ctor{Name: c.Name, Payload: payload}
	}
	box.txn.FillCtors(placeholder, ctors)
	return placeholder, nil
}
