package registry

import (
	"github.com/google/uuid"

	"github.com/sorrel-lang/sorrel/internal/typesystem"
)

// Transaction is the scoped handle spec §4.2/§4.3.1 requires for
// building or instantiating a recursive datatype group: it remembers
// every by_name/by_key entry it installed provisionally, and on Close
// either commits them (running every scheduled Replace) or undoes them
// entirely, so a failure partway through a mutually recursive group
// never leaves a placeholder visible to any other caller.
//
// ID correlates a Transaction's placeholder installs and replacements
// in a trace the way the teacher's LSP handlers correlate a request
// across log lines; it carries no semantic weight for substitution.
type Transaction struct {
	id   uuid.UUID
	reg  *Registry
	done bool

	installedKeys  []string
	installedNames []string
	replacements   []replacement
}

type replacement struct {
	name  string
	thunk func() (typesystem.Type, error)
}

// Transaction opens a new Transaction against r (spec §4.2's
// transaction()). The caller must Close it exactly once, on every
// exit path — typically via a `defer`-guarded bool flipped to true
// only once construction reaches its end without error:
//
//	txn := reg.Transaction()
//	ok := false
//	defer func() { _ = txn.Close(ok) }()
//	... build the group ...
//	ok = true
//	return result, nil
func (r *Registry) Transaction() *Transaction {
	return &Transaction{id: uuid.New(), reg: r}
}

// ID returns the Transaction's correlation id.
func (t *Transaction) ID() uuid.UUID { return t.id }

// InstallPlaceholder provisionally registers a DataType under key's
// digest (and, the first time key.Name is seen, under key.Name too),
// with an empty constructor list, so that DFS back-edges — direct or
// mutual recursion — resolve to it before its constructors are known
// (spec §4.3.1 step 2). args are the already-substituted argument
// types for this occurrence. If key is already installed (by an
// earlier step of the same DFS, or by a prior committed Transaction),
// the existing Type is returned unchanged.
func (t *Transaction) InstallPlaceholder(key typesystem.DataTypeKey, args []typesystem.Type) *typesystem.DataType {
	if existing, ok := t.reg.byKey[key.Digest()]; ok {
		return existing.(*typesystem.DataType)
	}
	dt := typesystem.NewDataType(key, key.Name, key.Arity, args, nil)
	t.reg.byKey[key.Digest()] = dt
	t.installedKeys = append(t.installedKeys, key.Digest())
	if _, exists := t.reg.byName[key.Name]; !exists {
		t.reg.byName[key.Name] = dt
		t.installedNames = append(t.installedNames, key.Name)
	}
	return dt
}

// FillCtors finalizes a placeholder's constructor list once its
// payloads have all been resolved by the DFS. DataTypeKey.Digest
// depends only on Name/Arity/Args (see key.go), so dt keeps its
// identity across this call — no caller that already holds a pointer
// to dt, or a reference to it from a sibling's payload, needs to be
// revisited.
func (t *Transaction) FillCtors(dt *typesystem.DataType, ctors []typesystem.Ctor) {
	dt.Ctors = ctors
}

// Replace schedules name to be rebound, at Close, to whatever thunk
// returns — spec §4.3.1 step 4's "swap at the last moment so no caller
// sees a placeholder escape". Because FillCtors updates a placeholder
// in place, thunk will typically just return the same *DataType it was
// given, now with Ctors populated; Replace still exists so by_name
// is only ever observed, after a successful Close, bound to a
// definitive Type — never to an intermediate placeholder with a
// provisional or empty constructor list.
func (t *Transaction) Replace(name string, thunk func() (typesystem.Type, error)) {
	t.replacements = append(t.replacements, replacement{name: name, thunk: thunk})
}

// Close commits the Transaction if ok is true — running every
// scheduled Replace, in the order it was scheduled — or rolls it back
// if ok is false, removing every by_key/by_name entry it installed so
// the Registry is exactly as it was before the Transaction began
// (spec §8's "transaction atomicity"). A thunk error during commit
// also rolls back. Close is idempotent: calling it again is a no-op.
func (t *Transaction) Close(ok bool) error {
	if t.done {
		return nil
	}
	t.done = true
	if ok {
		for _, rep := range t.replacements {
			def, err := rep.thunk()
			if err == nil {
				t.reg.byName[rep.name] = def
				continue
			}
			t.rollback()
			return err
		}
		return nil
	}
	t.rollback()
	return nil
}

func (t *Transaction) rollback() {
	for _, k := range t.installedKeys {
		delete(t.reg.byKey, k)
	}
	for _, n := range t.installedNames {
		delete(t.reg.byName, n)
	}
}
