package unify

import "fmt"

// Substitution is the result of a successful Unify: a map from
// inference-variable ordinal to the Term it resolves to (spec §4.4).
// Apply fully resolves chains (v0 -> v1, v1 -> int yields int for v0),
// since the eliminate rule only rewrites pending pairs, not earlier
// bindings already recorded in the result.
type Substitution struct {
	bindings map[int]Term
	order    []int
}

func newSubstitution() *Substitution {
	return &Substitution{bindings: make(map[int]Term)}
}

func (s *Substitution) bind(v Variable, t Term) {
	if _, exists := s.bindings[v.Ordinal]; !exists {
		s.order = append(s.order, v.Ordinal)
	}
	s.bindings[v.Ordinal] = t
}

// Lookup returns the Term v is bound to directly, if any (not
// transitively resolved — see Apply for that).
func (s *Substitution) Lookup(v Variable) (Term, bool) {
	t, ok := s.bindings[v.Ordinal]
	return t, ok
}

// Len reports how many variables this Substitution binds.
func (s *Substitution) Len() int { return len(s.order) }

// Ordinals returns the bound variable ordinals in binding order.
func (s *Substitution) Ordinals() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Apply rewrites t by the recorded bindings to a fixed point, so a
// chain of bound variables resolves all the way through.
func (s *Substitution) Apply(t Term) Term {
	for {
		next, changed := s.applyOnce(t)
		if !changed {
			return next
		}
		t = next
	}
}

func (s *Substitution) applyOnce(t Term) (Term, bool) {
	switch x := t.(type) {
	case Variable:
		if bound, ok := s.bindings[x.Ordinal]; ok {
			return bound, true
		}
		return x, false
	case Atom:
		return x, false
	case Sequence:
		args := make([]Term, len(x.Args))
		changed := false
		for i, a := range x.Args {
			na, ch := s.applyOnce(a)
			args[i] = na
			if ch {
				changed = true
			}
		}
		if !changed {
			return x, false
		}
		return Sequence{Symbol: x.Symbol, Args: args}, true
	default:
		return t, false
	}
}

// Failure is returned by Unify when pairs admit no unifier: always
// exactly one of *Conflict or *Cycle (spec §4.4, §7 kinds 3-4).
type Failure interface {
	error
	isFailure()
}

// Conflict is the Sequence-Sequence rule's failure: two Sequences (or
// Atoms) whose operator or arity disagree, so no substitution can
// reconcile them.
type Conflict struct {
	Left, Right Term
}

func (*Conflict) isFailure() {}
func (c *Conflict) Error() string {
	return fmt.Sprintf("unify: conflict between %s and %s", c.Left, c.Right)
}

// Cycle is the occurs-check failure: binding Variable to Term would
// require Term to contain Variable.
type Cycle struct {
	Variable Variable
	Term     Term
}

func (*Cycle) isFailure() {}
func (c *Cycle) Error() string {
	return fmt.Sprintf("unify: %s occurs in %s", c.Variable, c.Term)
}

// Unify runs spec §4.4's three-queue Martelli–Montanari main loop over
// pairs to either a most-general Substitution or a Failure. actions,
// if non-nil, fires when a Variable with a registered Action is bound.
// tracer, if nil, defaults to NoopTracer{}.
func Unify(pairs []Pair, actions Actions, tracer Tracer) (*Substitution, Failure) {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	q := &queues{tracer: tracer}
	for _, p := range pairs {
		q.add(p)
	}
	sub := newSubstitution()

	for !q.empty() {
		switch {
		case len(q.deleteQ) > 0:
			p := pop(&q.deleteQ)
			tracer.Trace(Event{Kind: EventDelete, Pair: p})

		case len(q.seqSeqQ) > 0:
			p := pop(&q.seqSeqQ)
			if isSeam(p.Left) || isSeam(p.Right) {
				if conflict := resolveSeam(p, q); conflict != nil {
					tracer.Trace(Event{Kind: EventConflict, Pair: p})
					return nil, conflict
				}
				continue
			}
			leftSym, leftArgs := decomposeKey(p.Left)
			rightSym, rightArgs := decomposeKey(p.Right)
			if leftSym != rightSym || len(leftArgs) != len(rightArgs) {
				tracer.Trace(Event{Kind: EventConflict, Pair: p})
				return nil, &Conflict{Left: p.Left, Right: p.Right}
			}
			tracer.Trace(Event{Kind: EventDecompose, Pair: p})
			for i := range leftArgs {
				q.add(Pair{Left: leftArgs[i], Right: rightArgs[i], depth: p.depth})
			}

		default:
			p := pop(&q.varAnyQ)
			v := p.Left.(Variable)
			t := p.Right
			if contains(t, v) {
				tracer.Trace(Event{Kind: EventCycle, Pair: p})
				return nil, &Cycle{Variable: v, Term: t}
			}
			sub.bind(v, t)
			tracer.Trace(Event{Kind: EventVariable, Pair: p})
			q.eliminate(v, t)

			if actions != nil && p.depth < maxActionDepth {
				if action, ok := actions[v.Ordinal]; ok {
					depth := p.depth
					add := func(left, right Term) {
						q.add(Pair{Left: left, Right: right, depth: depth + 1})
					}
					action(v, t, sub, add)
				}
			}
		}
	}
	return sub, nil
}
