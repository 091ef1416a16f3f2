package unify

// Action is spec §4.4's overload-resolution hook: fired immediately
// after Variable v is bound to Term t during the eliminate rule. add
// lets the action enqueue further pairs into the in-progress
// unification (e.g. to narrow an OverloadedTerm elsewhere in the
// problem); it must not mutate current directly, since the
// Substitution is still being built.
type Action func(v Variable, t Term, current *Substitution, add func(left, right Term))

// Actions maps a Variable's ordinal to the Action that fires when
// that variable is bound. A Variable absent from the map has no
// action.
type Actions map[int]Action

// maxActionDepth bounds how many pairs-added-by-an-action can
// themselves trigger another action before Unify stops firing them
// (spec §4.4: "depth of re-entrant action firing is bounded (<=2) to
// prevent loops when the action swaps the arguments"). Depth 0 is an
// ordinary pair from the initial problem; each hop through an
// action's add callback increments it.
const maxActionDepth = 2
