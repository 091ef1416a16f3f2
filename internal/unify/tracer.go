package unify

import (
	"fmt"
	"os"

	"github.com/sorrel-lang/sorrel/internal/config"
)

// EventKind identifies one of spec §6's structured tracer events.
type EventKind int

const (
	EventDelete EventKind = iota
	EventDecompose
	EventVariable
	EventConflict
	EventCycle
	EventSwap
	EventSubstitute
)

func (k EventKind) String() string {
	switch k {
	case EventDelete:
		return "delete"
	case EventDecompose:
		return "decompose"
	case EventVariable:
		return "variable"
	case EventConflict:
		return "conflict"
	case EventCycle:
		return "cycle"
	case EventSwap:
		return "swap"
	case EventSubstitute:
		return "substitute"
	default:
		return "unknown"
	}
}

// Event is one structured notification of a rule firing (spec §6),
// carrying the pair the rule applied to.
type Event struct {
	Kind EventKind
	Pair Pair
}

// Tracer observes Unify's rule firings, for tests and diagnostics
// (spec §6). The zero value of any Tracer implementation that ignores
// every event is a valid no-op tracer.
type Tracer interface {
	Trace(Event)
}

// NoopTracer discards every event; Unify defaults to it when no
// tracer is supplied.
type NoopTracer struct{}

func (NoopTracer) Trace(Event) {}

// StderrTracer writes every event to stderr, gated behind
// config.TraceUnification so a production build pays nothing for it —
// the same gating idiom the teacher uses for its LSP-mode diagnostic
// logging.
type StderrTracer struct{}

func (StderrTracer) Trace(e Event) {
	if !config.TraceUnification {
		return
	}
	fmt.Fprintf(os.Stderr, "unify: %-10s %s ~ %s\n", e.Kind, e.Pair.Left, e.Pair.Right)
}
