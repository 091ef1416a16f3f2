// Package config holds small package-level toggles shared across the
// type core, in the same spirit as funxy's config.IsTestMode /
// config.IsLSPMode: cheap global switches that gate deterministic or
// verbose behavior without threading a context value through every call.
package config

// DeterministicNames, when true, makes OrdinalKey.Describe (and so
// Key.String) render a type variable as "t" followed by its ordinal
// (t0, t1, ...) instead of a quoted letter ('a, 'b, ...). Both forms
// are derived from the ordinal itself; the ordinals are not renumbered,
// and datatype names are rendered the same either way.
var DeterministicNames = false

// TraceUnification, when true, makes unify.StderrTracer print
// structured events to stderr instead of discarding them. Off by default.
// Unify's own default tracer (used when no tracer is passed) is
// unify.NoopTracer, which ignores this toggle.
var TraceUnification = false
