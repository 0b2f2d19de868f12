// Package binding is the reference directive set. Instead of wiring a live
// reactive system, every directive records what it would bind into a
// plan.Plan, which makes a compile pass observable from the CLI and in tests.
//
// The late-compile directives drive nested compilation the way a runtime
// would: k-if and k-for clone their children into a fresh fragment and
// compile that fragment with a scope, k-pre leaves its subtree alone.
package binding
