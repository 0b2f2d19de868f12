// Package compiler walks a template tree once, collects the nodes that need
// binding and hands them to directive factories.
//
// A pass has two halves. Schedule builds the task list: the root first when it
// carries directives, then every child in reverse document order, each one
// enqueued before its own subtree is visited. Children of late-compile nodes
// (k-if, k-for, k-pre) are left alone; the directive attached to that node owns
// them and recompiles a fresh copy when it needs to. Only the root's direct
// children see the scope passed to Compile, nested nodes are scheduled with a
// nil scope.
//
// Dispatch then constructs directives task by task: one instance per known
// directive attribute on element-like nodes, exactly one text directive for
// interpolated text nodes. Unknown names are skipped without error.
//
// A Compiler is single-threaded. Directives may call Compile again while a
// dispatch is running, as long as they pass a disjoint subtree.
package compiler
