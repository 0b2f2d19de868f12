// Package diag defines the diagnostic model shared by the markup parser, the
// template checker and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string ID (KB1001, ...), a short message, the primary source.Span and
// optional notes pointing at related spans.
//
// Producers emit through a Reporter so they never care where diagnostics end
// up. BagReporter collects into a Bag, which supports a limit, sorting,
// deduplication and merging. Rendering lives in internal/diagfmt.
//
// The compiler core never reports anything: unknown directives and malformed
// directive names are not errors there. The checker reports them so authors
// can find typos before runtime.
package diag
