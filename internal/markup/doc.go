// Package markup turns template source into a dom.Tree.
//
// Parsing is lenient: the tokenizer from golang.org/x/net/html never fails on
// malformed input, and structural problems (stray end tags, elements left
// open) are reported as diagnostics while the tree is still built. Every node
// and attribute keeps the byte span it came from so later passes can point at
// the source.
package markup
