// Package interp splits template text around interpolation markers.
//
// Two marker forms are recognised:
//
//	{{ expr }}    escaped output
//	{{{ expr }}}  raw output
//
// Both forms are split by the same pattern; the difference only matters to the
// text directive that eventually renders the value. The content between the
// delimiters is opaque expression text and is never parsed here.
//
// Expression turns a text into a single concatenation expression:
//
//	Hello {{ name }}!  =>  'Hello '+ name +'!'
//
// Literal pieces are always present, even when empty, so the join stays
// well-formed when markers touch each other or the edges of the text.
package interp
