// Package directive extracts directive descriptors from element attributes and
// maps directive names to constructors.
//
// A directive attribute is any attribute whose name contains the "k-" prefix:
//
//	k-<name>[:<param>]*="<expression>"
//
// The name is the token right after the prefix, parameters are the
// colon-separated tokens that follow, and the attribute value is the raw
// expression. Nothing here evaluates or validates expressions, and unknown
// names are not filtered: deciding whether a name is bound to an
// implementation is the Registry's job at dispatch time.
package directive
