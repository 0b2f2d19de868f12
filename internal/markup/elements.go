package markup

import "golang.org/x/net/html/atom"

// isVoid reports elements that never have content or an end tag.
func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// optionalEnd lists elements whose end tag HTML lets authors omit.
func optionalEnd(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Li, atom.P, atom.Dt, atom.Dd, atom.Option, atom.Optgroup,
		atom.Tr, atom.Td, atom.Th, atom.Thead, atom.Tbody, atom.Tfoot,
		atom.Colgroup, atom.Rt, atom.Rp:
		return true
	}
	return false
}

// autoCloses reports whether a start tag for next ends an open element with
// an optional end tag.
func autoCloses(open, next string) bool {
	o, n := atom.Lookup([]byte(open)), atom.Lookup([]byte(next))
	switch o {
	case atom.Li:
		return n == atom.Li
	case atom.Dt, atom.Dd:
		return n == atom.Dt || n == atom.Dd
	case atom.P:
		switch n {
		case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Dl, atom.Table, atom.Section,
			atom.Article, atom.Header, atom.Footer, atom.Form, atom.Pre, atom.Blockquote,
			atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			return true
		}
	case atom.Option:
		return n == atom.Option || n == atom.Optgroup
	case atom.Optgroup:
		return n == atom.Optgroup
	case atom.Td, atom.Th:
		return n == atom.Td || n == atom.Th || n == atom.Tr
	case atom.Tr:
		return n == atom.Tr
	case atom.Thead, atom.Tbody:
		return n == atom.Tbody || n == atom.Tfoot
	case atom.Rt, atom.Rp:
		return n == atom.Rt || n == atom.Rp
	}
	return false
}
