package interp

// SegmentKind tells literal text apart from marker content.
type SegmentKind uint8

const (
	SegmentLiteral SegmentKind = iota
	SegmentExpr
)

func (k SegmentKind) String() string {
	if k == SegmentExpr {
		return "expr"
	}
	return "literal"
}

// Delim is the marker form an expression segment was written with.
type Delim uint8

const (
	DelimNone    Delim = iota // literal segments
	DelimEscaped              // {{ }}
	DelimRaw                  // {{{ }}}
)

func (d Delim) String() string {
	switch d {
	case DelimEscaped:
		return "{{}}"
	case DelimRaw:
		return "{{{}}}"
	default:
		return "none"
	}
}

// Segment is one piece of a split text. For expression segments Text holds
// the content with delimiters removed and surrounding whitespace intact.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Delim Delim
}

// IsExpr reports whether the segment came from a marker.
func (s Segment) IsExpr() bool {
	return s.Kind == SegmentExpr
}

// Source returns the segment as it appeared in the original text.
func (s Segment) Source() string {
	switch s.Delim {
	case DelimEscaped:
		return "{{" + s.Text + "}}"
	case DelimRaw:
		return "{{{" + s.Text + "}}}"
	default:
		return s.Text
	}
}
