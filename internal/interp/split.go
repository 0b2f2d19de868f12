package interp

import (
	"regexp"
	"strings"
)

// pattern matches one marker. The raw form is tried first so that
// "{{{x}}}" is not read as "{{" + "{x" + "}}" followed by a stray brace.
var pattern = regexp.MustCompile(`\{\{\{([^}]+)\}\}\}|\{\{([^}]+)\}\}`)

// Has reports whether text contains at least one interpolation marker.
func Has(text string) bool {
	return pattern.MatchString(text)
}

// Split cuts text into alternating literal and expression segments. The
// result always starts and ends with a literal; empty literals are kept.
func Split(text string) []Segment {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	segs := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		segs = append(segs, Segment{Kind: SegmentLiteral, Text: text[last:m[0]]})
		if m[2] >= 0 {
			segs = append(segs, Segment{Kind: SegmentExpr, Text: text[m[2]:m[3]], Delim: DelimRaw})
		} else {
			segs = append(segs, Segment{Kind: SegmentExpr, Text: text[m[4]:m[5]], Delim: DelimEscaped})
		}
		last = m[1]
	}
	segs = append(segs, Segment{Kind: SegmentLiteral, Text: text[last:]})
	return segs
}

// Expression builds the concatenation expression for text: literals are
// quoted, expression content is inserted verbatim, pieces are joined with '+'.
func Expression(text string) string {
	return Concat(Split(text))
}

// Concat joins already split segments into a concatenation expression.
func Concat(segs []Segment) string {
	var sb strings.Builder
	for i, s := range segs {
		if i > 0 {
			sb.WriteByte('+')
		}
		if s.IsExpr() {
			sb.WriteString(s.Text)
		} else {
			sb.WriteString(Quote(s.Text))
		}
	}
	return sb.String()
}

// Join restores the original text from its segments.
func Join(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Source())
	}
	return sb.String()
}

// Expressions returns only the expression segments of text.
func Expressions(text string) []Segment {
	var out []Segment
	for _, s := range Split(text) {
		if s.IsExpr() {
			out = append(out, s)
		}
	}
	return out
}
