package binding

import (
	"fmt"
	"regexp"
	"strings"

	"kbind/internal/directive"
)

// ForScope is the scope a k-for template is compiled with.
type ForScope struct {
	Alias  string
	Index  string // empty when not requested
	Source string
	Parent directive.Scope
}

func (s *ForScope) String() string {
	own := s.Alias
	if s.Index != "" {
		own += ", " + s.Index
	}
	if s.Parent == nil {
		return own
	}
	return describeScope(s.Parent) + " > " + own
}

// Names returns every identifier visible in the scope, innermost first.
func (s *ForScope) Names() []string {
	names := []string{s.Alias}
	if s.Index != "" {
		names = append(names, s.Index)
	}
	if p, ok := s.Parent.(*ForScope); ok {
		names = append(names, p.Names()...)
	}
	return names
}

const ident = `[A-Za-z_$][\w$]*`

var forPattern = regexp.MustCompile(
	`^\s*(?:\(\s*(` + ident + `)\s*(?:,\s*(` + ident + `)\s*)?\)|(` + ident + `))\s+(?:in|of)\s+(\S.*?)\s*$`)

// ParseFor splits a k-for expression: "item in items", "(item, i) in items"
// or the same with "of".
func ParseFor(expr string) (alias, index, source string, err error) {
	m := forPattern.FindStringSubmatch(expr)
	if m == nil {
		return "", "", "", fmt.Errorf("expected \"item in list\" or \"(item, index) in list\", got %q", strings.TrimSpace(expr))
	}
	alias = m[1]
	if alias == "" {
		alias = m[3]
	}
	return alias, m[2], m[4], nil
}

func describeScope(scope directive.Scope) string {
	switch s := scope.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
