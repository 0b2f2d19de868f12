package interp

import (
	"fmt"
	"strings"
)

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

// Unquote reverses Quote.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", fmt.Errorf("not a quoted literal: %q", lit)
	}
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\'' {
			return "", fmt.Errorf("unescaped quote at %d in %q", i+1, lit)
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in %q", lit)
		}
		switch body[i] {
		case '\\', '\'':
			sb.WriteByte(body[i])
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'u':
			if i+4 >= len(body) {
				return "", fmt.Errorf("short unicode escape in %q", lit)
			}
			switch body[i+1 : i+5] {
			case "2028":
				sb.WriteString("\u2028")
			case "2029":
				sb.WriteString("\u2029")
			default:
				return "", fmt.Errorf("unsupported escape \\u%s in %q", body[i+1:i+5], lit)
			}
			i += 4
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", body[i], lit)
		}
	}
	return sb.String(), nil
}
