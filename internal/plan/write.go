package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// Format selects a plan writer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPretty, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown plan format %q (want pretty, json or yaml)", s)
}

// Write renders plans in format f.
func Write(w io.Writer, f Format, plans ...*Plan) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, plans...)
	case FormatYAML:
		return WriteYAML(w, plans...)
	default:
		for _, p := range plans {
			if err := WritePretty(w, p); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteJSON writes one object for a single plan, an array otherwise.
func WriteJSON(w io.Writer, plans ...*Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(plans) == 1 {
		return enc.Encode(plans[0])
	}
	return enc.Encode(plans)
}

// WriteYAML writes plans as a stream of YAML documents.
func WriteYAML(w io.Writer, plans ...*Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, p := range plans {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode plan %s: %w", p.File, err)
		}
	}
	return enc.Close()
}

const exprWidth = 48

// WritePretty prints one line per binding. Bindings from materialized
// templates are indented by their nesting depth.
func WritePretty(w io.Writer, p *Plan) error {
	if _, err := fmt.Fprintf(w, "%s  (%d bindings, %d templates)\n", p.File, len(p.Bindings), p.Templates); err != nil {
		return err
	}
	nameWidth := 0
	for _, b := range p.Bindings {
		nameWidth = max(nameWidth, runewidth.StringWidth(b.Directive))
	}
	for _, b := range p.Bindings {
		var line strings.Builder
		line.WriteString(strings.Repeat("  ", b.Depth+1))
		fmt.Fprintf(&line, "#%-3d %s  %s", b.Seq,
			runewidth.FillRight(fmt.Sprintf("%d:%d", b.Line, b.Col), 7),
			runewidth.FillRight(b.Directive, nameWidth))
		if len(b.Params) > 0 {
			fmt.Fprintf(&line, ":%s", strings.Join(b.Params, ":"))
		}
		if b.Tag != "" {
			fmt.Fprintf(&line, "  <%s>", b.Tag)
		}
		fmt.Fprintf(&line, "  %s", runewidth.Truncate(oneLine(b.Expression), exprWidth, "…"))
		if b.Scope != "" {
			fmt.Fprintf(&line, "  [scope: %s]", b.Scope)
		}
		line.WriteByte('\n')
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
