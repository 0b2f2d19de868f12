package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"kbind/internal/diag"
	"kbind/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgHiBlack),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}
		prettyOne(w, d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown\n", n) //nolint:errcheck
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(f, opts.PathMode, fs.BaseDir())

	fmt.Fprintf(w, "%s: %s %s: %s\n", //nolint:errcheck
		p.loc.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)
	writeSnippet(w, f, start, end, int(opts.Context), p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s: %s\n", //nolint:errcheck
			p.note.Sprint("note:"),
			fmt.Sprintf("%s:%d:%d", formatPath(nf, opts.PathMode, fs.BaseDir()), ns.Line, ns.Col),
			n.Msg,
		)
	}
}

// writeSnippet prints the primary line with context and a caret underline.
// Multi-line spans are underlined to the end of the first line.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	context = max(context, 0)
	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + context
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln)) //nolint:gosec
		if ln > int(start.Line) && text == "" {
			break
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text) //nolint:errcheck
		if ln != int(start.Line) {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", //nolint:errcheck
			p.gutter.Sprintf("%*s |", width, ""),
			p.caret.Sprint(underline(text, start, end)),
		)
	}
}

// underline builds "   ^~~~" aligned with the display width of the line prefix.
func underline(line string, start, end source.LineCol) string {
	from := int(start.Col) - 1
	if from > len(line) {
		from = len(line)
	}
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	if to < from {
		to = from
	}

	var b strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	span := runewidth.StringWidth(line[from:to])
	b.WriteByte('^')
	if span > 1 {
		b.WriteString(strings.Repeat("~", span-1))
	}
	return b.String()
}
