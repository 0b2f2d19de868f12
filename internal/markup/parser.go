package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"kbind/internal/diag"
	"kbind/internal/dom"
	"kbind/internal/source"
)

// Options tunes tree construction.
type Options struct {
	// KeepWhitespace keeps text nodes made only of whitespace.
	KeepWhitespace bool
}

type openElement struct {
	id   dom.NodeID
	tag  string
	span source.Span
}

type parser struct {
	tree  *dom.Tree
	file  source.FileID
	opts  Options
	rep   diag.Reporter
	stack []openElement
	off   uint32
}

// Parse builds the tree for a loaded file. The root is a fragment spanning the
// whole file. Problems are sent to r, which may be nil.
func Parse(fs *source.FileSet, file source.FileID, opts Options, r diag.Reporter) (*dom.Tree, dom.NodeID) {
	if r == nil {
		r = diag.NopReporter{}
	}
	content := fs.Get(file).Content
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("template too large: %w", err))
	}

	p := &parser{
		tree: dom.NewTree(),
		file: file,
		opts: opts,
		rep:  r,
	}
	root := p.tree.NewFragment(source.Span{File: file, Start: 0, End: size})
	p.stack = append(p.stack, openElement{id: root})
	p.run(content)
	p.closeAll()
	return p.tree, root
}

func (p *parser) span(start, end uint32) source.Span {
	return source.Span{File: p.file, Start: start, End: end}
}

func (p *parser) top() dom.NodeID {
	return p.stack[len(p.stack)-1].id
}

func (p *parser) run(content []byte) {
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		raw := z.Raw()
		start := p.off
		n, err := safecast.Conv[uint32](len(raw))
		if err != nil {
			panic(fmt.Errorf("token too large: %w", err))
		}
		p.off += n
		sp := p.span(start, p.off)

		switch tt {
		case html.ErrorToken:
			if zerr := z.Err(); !errors.Is(zerr, io.EOF) {
				diag.ReportError(p.rep, diag.MarkupInvalidToken, sp, zerr.Error()).Emit()
			}
			return
		case html.TextToken:
			p.text(string(z.Text()), sp)
		case html.CommentToken:
			p.tree.Append(p.top(), p.tree.NewComment(string(z.Text()), sp))
		case html.StartTagToken, html.SelfClosingTagToken:
			p.startTag(z, raw, sp, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			p.endTag(string(name), sp)
		case html.DoctypeToken:
			// not part of the template
		}
	}
}

func (p *parser) text(data string, sp source.Span) {
	if !p.opts.KeepWhitespace && strings.TrimSpace(data) == "" {
		return
	}
	p.tree.Append(p.top(), p.tree.NewText(data, sp))
}

func (p *parser) startTag(z *html.Tokenizer, raw []byte, sp source.Span, selfClosing bool) {
	// raw is overwritten by the next z.Next, copy what the attribute scan needs
	lowered := bytes.ToLower(raw)
	name, hasAttr := z.TagName()
	tag := string(name)

	var attrs []dom.Attr
	cursor := min(len(tag)+1, len(lowered))
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrSpan := sp
		if i := bytes.Index(lowered[cursor:], key); i >= 0 {
			from := cursor + i
			attrSpan = sp.Sub(uint32(from), uint32(from+len(key))) //nolint:gosec
			cursor = from + len(key)
		}
		attrs = append(attrs, dom.Attr{Name: string(key), Value: string(val), Span: attrSpan})
	}

	for len(p.stack) > 1 && autoCloses(p.stack[len(p.stack)-1].tag, tag) {
		p.finish(p.stack[len(p.stack)-1], sp.Start)
		p.stack = p.stack[:len(p.stack)-1]
	}

	id := p.tree.NewElement(tag, attrs, sp)
	p.tree.Append(p.top(), id)
	if selfClosing || isVoid(atom.Lookup(name)) {
		return
	}
	p.stack = append(p.stack, openElement{id: id, tag: tag, span: sp})
}

func (p *parser) endTag(tag string, sp source.Span) {
	match := -1
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i].tag == tag {
			match = i
			break
		}
	}
	if match < 0 {
		if !isVoid(atom.Lookup([]byte(tag))) {
			diag.ReportWarning(p.rep, diag.MarkupStrayEndTag, sp,
				fmt.Sprintf("end tag </%s> has no matching start tag", tag)).Emit()
		}
		return
	}
	for i := len(p.stack) - 1; i > match; i-- {
		open := p.stack[i]
		p.finish(open, sp.Start)
		if optionalEnd(open.tag) {
			continue
		}
		diag.ReportWarning(p.rep, diag.MarkupUnclosedElement, open.span,
			fmt.Sprintf("element <%s> is closed implicitly by </%s>", open.tag, tag)).
			WithNote(sp, "closed here").
			Emit()
	}
	p.finish(p.stack[match], sp.End)
	p.stack = p.stack[:match]
}

// closeAll closes everything left open at end of input.
func (p *parser) closeAll() {
	for i := len(p.stack) - 1; i > 0; i-- {
		open := p.stack[i]
		p.finish(open, p.off)
		if optionalEnd(open.tag) {
			continue
		}
		diag.ReportError(p.rep, diag.MarkupUnclosedElement, open.span,
			fmt.Sprintf("element <%s> is never closed", open.tag)).Emit()
	}
	p.stack = p.stack[:1]
}

func (p *parser) finish(open openElement, end uint32) {
	if n := p.tree.Get(open.id); n != nil {
		n.Span.End = end
	}
}
