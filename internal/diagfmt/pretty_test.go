package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"kbind/internal/diag"
	"kbind/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/site")
	content := []byte("<p k-text=\"msg\"></q>\n")
	fileID := fs.AddVirtual("/home/user/site/templates/index.html", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.MarkupStrayEndTag,
		source.Span{File: fileID, Start: 16, End: 20},
		"end tag </q> has no matching start tag",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/site/templates/index.html:1:17"},
		{"Relative path", PathModeRelative, "templates/index.html:1:17"},
		{"Basename only", PathModeBasename, "index.html:1:17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, Context: 1})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR KB1001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.html", []byte("<div>\n  <b k-fro=\"x in xs\"></b>\n</div>\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.DirectiveUnknown,
		source.Span{File: fileID, Start: 11, End: 16}, "unknown directive \"fro\""))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "a.html:2:6: WARNING KB2001: unknown directive \"fro\"\n" +
		"2 |   <b k-fro=\"x in xs\"></b>\n" +
		"  |      ^~~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestUnderlineWideRunes(t *testing.T) {
	line := "<p>日本 {{x}}</p>"
	// "日本 " is 7 bytes and 5 columns wide
	start := source.LineCol{Line: 1, Col: 11}
	end := source.LineCol{Line: 1, Col: 16}
	got := underline(line, start, end)
	want := strings.Repeat(" ", 8) + "^~~~~"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("n.html", []byte("<li k-for=\"x in xs\" k-for=\"y in ys\"></li>\n"))

	bag := diag.NewBag(1)
	d := diag.New(diag.SevWarning, diag.DirectiveDuplicate,
		source.Span{File: fileID, Start: 20, End: 35}, "directive \"for\" repeated").
		WithNote(source.Span{File: fileID, Start: 4, End: 19}, "first occurrence")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: n.html:1:5: first occurrence") {
		t.Errorf("expected note with location, got:\n%s", buf.String())
	}
}
