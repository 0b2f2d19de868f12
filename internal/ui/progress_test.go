package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"kbind/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("compiling templates", []string{"a.html", "b.html"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.html", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("status after parse = %q", got)
	}
	m.Update(eventMsg{File: "a.html", Stage: driver.StageCompile, Status: driver.StatusDone})
	m.Update(eventMsg{File: "b.html", Stage: driver.StageCompile, Status: driver.StatusCached})
	m.Update(eventMsg{File: "unknown.html", Stage: driver.StageParse, Status: driver.StatusWorking})

	if m.finished() != 2 {
		t.Fatalf("finished = %d, want 2", m.finished())
	}
	if p := m.percent(); p != 1.0 {
		t.Errorf("percent = %v, want 1", p)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: compiling templates (2/2)", "cached b.html", "done a.html"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("templates/index.html", 10); got != "templat..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a.html", 10); got != "a.html" {
		t.Errorf("truncate = %q", got)
	}
	for _, width := range []int{4, 8, 12} {
		got := truncate("templates/partials/header.html", width)
		if w := runewidth.StringWidth(got); w != width {
			t.Errorf("truncate width %d: got %q (width %d)", width, got, w)
		}
	}
}
