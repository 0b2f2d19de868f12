package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kbind/internal/driver"
	"kbind/internal/source"
	"kbind/internal/ui"
)

type dirOutcome struct {
	fs  *source.FileSet
	res *driver.DirResult
	err error
}

// compileDirWithUI runs CompileDir while a Bubble Tea model renders the
// progress events. The TUI draws on stderr so stdout stays parseable.
func compileDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, *driver.DirResult, error) {
	files, err := driver.ListTemplates(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		fs, res, err := driver.CompileDir(ctx, dir, o)
		outcomeCh <- dirOutcome{fs: fs, res: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	for range events {
		// досчитываем события, если UI завершился раньше
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.res, uiErr
	}
	return outcome.fs, outcome.res, outcome.err
}
