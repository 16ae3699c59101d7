package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyfmt/internal/driver"
	"pyfmt/internal/ui"
)

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

// runFormatWithUI drives FormatPaths behind a live progress display. The
// formatting goroutine owns the event channel and closes it when done, which
// quits the Bubble Tea program.
func runFormatWithUI(ctx context.Context, title string, paths []string, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	files, err := driver.ListSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.FormatPaths(ctx, paths, optsCopy)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
