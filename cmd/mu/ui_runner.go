package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mu/internal/checkrun"
	"mu/internal/ui"
)

// runCheckWithUI runs req while a progress view follows its events.
// Quitting the view cancels the checks that have not finished.
func runCheckWithUI(ctx context.Context, title string, req *checkrun.Request) (checkrun.Result, error) {
	if req == nil {
		return checkrun.Result{}, errors.New("missing check request")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan checkrun.Event, 256)
	run := *req
	run.Progress = checkrun.ChannelSink{Ch: events}

	var (
		result checkrun.Result
		runErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer close(events)
		result, runErr = checkrun.Run(ctx, &run)
	}()

	final, uiErr := tea.NewProgram(
		ui.NewProgressModel(title, req.Files, events),
		tea.WithOutput(os.Stdout),
		tea.WithContext(ctx),
	).Run()
	stopped := uiErr != nil || ui.Interrupted(final)
	if stopped {
		cancel()
		// the view no longer reads; keep the sink from blocking workers
		go func() {
			for range events {
			}
		}()
	}
	<-finished

	switch {
	case uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled):
		return result, uiErr
	case stopped && runErr == nil:
		return result, context.Canceled
	}
	return result, runErr
}
