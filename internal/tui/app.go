// Package tui hosts the interactive configuration editor.
package tui

import (
	"context"

	"github.com/rivo/tview"
)

// App defines the minimal API the command layer needs from the editor.
type App interface {
	Run(ctx context.Context) error
	Stop()
}

// run launches a tview application and watches for context cancellation.
func run(ctx context.Context, ui *tview.Application) error {
	if ctx == nil {
		ctx = context.Background()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- ui.Run()
	}()

	select {
	case <-ctx.Done():
		ui.Stop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
