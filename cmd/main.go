package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/songnote/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	err := app.Run(context.Background(), os.Args)
	if closeErr := runner.Close(); closeErr != nil {
		logger.Warn("failed to close database", "error", closeErr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
