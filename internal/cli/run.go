package cli

import (
	"context"
	"time"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/presentation/tui"
	"github.com/aretw0/voyant/pkg/planner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ServerURL string
	Interval  time.Duration
	Headless  bool
	NoBanner  bool
	Debug     bool
}

// Run starts the interactive wizard against a planning service.
func Run(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	client := planner.NewClient(opts.ServerURL, planner.WithLogger(logger))
	wizard := voyant.NewWithClient(client,
		voyant.WithLogger(logger),
		voyant.WithPollInterval(opts.Interval),
	)

	runner := voyant.NewRunner()
	runner.Headless = opts.Headless

	if !opts.Headless && isInteractive() {
		if !opts.NoBanner {
			tui.PrintBanner()
		}
		runner.Renderer = tui.NewRenderer()
	}

	sc := NewSignalContext(context.Background())
	defer sc.Cancel()

	return handleExecutionError(runner.Run(sc, wizard))
}
