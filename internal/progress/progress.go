// Package progress shows a progress bar while a batch of replay scripts runs.
package progress

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/ui"
)

// Bar is a progress bar that degrades to debug logging when it cannot be
// drawn.
type Bar struct {
	bar    *progressbar.ProgressBar
	logger *slog.Logger
	desc   string
	done   int
	max    int
}

// Options configures a Bar.
type Options struct {
	// Max is the number of steps.
	Max int
	// Description is shown before the bar.
	Description string
	// Writer receives the bar. Defaults to os.Stderr.
	Writer io.Writer
	// Logger receives start and finish records when the bar is hidden.
	// Defaults to logging.Default().
	Logger *slog.Logger
}

// New creates a bar. It draws only on a color terminal and stays hidden at
// debug level so it does not interleave with log lines.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	b := &Bar{logger: opts.Logger, desc: opts.Description, max: opts.Max}
	if !visible(opts.Writer, opts.Logger) {
		b.logger.Debug(opts.Description+" started", slog.Int("count", opts.Max))
		return b
	}

	b.bar = progressbar.NewOptions(opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Step advances the bar by one and names the item that finished.
func (b *Bar) Step(item string) {
	b.done++
	if b.bar == nil {
		b.logger.Debug(b.desc+" step", logging.Path(item), slog.Int("done", b.done), slog.Int("count", b.max))
		return
	}
	b.bar.Describe(b.desc + " " + item)
	_ = b.bar.Add(1)
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.bar == nil {
		b.logger.Debug(b.desc+" completed", slog.Int("done", b.done))
		return
	}
	_ = b.bar.Finish()
}

// Visible reports whether the bar is drawn.
func (b *Bar) Visible() bool {
	return b.bar != nil
}

// Done returns the number of completed steps.
func (b *Bar) Done() int {
	return b.done
}

func visible(w io.Writer, logger *slog.Logger) bool {
	if !ui.IsColorEnabled() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return !logger.Enabled(context.Background(), logging.LevelDebug)
}
