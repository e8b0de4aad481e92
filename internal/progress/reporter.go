package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter shows that a blocking step is in progress.
type Reporter interface {
	Start(message string)
	Stop()
}

// Interactive reports whether f is a terminal outside CI, i.e. whether a
// spinner on it would be seen by a person.
func Interactive(f *os.File) bool {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewReporter returns a spinner writing to w when enabled, otherwise a
// reporter that does nothing.
func NewReporter(w io.Writer, enabled bool) Reporter {
	if !enabled {
		return NopReporter{}
	}
	return &SpinnerReporter{w: w, interval: 100 * time.Millisecond}
}

// SpinnerReporter animates an indeterminate spinner until Stop is called.
type SpinnerReporter struct {
	w        io.Writer
	interval time.Duration

	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

func (r *SpinnerReporter) Start(message string) {
	r.Stop()

	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	_ = r.bar.Add(1)

	r.done = make(chan struct{})
	r.wg.Add(1)
	go func(bar *progressbar.ProgressBar, done <-chan struct{}) {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}(r.bar, r.done)
}

func (r *SpinnerReporter) Stop() {
	if r.bar == nil {
		return
	}
	close(r.done)
	r.wg.Wait()
	_ = r.bar.Finish()
	r.bar = nil
}

// NopReporter discards progress updates.
type NopReporter struct{}

func (NopReporter) Start(string) {}
func (NopReporter) Stop()        {}
