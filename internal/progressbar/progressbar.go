// Package progressbar renders a progress.Sink as a terminal progress bar.
package progressbar

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
	lmsprogress "github.com/yuya-takeyama/lms/pkg/progress"
)

const (
	defaultInterval = 100 * time.Millisecond
	barWidth        = 40
)

var _ lmsprogress.Sink = (*Bar)(nil)

// Bar redraws a single line on every tick until Finish is called.
type Bar struct {
	w        io.Writer
	label    string
	model    progress.Model
	interval time.Duration

	total   atomic.Int64
	current atomic.Int64

	start   time.Time
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

type Option func(*Bar)

// WithInterval sets the redraw interval
func WithInterval(d time.Duration) Option {
	return func(b *Bar) { b.interval = d }
}

// New starts rendering a bar labelled label to w.
func New(w io.Writer, label string, opts ...Option) *Bar {
	b := &Bar{
		w:        w,
		label:    label,
		model:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		interval: defaultInterval,
		start:    time.Now(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.render()
	return b
}

// Enabled reports whether a bar should be drawn on w.
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (b *Bar) SetTotal(n int64) { b.total.Store(n) }

func (b *Bar) Increment(n int64) { b.current.Add(n) }

// Finish draws the final state and stops the render loop. It is safe to call
// more than once.
func (b *Bar) Finish() {
	b.once.Do(func() { close(b.done) })
	<-b.stopped
}

func (b *Bar) render() {
	defer close(b.stopped)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			fmt.Fprintf(b.w, "\r%s  %s\n", b.line(), time.Since(b.start).Round(time.Millisecond))
			return
		case <-ticker.C:
			fmt.Fprintf(b.w, "\r%s", b.line())
		}
	}
}

func (b *Bar) line() string {
	total, current := b.total.Load(), b.current.Load()
	return fmt.Sprintf("%s %s %d/%d", b.label, b.model.ViewAs(ratio(current, total)), current, total)
}

func ratio(current, total int64) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(current) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}
