// Package typing prints assistant replies with a paced, human-like typing
// effect.
package typing

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DefaultWidth is the column width replies are wrapped to.
const DefaultWidth = 80

// Range is an inclusive span of durations a delay is drawn from uniformly.
type Range struct {
	Min, Max time.Duration
}

func (r Range) pick(f float64) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(f*float64(r.Max-r.Min))
}

var (
	DefaultCharDelay        = Range{Min: 10 * time.Millisecond, Max: 50 * time.Millisecond}
	DefaultPunctuationPause = Range{Min: 100 * time.Millisecond, Max: 300 * time.Millisecond}
)

// Typewriter writes text one character at a time.
type Typewriter struct {
	out              io.Writer
	width            int
	charDelay        Range
	punctuationPause Range
	instant          bool
	color            *color.Color
	sleep            func(time.Duration)
	random           func() float64
}

// Option configures a Typewriter.
type Option func(*Typewriter)

// WithWidth sets the wrap width.
func WithWidth(width int) Option {
	return func(tw *Typewriter) { tw.width = width }
}

// WithInstant disables pacing; wrapped text is written at once.
func WithInstant(instant bool) Option {
	return func(tw *Typewriter) { tw.instant = instant }
}

// WithColor prints the text in c.
func WithColor(c *color.Color) Option {
	return func(tw *Typewriter) { tw.color = c }
}

// WithDelays overrides the per-character delay and the punctuation pause.
func WithDelays(char, punctuation Range) Option {
	return func(tw *Typewriter) {
		tw.charDelay = char
		tw.punctuationPause = punctuation
	}
}

// WithClock replaces time.Sleep and the random source, for tests.
func WithClock(sleep func(time.Duration), random func() float64) Option {
	return func(tw *Typewriter) {
		tw.sleep = sleep
		tw.random = random
	}
}

// New returns a Typewriter writing to out.
func New(out io.Writer, opts ...Option) *Typewriter {
	tw := &Typewriter{
		out:              out,
		width:            DefaultWidth,
		charDelay:        DefaultCharDelay,
		punctuationPause: DefaultPunctuationPause,
		sleep:            time.Sleep,
		random:           rand.Float64,
	}
	for _, opt := range opts {
		opt(tw)
	}
	return tw
}

func isPause(r rune) bool {
	return strings.ContainsRune(".!?,;:", r)
}

// Render wraps text and writes it followed by a newline.
func (tw *Typewriter) Render(text string) error {
	wrapped := Wrap(text, tw.width)

	if tw.instant {
		if err := tw.write(wrapped); err != nil {
			return err
		}
		_, err := fmt.Fprintln(tw.out)
		return err
	}

	for _, r := range wrapped {
		if err := tw.write(string(r)); err != nil {
			return err
		}
		tw.sleep(tw.charDelay.pick(tw.random()))
		if isPause(r) {
			tw.sleep(tw.punctuationPause.pick(tw.random()))
		}
	}
	_, err := fmt.Fprintln(tw.out)
	return err
}

func (tw *Typewriter) write(s string) error {
	var err error
	if tw.color != nil {
		_, err = tw.color.Fprint(tw.out, s)
	} else {
		_, err = io.WriteString(tw.out, s)
	}
	return err
}
