// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the platform has no usable clipboard
// utility.
var ErrUnavailable = errors.New("no clipboard utility available")

// Writer puts text on the clipboard.
type Writer func(text string) error

// Clipboard writes text to the system clipboard.
type Clipboard struct {
	write     Writer
	supported func() bool
}

// Option configures a Clipboard.
type Option func(*Clipboard)

// WithWriter replaces the clipboard backend.
func WithWriter(w Writer) Option {
	return func(c *Clipboard) { c.write = w }
}

// WithSupported overrides platform detection.
func WithSupported(fn func() bool) Option {
	return func(c *Clipboard) { c.supported = fn }
}

// New creates a clipboard backed by pbcopy, clip, wl-copy, xclip or xsel,
// whichever the platform provides.
func New(opts ...Option) *Clipboard {
	c := &Clipboard{
		write:     clipboard.WriteAll,
		supported: func() bool { return !clipboard.Unsupported },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether Copy can reach a clipboard.
func (c *Clipboard) Available() bool {
	return c.supported()
}

// Copy writes text to the clipboard. The write itself cannot be interrupted,
// so ctx is only checked before starting.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.supported() {
		return ErrUnavailable
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Copy writes text to the clipboard of the running platform.
func Copy(ctx context.Context, text string) error {
	return New().Copy(ctx, text)
}
