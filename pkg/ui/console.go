package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console implements Loading, Alert and Confirm over a line-oriented
// terminal. Intended for CLI hosts; GUI hosts supply their own widgets.
type Console struct {
	In  io.Reader
	Out io.Writer

	// A single buffered reader across confirmations; a fresh one per call
	// would drop input it buffered past the consumed line.
	once   sync.Once
	reader *bufio.Reader
}

// NewConsole creates a Console reading from in and writing to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

func (c *Console) buffered() *bufio.Reader {
	c.once.Do(func() { c.reader = bufio.NewReader(c.In) })
	return c.reader
}

func (c *Console) Show(message string) {
	if message != "" {
		fmt.Fprintln(c.Out, message+"...")
	}
}

func (c *Console) Clear() {}

func (c *Console) Error(_ context.Context, title, message string) error {
	if title != "" {
		fmt.Fprintf(c.Out, "[%s] ", title)
	}
	_, err := fmt.Fprintln(c.Out, message)
	return err
}

// Info prompts with the ok/cancel labels and reads a single line. Anything
// other than "y"/"yes" (case-insensitive) counts as refusal.
func (c *Console) Info(_ context.Context, title, message, okLabel, cancelLabel string) error {
	if title != "" {
		fmt.Fprintf(c.Out, "[%s] ", title)
	}
	fmt.Fprintf(c.Out, "%s [y=%s/N=%s]: ", message, okLabel, cancelLabel)

	line, err := c.buffered().ReadString('\n')
	if err != nil && line == "" {
		return ErrCancelled
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}
