package ui

import (
	"context"
	"errors"
)

// ErrCancelled is returned by Confirm implementations when the user refuses.
var ErrCancelled = errors.New("ui.cancelled")

// Loading is a cross-cutting busy indicator. Every request through the
// transport shows it and every terminal outcome clears it.
type Loading interface {
	Show(message string)
	Clear()
}

// Alert presents a blocking informational message. Error returns once the
// user has dismissed the message.
type Alert interface {
	Error(ctx context.Context, title, message string) error
}

// Confirm presents a yes/no decision. Info returns nil on affirmation and
// ErrCancelled on refusal.
type Confirm interface {
	Info(ctx context.Context, title, message, okLabel, cancelLabel string) error
}

// Navigator is the opaque routing sink used to send the user to a named view.
type Navigator interface {
	Push(ctx context.Context, name string) error
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, name string) error

func (f NavigatorFunc) Push(ctx context.Context, name string) error { return f(ctx, name) }
