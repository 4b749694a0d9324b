package ui

import "context"

// NoopLoading discards all loading state changes.
type NoopLoading struct{}

func (NoopLoading) Show(string) {}
func (NoopLoading) Clear()      {}

// NoopAlert dismisses every alert immediately.
type NoopAlert struct{}

func (NoopAlert) Error(context.Context, string, string) error { return nil }

// NoopConfirm affirms every confirmation immediately. Use DenyConfirm for the
// opposite behavior.
type NoopConfirm struct{}

func (NoopConfirm) Info(context.Context, string, string, string, string) error { return nil }

// DenyConfirm refuses every confirmation.
type DenyConfirm struct{}

func (DenyConfirm) Info(context.Context, string, string, string, string) error {
	return ErrCancelled
}

// NoopNavigator ignores navigation requests.
type NoopNavigator struct{}

func (NoopNavigator) Push(context.Context, string) error { return nil }
