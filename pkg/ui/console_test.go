package ui_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionlab/authkit/pkg/ui"
)

func TestConsole_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		confirm bool
	}{
		{"affirms on y", "y\n", true},
		{"affirms on yes", "YES\n", true},
		{"refuses on n", "n\n", false},
		{"refuses on empty line", "\n", false},
		{"refuses on eof", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			c := ui.NewConsole(strings.NewReader(tt.input), &out)

			err := c.Info(context.Background(), "Hint", "Log in again?", "OK", "Cancel")
			if tt.confirm {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ui.ErrCancelled)
			}
			assert.Contains(t, out.String(), "Log in again?")
		})
	}
}

func TestConsole_SequentialConfirmations(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := ui.NewConsole(strings.NewReader("y\nn\nyes\n"), &out)
	ctx := context.Background()

	require.NoError(t, c.Info(ctx, "Hint", "first?", "OK", "Cancel"))
	assert.ErrorIs(t, c.Info(ctx, "Hint", "second?", "OK", "Cancel"), ui.ErrCancelled)
	require.NoError(t, c.Info(ctx, "Hint", "third?", "OK", "Cancel"))
}

func TestConsole_Alert(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := ui.NewConsole(strings.NewReader(""), &out)

	require.NoError(t, c.Error(context.Background(), "Error", "something broke"))
	assert.Contains(t, out.String(), "[Error] something broke")
}

func TestNavigatorFunc(t *testing.T) {
	t.Parallel()

	var got string
	nav := ui.NavigatorFunc(func(_ context.Context, name string) error {
		got = name
		return nil
	})

	require.NoError(t, nav.Push(context.Background(), "Login"))
	assert.Equal(t, "Login", got)
}
