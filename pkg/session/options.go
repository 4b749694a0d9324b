package session

import (
	"log/slog"

	"github.com/sessionlab/authkit/pkg/ui"
)

// Option configures a Manager during construction.
type Option func(*Manager)

// WithDeviceTokenLoader installs a platform-native credential source
// consulted before persisted storage during LoadToken.
func WithDeviceTokenLoader(loader DeviceTokenLoader) Option {
	return func(m *Manager) { m.deviceLoader = loader }
}

// WithConfirm sets the confirmation dialog used by ConfirmLogin.
func WithConfirm(confirm ui.Confirm) Option {
	return func(m *Manager) { m.confirm = confirm }
}

// WithNavigator sets the router used by ConfirmLogin.
func WithNavigator(navigator ui.Navigator) Option {
	return func(m *Manager) { m.navigator = navigator }
}

// WithLogger sets the logger for non-fatal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}
