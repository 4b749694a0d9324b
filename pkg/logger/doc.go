// Package logger builds configured slog.Logger instances for the toolkit.
//
// Components accept a *slog.Logger via their options and default to
// slog.Default(); this package is a convenience for hosts that want a
// consistently configured logger without hand-assembling slog handlers.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(slog.String("service", "authkit")),
//	)
package logger
