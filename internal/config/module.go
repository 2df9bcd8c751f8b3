// Package config provides configuration infrastructure and Fx modules.
package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides configuration dependencies.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Invoke(logReport),
)

// logReport surfaces configuration problems once the logger exists.
// A degraded load is deliberately not fatal: the process keeps running
// with automation disabled.
func logReport(report Report, logger *zap.Logger) {
	if report.Degraded {
		logger.Error("configuration load failed, running degraded with empty channel map",
			zap.String("path", report.Path),
			zap.Error(report.Err))
		return
	}
	logger.Info("configuration loaded", zap.String("path", report.Path))
}
