// Package infrastructure provides reusable infrastructure components for Go applications.
package infrastructure

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter adapts a zap.SugaredLogger to the fxevent.Logger
// interface so Fx's own lifecycle events land in the application log.
type FxLoggerAdapter struct {
	logger *zap.SugaredLogger
}

// NewFxLoggerAdapter creates a new Fx logger adapter that implements fxevent.Logger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger.Sugar()}
}

// LogEvent implements fxevent.Logger. Routine wiring events log at
// debug; anything carrying an error logs at error level.
func (p *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			p.logger.Errorf("OnStart failed: %s: %v", e.FunctionName, e.Err)
		} else {
			p.logger.Debugf("OnStart executed: %s (%s)", e.FunctionName, e.Runtime)
		}
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			p.logger.Errorf("OnStop failed: %s: %v", e.FunctionName, e.Err)
		} else {
			p.logger.Debugf("OnStop executed: %s (%s)", e.FunctionName, e.Runtime)
		}
	case *fxevent.Provided:
		if e.Err != nil {
			p.logger.Errorf("provide failed: %v", e.Err)
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			p.logger.Errorf("invoke failed: %s: %v", e.FunctionName, e.Err)
		}
	case *fxevent.Stopping:
		p.logger.Infof("stopping: %s", e.Signal)
	case *fxevent.Started:
		if e.Err != nil {
			p.logger.Errorf("start failed: %v", e.Err)
		} else {
			p.logger.Info("started")
		}
	case *fxevent.Stopped:
		if e.Err != nil {
			p.logger.Errorf("stopped with error: %v", e.Err)
		}
	case *fxevent.RollingBack:
		p.logger.Errorf("startup failed, rolling back: %v", e.StartErr)
	}
}
