package main

import "go.uber.org/zap"

// Logger returns the logger for the command, building it on first use:
// debug level when verbose, warn level otherwise.
func (rc *rootCmdConfig) Logger() *zap.SugaredLogger {
	if rc.log != nil {
		return rc.log
	}
	level := zap.WarnLevel
	if rc.verbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	rc.log = l.Sugar()
	return rc.log
}

// Logf logs progress messages, shown only when verbose.
func (rc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rc.Logger().Infof(format, a...)
}
