// Package ringlog provides the loggers cmd/nandringctl hands to the nand
// and nandsim packages (which themselves accept any *zap.SugaredLogger): a
// package-level zap.SugaredLogger and a WithServiceName constructor, built
// directly over go.uber.org/zap.
package ringlog

import "go.uber.org/zap"

// Sugar is the process-wide base logger.
var Sugar *zap.SugaredLogger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	Sugar = l.Sugar()
}

// WithServiceName returns a child logger tagged with a "service" field.
func WithServiceName(name string) *zap.SugaredLogger {
	return Sugar.With("service", name)
}

// NewDevelopment returns a human-readable logger suitable for the CLI and
// for tests that want to see ring diagnostics on failure.
func NewDevelopment(name string) *zap.SugaredLogger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return WithServiceName(name)
	}
	return l.Sugar().With("service", name)
}
