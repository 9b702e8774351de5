package upload

import "go.uber.org/zap"

// ProgressObserver receives the byte count acknowledged by the node during a
// transfer. Counts only increase. Observers are informational: an upload can
// complete without any call.
type ProgressObserver interface {
	OnProgress(name string, bytes int64)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(name string, bytes int64)

// OnProgress calls f(name, bytes).
func (f ProgressFunc) OnProgress(name string, bytes int64) { f(name, bytes) }

// LogProgress returns an observer that logs each count at info level.
func LogProgress() ProgressObserver {
	return ProgressFunc(func(name string, bytes int64) {
		zap.L().Info("received", zap.String("name", name), zap.Int64("bytes", bytes))
	})
}

// Option customizes a single upload.
type Option func(*options)

type options struct {
	observer ProgressObserver
}

// WithProgress subscribes o to progress of the upload.
func WithProgress(o ProgressObserver) Option {
	return func(opts *options) { opts.observer = o }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
