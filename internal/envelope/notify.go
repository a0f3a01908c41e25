package envelope

import "log/slog"

// Notifier receives every error code observed while decoding. Implementations
// must be safe for concurrent use; the decoder calls Notify synchronously.
type Notifier interface {
	Notify(code int, message string)
}

// NotifyFunc adapts a plain function to Notifier.
type NotifyFunc func(code int, message string)

// Notify calls f.
func (f NotifyFunc) Notify(code int, message string) {
	if f != nil {
		f(code, message)
	}
}

// Option configures a single decode call.
type Option func(*options)

type options struct {
	notifier Notifier
	logger   *slog.Logger
}

// WithNotifier installs the hook that observes error codes.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithLogger sets the logger used to report hook failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// notify is fire-and-forget: a panicking hook is logged and swallowed.
func (o options) notify(code int, message string) {
	if o.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("notification hook panicked", "code", code, "panic", r)
		}
	}()
	o.notifier.Notify(code, message)
}
