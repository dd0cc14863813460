package compose

// Warning describes a recoverable composition problem: a feature name
// colliding with an existing host field, or two features declaring the same
// reactive property.
type Warning struct {
	Message    string
	Component  string
	Feature    string
	Property   string
	AttachedAs string
}

// WarningLogger records composition warnings.
type WarningLogger interface {
	LogWarning(Warning)
}

// WarningLoggerFunc adapts a function to WarningLogger.
type WarningLoggerFunc func(Warning)

// LogWarning implements WarningLogger.
func (f WarningLoggerFunc) LogWarning(warning Warning) {
	if f != nil {
		f(warning)
	}
}

type noopWarningLogger struct{}

func (noopWarningLogger) LogWarning(Warning) {}

// WithWarningLogger attaches a warning logger to the Composer.
func WithWarningLogger(logger WarningLogger) Option {
	return func(cfg *composerConfig) {
		if logger == nil {
			cfg.warnings = noopWarningLogger{}
			return
		}
		cfg.warnings = logger
	}
}
