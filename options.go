package richhtml

import (
	"go.uber.org/zap"
)

// ParseOptions holds options for creating parsers.
type ParseOptions struct {
	Listener CustomTagActionListener
	Handlers map[string]TagHandler
	Config   *RenderConfig
	Logger   *zap.Logger
}

// Option is a function that configures ParseOptions.
type Option func(*ParseOptions)

// WithTagActionListener sets who is told about concept card clicks.
func WithTagActionListener(listener CustomTagActionListener) Option {
	return func(opts *ParseOptions) {
		opts.Listener = listener
	}
}

// WithTagHandler registers h for the custom tag name, replacing any built-in handler.
// Tag names are matched lower-cased.
func WithTagHandler(name string, h TagHandler) Option {
	return func(opts *ParseOptions) {
		if opts.Handlers == nil {
			opts.Handlers = make(map[string]TagHandler)
		}
		opts.Handlers[name] = h
	}
}

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *ParseOptions) {
		if config != nil {
			opts.Config = config
		}
	}
}

// WithLogger sets the logger used while parsing.
func WithLogger(log *zap.Logger) Option {
	return func(opts *ParseOptions) {
		if log != nil {
			opts.Logger = log
		}
	}
}

// defaultParseOptions returns the default parse options.
func defaultParseOptions() *ParseOptions {
	return &ParseOptions{
		Config: DefaultConfig(),
		Logger: Logger,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *ParseOptions {
	options := defaultParseOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
