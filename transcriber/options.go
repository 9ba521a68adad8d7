package transcriber

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Language string
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithLanguage sets the Accept-Language the watch page is requested with,
// which decides the display names of the listed tracks.
func WithLanguage(lang string) Option {
	return func(o *Options) {
		o.Language = lang
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Language: "en-US",
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
