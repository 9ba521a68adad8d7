package reporter

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Subject  string
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithSubject sets the subject prefix progress is published under. The run
// id is appended to it.
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Subject: "originality.progress",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
