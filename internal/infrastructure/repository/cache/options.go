package cache

import "time"

const defaultTTL = 5 * time.Minute

type options struct {
	ttl time.Duration
}

type Option func(*options)

// WithTTL overrides the cache lifetime. Zero keeps entries until invalidated.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.ttl = ttl
		}
	}
}

func resolveOptions(opts []Option) options {
	cfg := options{ttl: defaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
