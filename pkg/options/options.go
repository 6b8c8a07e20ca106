package options

import "log/slog"

// DefaultOptions mirrors the neighbor limits and cache sizing used for
// confusable-pair experiments.
var DefaultOptions = EngineOptions{
	KMax:      21,
	KRatio:    5,
	CacheSize: 4096,
}

// EngineOptions are the tunables shared by both engine kinds.
type EngineOptions struct {
	KMax      int // upper bound on neighbors consulted by the case-based reasoner
	KRatio    int // one neighbor per KRatio training examples
	CacheSize int // propositions memoized per Bayes node
	Logger    *slog.Logger
}

// Options modifies EngineOptions.
type Options interface {
	Apply(options *EngineOptions)
}

type FuncConfig struct {
	ops func(options *EngineOptions)
}

func (w FuncConfig) Apply(conf *EngineOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *EngineOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Resolve applies opts over DefaultOptions.
func Resolve(opts ...Options) EngineOptions {
	conf := DefaultOptions
	for _, o := range opts {
		if o != nil {
			o.Apply(&conf)
		}
	}
	if conf.Logger == nil {
		conf.Logger = slog.Default()
	}
	return conf
}

func WithKMax(kmax int) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.KMax = kmax
	})
}

func WithKRatio(kratio int) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.KRatio = kratio
	})
}

func WithCacheSize(size int) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.CacheSize = size
	})
}

func WithLogger(logger *slog.Logger) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.Logger = logger
	})
}
