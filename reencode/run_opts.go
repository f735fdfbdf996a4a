package reencode

import (
	"log/slog"

	"github.com/meigma/gltfpack/cache"
)

// RunOption configures a Runner.
type RunOption func(*Runner)

// WithWorkers sets the number of jobs encoded concurrently.
// Values < 1 use GOMAXPROCS.
func WithWorkers(n int) RunOption {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithCache stores encoded outputs in c and reuses them for jobs with the
// same key.
func WithCache(c cache.Cache) RunOption {
	return func(r *Runner) {
		r.cache = c
	}
}

// WithPlainEncoder replaces the encoder for [KindBasic] jobs.
// Defaults to [PlainEncoder].
func WithPlainEncoder(e Encoder) RunOption {
	return func(r *Runner) {
		r.plain = e
	}
}

// WithKTXEncoder replaces the encoder for [KindKTX] jobs.
// Defaults to [KTXPassthrough].
func WithKTXEncoder(e Encoder) RunOption {
	return func(r *Runner) {
		r.ktx = e
	}
}

// WithLogger sets the logger for job execution.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) RunOption {
	return func(r *Runner) {
		r.logger = logger
	}
}
