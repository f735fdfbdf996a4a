package gltfpack

import (
	"errors"
	"log/slog"

	"github.com/meigma/gltfpack/cache"
	"github.com/meigma/gltfpack/cache/disk"
	"github.com/meigma/gltfpack/reencode"
)

// Option configures a Packer.
type Option func(*Packer) error

// WithLogger sets the logger for pack and optimize operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Packer) error {
		p.logger = logger
		return nil
	}
}

// WithParams sets the re-encode parameters used by Optimize.
// Defaults to [reencode.DefaultParams].
func WithParams(params reencode.Params) Option {
	return func(p *Packer) error {
		p.params = params
		return nil
	}
}

// WithWorkers sets the number of images re-encoded concurrently.
// Values < 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Packer) error {
		p.workers = n
		return nil
	}
}

// WithCache stores encoded images in c.
func WithCache(c cache.Cache) Option {
	return func(p *Packer) error {
		if c == nil {
			return errors.New("gltfpack: cache is nil")
		}
		p.cache = c
		return nil
	}
}

// WithCacheDir stores encoded images on disk under dir, evicting the least
// recently used entries beyond maxBytes. Use 0 for no limit.
func WithCacheDir(dir string, maxBytes int64) Option {
	return func(p *Packer) error {
		c, err := disk.New(dir, disk.WithMaxBytes(maxBytes))
		if err != nil {
			return err
		}
		p.cache = c
		return nil
	}
}

// WithPlainEncoder replaces the encoder for plain images.
func WithPlainEncoder(e reencode.Encoder) Option {
	return func(p *Packer) error {
		p.plain = e
		return nil
	}
}

// WithKTXEncoder replaces the encoder for KTX2 images. The default only
// passes through images that already are KTX2.
func WithKTXEncoder(e reencode.Encoder) Option {
	return func(p *Packer) error {
		p.ktx = e
		return nil
	}
}
