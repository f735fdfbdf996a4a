package reencode

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/gltfpack/cache"
)

// Result is the encoded output of one job.
type Result struct {
	Data     []byte
	MimeType string
}

// Runner executes jobs with one [Encoder] per target kind.
//
// A Runner is safe for concurrent use.
type Runner struct {
	workers int
	cache   cache.Cache
	plain   Encoder
	ktx     Encoder
	logger  *slog.Logger
	group   singleflight.Group // zero value is valid
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...RunOption) *Runner {
	r := &Runner{
		plain: PlainEncoder{},
		ktx:   KTXPassthrough{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Runner) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Key returns the cache key of job: a digest over its target, its sRGB flag
// and its source content.
func Key(job *Job) digest.Digest {
	d := digest.Canonical.Digester()
	h := d.Hash()
	fmt.Fprintf(h, "%s\x00srgb=%t\x00", job.Target, job.SRGB)
	h.Write(job.Data)
	return d.Digest()
}

// Run encodes jobs concurrently and returns their results in job order.
//
// Each job writes only its own result slot. The first failure cancels the
// remaining jobs and is returned with no results.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := r.encode(ctx, &jobs[i])
			if err != nil {
				return fmt.Errorf("job %d (images[%s] to %s): %w", i, jobs[i].Image, jobs[i].Target, err)
			}
			results[i] = Result{Data: data, MimeType: jobs[i].Target.MimeType()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) encoder(k Kind) Encoder {
	if k == KindKTX {
		return r.ktx
	}
	return r.plain
}

func (r *Runner) encode(ctx context.Context, job *Job) ([]byte, error) {
	enc := r.encoder(job.Target.Kind)
	if r.cache == nil {
		data, err := enc.Encode(ctx, job)
		if err == nil {
			r.log().Debug("job encoded", "image", job.Image.String(), "target", job.Target.String(), "bytes", len(data))
		}
		return data, err
	}

	key := Key(job)
	if data, ok := r.cache.Get(key); ok {
		r.log().Debug("encode cache hit", "image", job.Image.String(), "key", key.String())
		return data, nil
	}
	r.log().Debug("encode cache miss", "image", job.Image.String(), "key", key.String())

	result, err, _ := r.group.Do(key.String(), func() (any, error) {
		if data, ok := r.cache.Get(key); ok {
			return data, nil
		}
		data, err := enc.Encode(ctx, job)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Put(key, data); err != nil {
			r.log().Warn("encode cache put failed", "key", key.String(), "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil //nolint:errcheck // type assertion always succeeds when err is nil
}
