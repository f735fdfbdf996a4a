package reencode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// Encoder encodes the source image of a job to the job's target.
//
// Implementations must be safe for concurrent use and must not modify
// job.Data.
type Encoder interface {
	Encode(ctx context.Context, job *Job) ([]byte, error)
}

// EncoderFunc adapts a function to the [Encoder] interface.
type EncoderFunc func(ctx context.Context, job *Job) ([]byte, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, job *Job) ([]byte, error) {
	return f(ctx, job)
}

// PlainEncoder decodes png, jpeg, gif, bmp, tiff and webp images and
// encodes them as JPEG or PNG.
type PlainEncoder struct{}

// Encode implements [Encoder].
func (PlainEncoder) Encode(ctx context.Context, job *Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(job.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnsupportedFormat, job.MimeType, err)
	}

	var buf bytes.Buffer
	switch job.Target.Format {
	case FormatJPEG:
		quality := job.Target.Quality
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, job.Target.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("reencode: encode %s: %w", job.Target.Format, err)
	}
	return buf.Bytes(), nil
}

// KTXPassthrough is the default KTX2 encoder. It returns KTX2 content
// unchanged and rejects anything else; basis compression needs an
// external encoder.
type KTXPassthrough struct{}

// Encode implements [Encoder].
func (KTXPassthrough) Encode(_ context.Context, job *Job) ([]byte, error) {
	if !IsKTX2(job.Data) {
		return nil, fmt.Errorf("%w: %s to ktx2 needs a basis encoder", ErrUnsupportedFormat, job.MimeType)
	}
	return job.Data, nil
}
