package reencode

import (
	"fmt"
	"strings"
)

// MIME types produced by the encoders.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeKTX2 = "image/ktx2"
)

// Default re-encode settings.
const (
	DefaultQuality = 90
)

// Format is the encoding used for plain images.
type Format int

const (
	// FormatJPEG encodes plain images as JPEG.
	FormatJPEG Format = iota
	// FormatPNG encodes plain images as PNG.
	FormatPNG
)

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return 0, fmt.Errorf("%w: format %q", ErrUnsupportedFormat, s)
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// MimeType returns the media type of images encoded as f.
func (f Format) MimeType() string {
	if f == FormatPNG {
		return MimePNG
	}
	return MimeJPEG
}

// Kind selects which encoder handles a job.
type Kind int

const (
	// KindBasic re-encodes a plain image to a [Format].
	KindBasic Kind = iota
	// KindKTX produces a basis-compressed KTX2 image.
	KindKTX
)

func (k Kind) String() string {
	if k == KindKTX {
		return "ktx2"
	}
	return "basic"
}

// Params holds the settings applied to every planned job.
type Params struct {
	// Format is the output encoding of plain images.
	Format Format
	// Quality is the JPEG quality, 1 to 100.
	Quality int
	// KTXQuality is the basis compression quality; 0 lets the encoder choose.
	KTXQuality uint8
	// KTXTranscode requests transcoding basis data to BC1 or BC3.
	KTXTranscode bool
	// GenerateKTX makes a KTX2 job from the plain image of every texture
	// that has one, replacing any existing KHR_texture_basisu image. It
	// needs a KTX encoder that accepts plain images.
	GenerateKTX bool
}

// DefaultParams returns JPEG at quality 90 with KTX2 transcoding enabled.
func DefaultParams() Params {
	return Params{
		Format:       FormatJPEG,
		Quality:      DefaultQuality,
		KTXTranscode: true,
	}
}

// Basic returns the target for a texture's plain image.
func (p Params) Basic() Target {
	return Target{Kind: KindBasic, Format: p.Format, Quality: p.Quality}
}

// KTX returns the target for a texture's KTX2 image.
func (p Params) KTX() Target {
	return Target{Kind: KindKTX, KTXQuality: p.KTXQuality, KTXTranscode: p.KTXTranscode}
}

// Target describes what one job is encoded to. Only the fields of its
// Kind are meaningful.
type Target struct {
	Kind         Kind
	Format       Format
	Quality      int
	KTXQuality   uint8
	KTXTranscode bool
}

// MimeType returns the media type of the encoded output.
func (t Target) MimeType() string {
	if t.Kind == KindKTX {
		return MimeKTX2
	}
	return t.Format.MimeType()
}

// String returns a stable description of t, used in cache keys and logs.
func (t Target) String() string {
	if t.Kind == KindKTX {
		return fmt.Sprintf("ktx2 quality=%d transcode=%t", t.KTXQuality, t.KTXTranscode)
	}
	if t.Format == FormatPNG {
		return "png"
	}
	return fmt.Sprintf("%s quality=%d", t.Format, t.Quality)
}
