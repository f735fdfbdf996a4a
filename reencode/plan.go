package reencode

import (
	"fmt"

	"github.com/h2non/filetype"

	"github.com/meigma/gltfpack/gltf"
)

// Job is one image to re-encode.
type Job struct {
	// Image is the index of the source image in the input document.
	Image gltf.Index[gltf.Image]
	// Data is the source image content. It may alias the input blobs.
	Data []byte
	// MimeType is the media type of Data.
	MimeType string
	// SRGB reports whether any texture using this image is sampled as color.
	SRGB bool
	// Target is what Data is encoded to.
	Target Target
	// BufferView is the view the source image was stored in, if any.
	BufferView gltf.Index[gltf.BufferView]
}

// Plan is the set of jobs for one document together with its rewritten
// textures. Job i becomes image i of the output document.
type Plan struct {
	Textures gltf.List[gltf.Texture]
	Jobs     []Job
}

// planner holds the state of one NewPlan call.
type planner struct {
	images   gltf.List[gltf.Image]
	resolver *gltf.Resolver
	params   Params
	plan     *Plan
	jobs     map[jobKey]gltf.Index[gltf.Image]
	claims   map[gltf.Index[gltf.Image]]Kind
}

// jobKey identifies a job by source image and output kind. A plain image
// with GenerateKTX set has one job of each kind.
type jobKey struct {
	image gltf.Index[gltf.Image]
	kind  Kind
}

// NewPlan builds the re-encode jobs for the textures of doc, resolving image
// content through r.
//
// Every distinct image a texture refers to is read once. The plain image
// in a texture's source member is encoded to p.Basic(); the image
// referenced through KHR_texture_basisu must be KTX2 and is encoded to
// p.KTX(). With p.GenerateKTX set, the KTX2 image of a texture that has a
// plain image is instead encoded from the plain image's content. The
// returned textures refer to job indices. doc is not modified.
func NewPlan(doc gltf.Document, r *gltf.Resolver, p Params) (*Plan, error) {
	textures, err := gltf.GetList[gltf.Texture](doc, gltf.ListTextures)
	if err != nil {
		return nil, err
	}
	images, err := gltf.GetList[gltf.Image](doc, gltf.ListImages)
	if err != nil {
		return nil, err
	}

	pl := &planner{
		images:   images,
		resolver: r,
		params:   p,
		plan:     &Plan{Textures: textures},
		jobs:     make(map[jobKey]gltf.Index[gltf.Image]),
		claims:   make(map[gltf.Index[gltf.Image]]Kind),
	}
	srgb := SRGBTextures(doc)

	for i := range textures {
		if err := pl.texture(&textures[i], srgb[gltf.IndexOf[gltf.Texture](i)]); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", gltf.ListTextures, i, err)
		}
	}
	return pl.plan, nil
}

func (pl *planner) texture(tex *gltf.Texture, srgb bool) error {
	plain := tex.Source
	ktx := KTXSource(tex)
	if plain.IsUndefined() && ktx.IsUndefined() {
		return ErrNoImageSource
	}

	if plain.IsDefined() {
		idx, err := pl.job(plain, pl.params.Basic(), srgb)
		if err != nil {
			return err
		}
		tex.Source = idx
		if pl.params.GenerateKTX {
			idx, err := pl.derived(plain, srgb)
			if err != nil {
				return err
			}
			return SetKTXSource(tex, idx)
		}
	}
	if ktx.IsDefined() {
		idx, err := pl.job(ktx, pl.params.KTX(), srgb)
		if err != nil {
			return err
		}
		if err := SetKTXSource(tex, idx); err != nil {
			return err
		}
	}
	return nil
}

// job returns the job index for image old, creating the job on first use.
// An image may be claimed as a plain source or as a KTX2 source, not both.
func (pl *planner) job(old gltf.Index[gltf.Image], target Target, srgb bool) (gltf.Index[gltf.Image], error) {
	if kind, ok := pl.claims[old]; ok && kind != target.Kind {
		return old, fmt.Errorf("%w: %s[%s]", ErrTargetConflict, gltf.ListImages, old)
	}
	pl.claims[old] = target.Kind

	if idx, ok := pl.reuse(jobKey{old, target.Kind}, srgb); ok {
		return idx, nil
	}

	img, err := pl.images.GetRequired(old, gltf.ListImages)
	if err != nil {
		return old, err
	}
	pos, _ := old.Raw()
	data, err := pl.resolver.Image(img, pos)
	if err != nil {
		return old, fmt.Errorf("%s[%d]: %w", gltf.ListImages, pos, err)
	}

	var mime string
	switch target.Kind {
	case KindKTX:
		if !IsKTX2(data) {
			return old, fmt.Errorf("%w: %s[%d]", ErrNotKTX2, gltf.ListImages, pos)
		}
		mime = MimeKTX2
	default:
		mime, err = imageMimeType(img, data)
		if err != nil {
			return old, fmt.Errorf("%s[%d]: %w", gltf.ListImages, pos, err)
		}
	}

	return pl.add(Job{
		Image:      old,
		Data:       data,
		MimeType:   mime,
		SRGB:       srgb,
		Target:     target,
		BufferView: img.BufferView,
	}), nil
}

// derived returns the KTX2 job encoded from plain image old, whose plain
// job must already exist. The job has no buffer view of its own.
func (pl *planner) derived(old gltf.Index[gltf.Image], srgb bool) (gltf.Index[gltf.Image], error) {
	if idx, ok := pl.reuse(jobKey{old, KindKTX}, srgb); ok {
		return idx, nil
	}
	idx, ok := pl.jobs[jobKey{old, KindBasic}]
	if !ok {
		return old, fmt.Errorf("%w: %s[%s]", ErrNoImageSource, gltf.ListImages, old)
	}
	pos, _ := idx.Raw()
	src := pl.plan.Jobs[pos]
	return pl.add(Job{
		Image:    old,
		Data:     src.Data,
		MimeType: src.MimeType,
		SRGB:     srgb,
		Target:   pl.params.KTX(),
	}), nil
}

// reuse ORs srgb into the job for key, if there is one.
func (pl *planner) reuse(key jobKey, srgb bool) (gltf.Index[gltf.Image], bool) {
	idx, ok := pl.jobs[key]
	if !ok {
		return idx, false
	}
	pos, _ := idx.Raw()
	j := &pl.plan.Jobs[pos]
	j.SRGB = j.SRGB || srgb
	return idx, true
}

func (pl *planner) add(j Job) gltf.Index[gltf.Image] {
	idx := gltf.IndexOf[gltf.Image](len(pl.plan.Jobs))
	pl.plan.Jobs = append(pl.plan.Jobs, j)
	pl.jobs[jobKey{j.Image, j.Target.Kind}] = idx
	return idx
}

// imageMimeType returns the declared media type of img, or sniffs it from
// data when none is declared.
func imageMimeType(img *gltf.Image, data []byte) (string, error) {
	if img.MimeType != nil && *img.MimeType != "" {
		return *img.MimeType, nil
	}
	if IsKTX2(data) {
		return MimeKTX2, nil
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("%w: cannot identify image content", ErrUnsupportedFormat)
	}
	return kind.MIME.Value, nil
}
