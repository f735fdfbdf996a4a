package gltfpack

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"maps"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/gltfpack/cache"
	"github.com/meigma/gltfpack/gltf"
	"github.com/meigma/gltfpack/reencode"
)

// Output is a document whose binary data lives in one embedded buffer.
type Output struct {
	// Doc is the rewritten document. The input document is not modified.
	Doc gltf.Document
	// Binary is the content of buffer 0: the GLB BIN chunk. It is nil
	// when the document has no buffers.
	Binary []byte
	// Digest is the content digest of Binary.
	Digest digest.Digest
}

// Packer packs and optimizes documents.
//
// A Packer is safe for concurrent use; each call works on its own copy of
// the document.
type Packer struct {
	params  reencode.Params
	workers int
	cache   cache.Cache
	plain   reencode.Encoder
	ktx     reencode.Encoder
	logger  *slog.Logger
	runner  *reencode.Runner
}

// New creates a Packer with the given options.
func New(opts ...Option) (*Packer, error) {
	p := &Packer{params: reencode.DefaultParams()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	runOpts := []reencode.RunOption{
		reencode.WithWorkers(p.workers),
		reencode.WithLogger(p.logger),
	}
	if p.cache != nil {
		runOpts = append(runOpts, reencode.WithCache(p.cache))
	}
	if p.plain != nil {
		runOpts = append(runOpts, reencode.WithPlainEncoder(p.plain))
	}
	if p.ktx != nil {
		runOpts = append(runOpts, reencode.WithKTXEncoder(p.ktx))
	}
	p.runner = reencode.NewRunner(runOpts...)
	return p, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Packer) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Pack resolves every buffer of doc against blobs and packs every buffer
// view into one buffer. Images are not touched: those stored in buffer
// views move with their view, and uri images keep their uri.
func (p *Packer) Pack(ctx context.Context, doc gltf.Document, blobs gltf.Blobs) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := maps.Clone(doc)
	bin, err := gltf.Pack(out, blobs)
	if err != nil {
		return nil, err
	}
	return p.finish("pack", out, bin), nil
}

// Optimize re-encodes every image used by a texture and packs the result.
//
// Each encoded image replaces the content of the buffer view its source
// image was stored in; images without such a view, or whose view is
// already taken, get a new view at the end of the list. The output has one
// image per job in job order, so images no texture uses are dropped, along
// with buffer views that nothing but those images referred to.
func (p *Packer) Optimize(ctx context.Context, doc gltf.Document, blobs gltf.Blobs) (*Output, error) {
	r, err := gltf.NewResolver(doc, blobs)
	if err != nil {
		return nil, err
	}
	plan, err := reencode.NewPlan(doc, r, p.params)
	if err != nil {
		return nil, err
	}
	p.log().Info("re-encoding images", "textures", len(plan.Textures), "jobs", len(plan.Jobs))

	results, err := p.runner.Run(ctx, plan.Jobs)
	if err != nil {
		return nil, err
	}

	images, err := gltf.GetList[gltf.Image](doc, gltf.ListImages)
	if err != nil {
		return nil, err
	}
	views := append(gltf.List[gltf.BufferView]{}, r.BufferViews...)
	overrides := make(map[int][]byte, len(plan.Jobs))
	newImages := make(gltf.List[gltf.Image], len(plan.Jobs))

	for i, job := range plan.Jobs {
		data := results[i].Data
		pos, ok := job.BufferView.Raw()
		if _, claimed := overrides[pos]; !ok || claimed {
			pos = len(views)
			views = append(views, gltf.BufferView{})
		}
		overrides[pos] = data

		src, err := images.GetRequired(job.Image, gltf.ListImages)
		if err != nil {
			return nil, err
		}
		mime := results[i].MimeType
		newImages[i] = gltf.Image{
			MimeType:   &mime,
			BufferView: gltf.IndexOf[gltf.BufferView](pos),
			Name:       src.Name,
			Extensions: src.Extensions,
			Extras:     src.Extras,
		}
		p.log().Debug("image placed", "job", i, "image", job.Image.String(), "bufferView", pos, "bytes", len(data))
	}

	out := maps.Clone(doc)
	if err := gltf.SetList(out, gltf.ListTextures, plan.Textures); err != nil {
		return nil, err
	}
	if err := gltf.SetList(out, gltf.ListImages, newImages); err != nil {
		return nil, err
	}
	if hasKTXSource(plan.Textures) {
		if err := gltf.AddExtensionUsed(out, reencode.ExtTextureBasisu); err != nil {
			return nil, err
		}
	}

	drop, err := droppedViews(doc, images, plan.Jobs, overrides)
	if err != nil {
		return nil, err
	}
	if len(drop) > 0 {
		if views, overrides, err = pruneViews(out, views, overrides, drop); err != nil {
			return nil, err
		}
		p.log().Debug("dropped unused buffer views", "count", len(drop))
	}

	bin, err := gltf.PackInto(out, overrideViews(r, views, overrides))
	if err != nil {
		return nil, err
	}
	return p.finish("optimize", out, bin), nil
}

func hasKTXSource(textures gltf.List[gltf.Texture]) bool {
	for i := range textures {
		if reencode.KTXSource(&textures[i]).IsDefined() {
			return true
		}
	}
	return false
}

// droppedViews returns the buffer views that held only images no job
// kept. A view still referenced outside the images list, or reused for an
// encoded image, is not dropped.
func droppedViews(doc gltf.Document, images gltf.List[gltf.Image], jobs []reencode.Job, overrides map[int][]byte) (map[int]bool, error) {
	kept := make(map[gltf.Index[gltf.Image]]bool, len(jobs))
	for i := range jobs {
		kept[jobs[i].Image] = true
	}

	drop := make(map[int]bool)
	for i := range images {
		pos, ok := images[i].BufferView.Raw()
		if !ok || kept[gltf.IndexOf[gltf.Image](i)] {
			continue
		}
		if _, claimed := overrides[pos]; !claimed {
			drop[pos] = true
		}
	}
	if len(drop) == 0 {
		return nil, nil
	}

	refs, err := gltf.BufferViewRefs(doc, gltf.ListImages)
	if err != nil {
		return nil, err
	}
	for pos := range drop {
		if refs[pos] {
			delete(drop, pos)
		}
	}
	return drop, nil
}

// pruneViews removes the views in drop and renumbers every bufferView
// reference in doc to match.
func pruneViews(doc gltf.Document, views gltf.List[gltf.BufferView], overrides map[int][]byte, drop map[int]bool) (gltf.List[gltf.BufferView], map[int][]byte, error) {
	remap := make(map[int]int, len(views))
	kept := make(gltf.List[gltf.BufferView], 0, len(views)-len(drop))
	keptOverrides := make(map[int][]byte, len(overrides))
	for i := range views {
		if drop[i] {
			continue
		}
		remap[i] = len(kept)
		if data, ok := overrides[i]; ok {
			keptOverrides[len(kept)] = data
		}
		kept = append(kept, views[i])
	}
	if err := gltf.RemapBufferViews(doc, remap); err != nil {
		return nil, nil, err
	}
	return kept, keptOverrides, nil
}

// overrideViews yields views in order, taking the bytes of view i from
// overrides when present and from r otherwise.
func overrideViews(r *gltf.Resolver, views gltf.List[gltf.BufferView], overrides map[int][]byte) iter.Seq2[gltf.ViewBytes, error] {
	return func(yield func(gltf.ViewBytes, error) bool) {
		for i := range views {
			data, ok := overrides[i]
			if !ok {
				var err error
				if data, err = r.Slice(&views[i]); err != nil {
					yield(gltf.ViewBytes{}, fmt.Errorf("%s[%d]: %w", gltf.ListBufferViews, i, err))
					return
				}
			}
			if !yield(gltf.ViewBytes{View: views[i], Data: data}, nil) {
				return
			}
		}
	}
}

func (p *Packer) finish(op string, doc gltf.Document, bin []byte) *Output {
	if bin == nil {
		if _, ok := doc[gltf.ListBuffers]; ok {
			bin = []byte{}
		}
	}
	out := &Output{Doc: doc, Binary: bin, Digest: digest.FromBytes(bin)}
	p.log().Info(op+" complete", "bytes", len(bin), "digest", out.Digest.String())
	return out
}
