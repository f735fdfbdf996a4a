package gltfpack

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/gltfpack/gltf"
	"github.com/meigma/gltfpack/internal/testutil"
	"github.com/meigma/gltfpack/reencode"
)

func newPacker(t *testing.T, opts ...Option) *Packer {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)
	return p
}

func doc(t *testing.T, members testutil.Object) gltf.Document {
	t.Helper()
	return gltf.Document(testutil.Document(t, members))
}

// viewBytes returns the bytes view idx of out denotes.
func viewBytes(t *testing.T, out *Output, idx int) []byte {
	t.Helper()
	views, err := gltf.GetList[gltf.BufferView](out.Doc, gltf.ListBufferViews)
	require.NoError(t, err)
	require.Less(t, idx, len(views))
	data, err := gltf.SliceRange(out.Binary, views[idx].ByteOffset, views[idx].ByteLength)
	require.NoError(t, err)
	return data
}

func TestPack(t *testing.T) {
	t.Parallel()

	embedded := testutil.Pattern(10, 0)
	external := testutil.Pattern(6, 100)
	in := doc(t, testutil.Object{
		"asset": testutil.Object{"version": "2.0"},
		gltf.ListBuffers: []testutil.Object{
			{"byteLength": 10},
			{"uri": "b.bin", "byteLength": 6},
		},
		gltf.ListBufferViews: []testutil.Object{
			{"buffer": 1, "byteOffset": 1, "byteLength": 5},
			{"buffer": 0, "byteOffset": 2, "byteLength": 8},
		},
	})
	before := string(in[gltf.ListBuffers])

	out, err := newPacker(t).Pack(context.Background(), in, gltf.Blobs{
		gltf.EmbeddedKey():        embedded,
		gltf.ExternalKey("b.bin"): external,
	})
	require.NoError(t, err)

	assert.Len(t, out.Binary, 16)
	assert.Equal(t, digest.FromBytes(out.Binary), out.Digest)
	assert.Equal(t, external[1:6], viewBytes(t, out, 0))
	assert.Equal(t, embedded[2:10], viewBytes(t, out, 1))
	assert.JSONEq(t, `[{"byteLength":16}]`, string(out.Doc[gltf.ListBuffers]))
	assert.Equal(t, before, string(in[gltf.ListBuffers]), "input document is not modified")
	assert.Contains(t, out.Doc, "asset")
}

func TestPackFailure(t *testing.T) {
	t.Parallel()

	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": 4}, {"byteLength": 4}},
		gltf.ListBufferViews: testutil.Views([2]int{0, 4}),
	})
	out, err := newPacker(t).Pack(context.Background(), in, gltf.Blobs{gltf.EmbeddedKey(): make([]byte, 4)})
	require.ErrorIs(t, err, ErrBufferNoURI)
	assert.Nil(t, out)
}

func TestPackCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPacker(t).Pack(ctx, gltf.Document{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPackEmptyViews(t *testing.T) {
	t.Parallel()

	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": 0}},
		gltf.ListBufferViews: testutil.Views([2]int{0, 0}),
	})
	out, err := newPacker(t).Pack(context.Background(), in, gltf.Blobs{gltf.EmbeddedKey(): {}})
	require.NoError(t, err)
	assert.NotNil(t, out.Binary, "a buffer without bytes still has a BIN chunk")
	assert.Empty(t, out.Binary)
}

// optimizeFixture has a PNG in bufferView 0, vertex data in bufferView 1,
// an unused uri image, and one texture on the PNG.
func optimizeFixture(t *testing.T) (gltf.Document, gltf.Blobs, []byte) {
	t.Helper()
	png := testutil.PNG(t, 4, 4, color.NRGBA{G: 255, A: 255})
	vertices := testutil.Pattern(8, 40)
	bin := append(append([]byte{}, png...), make([]byte, gltf.Padding(len(png)))...)
	vertexOffset := len(bin)
	bin = append(bin, vertices...)

	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": len(bin)}},
		gltf.ListBufferViews: testutil.Views([2]int{0, len(png)}, [2]int{vertexOffset, len(vertices)}),
		gltf.ListImages: []testutil.Object{
			{"uri": "unused.png"},
			{"bufferView": 0, "mimeType": "image/png", "name": "albedo"},
		},
		gltf.ListTextures:  []testutil.Object{{"source": 1}},
		gltf.ListMaterials: []testutil.Object{{"pbrMetallicRoughness": testutil.Object{"baseColorTexture": testutil.Object{"index": 0}}}},
	})
	return in, gltf.Blobs{gltf.EmbeddedKey(): bin}, vertices
}

func TestOptimize(t *testing.T) {
	t.Parallel()

	in, blobs, vertices := optimizeFixture(t)
	p := newPacker(t, WithParams(reencode.Params{Format: reencode.FormatPNG}))

	out, err := p.Optimize(context.Background(), in, blobs)
	require.NoError(t, err)
	assert.Zero(t, len(out.Binary)%gltf.Alignment)

	images, err := gltf.GetList[gltf.Image](out.Doc, gltf.ListImages)
	require.NoError(t, err)
	require.Len(t, images, 1, "unused image dropped")
	assert.Nil(t, images[0].URI)
	require.NotNil(t, images[0].MimeType)
	assert.Equal(t, reencode.MimePNG, *images[0].MimeType)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](0), images[0].BufferView, "encoded image reuses its view")
	assert.JSONEq(t, `"albedo"`, string(images[0].Name))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(viewBytes(t, out, 0)))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, cfg.Width)

	assert.Equal(t, vertices, viewBytes(t, out, 1))

	textures, err := gltf.GetList[gltf.Texture](out.Doc, gltf.ListTextures)
	require.NoError(t, err)
	assert.Equal(t, gltf.IndexOf[gltf.Image](0), textures[0].Source)

	assert.Contains(t, string(in[gltf.ListImages]), "unused.png", "input document is not modified")
}

func TestOptimizeKTXAlternative(t *testing.T) {
	t.Parallel()

	ktx := testutil.KTX2([]byte("basis"))
	png := testutil.PNG(t, 2, 2, color.White)
	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": len(ktx)}},
		gltf.ListBufferViews: testutil.Views([2]int{0, len(ktx)}),
		gltf.ListImages: []testutil.Object{
			{"uri": testutil.MediaDataURI("image/png", png)},
			{"bufferView": 0, "mimeType": "image/ktx2"},
		},
		gltf.ListTextures: []testutil.Object{{
			"source":     0,
			"extensions": testutil.Object{reencode.ExtTextureBasisu: testutil.Object{"source": 1}},
		}},
	})

	out, err := newPacker(t).Optimize(context.Background(), in, gltf.Blobs{gltf.EmbeddedKey(): ktx})
	require.NoError(t, err)

	images, err := gltf.GetList[gltf.Image](out.Doc, gltf.ListImages)
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, reencode.MimeJPEG, *images[0].MimeType)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](1), images[0].BufferView, "data uri image gets a new view")
	assert.Equal(t, []byte{0xFF, 0xD8}, viewBytes(t, out, 1)[:2])

	assert.Equal(t, reencode.MimeKTX2, *images[1].MimeType)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](0), images[1].BufferView)
	assert.Equal(t, ktx, viewBytes(t, out, 0))

	textures, err := gltf.GetList[gltf.Texture](out.Doc, gltf.ListTextures)
	require.NoError(t, err)
	assert.Equal(t, gltf.IndexOf[gltf.Image](0), textures[0].Source)
	assert.Equal(t, gltf.IndexOf[gltf.Image](1), reencode.KTXSource(&textures[0]))
}

func TestOptimizeSharedView(t *testing.T) {
	t.Parallel()

	png := testutil.PNG(t, 1, 1, color.Black)
	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": len(png)}},
		gltf.ListBufferViews: testutil.Views([2]int{0, len(png)}),
		gltf.ListImages:      []testutil.Object{{"bufferView": 0}, {"bufferView": 0}},
		gltf.ListTextures:    []testutil.Object{{"source": 0}, {"source": 1}},
	})

	out, err := newPacker(t).Optimize(context.Background(), in, gltf.Blobs{gltf.EmbeddedKey(): png})
	require.NoError(t, err)

	images, err := gltf.GetList[gltf.Image](out.Doc, gltf.ListImages)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](0), images[0].BufferView)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](1), images[1].BufferView, "second image on a taken view gets its own")
}

func TestOptimizeUsesCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	enc := reencode.EncoderFunc(func(_ context.Context, job *reencode.Job) ([]byte, error) {
		calls.Add(1)
		return append([]byte("enc:"), job.Data[:4]...), nil
	})
	c := testutil.NewMockCache()
	p := newPacker(t, WithCache(c), WithPlainEncoder(enc), WithWorkers(1))

	in, blobs, _ := optimizeFixture(t)
	first, err := p.Optimize(context.Background(), in, blobs)
	require.NoError(t, err)
	second, err := p.Optimize(context.Background(), in, blobs)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Hits())
	assert.Equal(t, first.Digest, second.Digest)
}

func TestOptimizeErrors(t *testing.T) {
	t.Parallel()

	t.Run("claimed ktx2", func(t *testing.T) {
		t.Parallel()
		in := doc(t, testutil.Object{
			gltf.ListImages: []testutil.Object{{"uri": testutil.DataURI([]byte("not ktx"))}},
			gltf.ListTextures: []testutil.Object{{
				"extensions": testutil.Object{reencode.ExtTextureBasisu: testutil.Object{"source": 0}},
			}},
		})
		_, err := newPacker(t).Optimize(context.Background(), in, nil)
		require.ErrorIs(t, err, ErrNotKTX2)
	})

	t.Run("no image source", func(t *testing.T) {
		t.Parallel()
		in := doc(t, testutil.Object{gltf.ListTextures: []testutil.Object{{}}})
		_, err := newPacker(t).Optimize(context.Background(), in, nil)
		require.ErrorIs(t, err, ErrNoImageSource)
	})

	t.Run("encoder failure", func(t *testing.T) {
		t.Parallel()
		in, blobs, _ := optimizeFixture(t)
		_, err := newPacker(t, WithParams(reencode.DefaultParams()), WithPlainEncoder(reencode.EncoderFunc(
			func(context.Context, *reencode.Job) ([]byte, error) { return nil, reencode.ErrUnsupportedFormat },
		))).Optimize(context.Background(), in, blobs)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestNewOptions(t *testing.T) {
	t.Parallel()

	_, err := New(WithCache(nil))
	assert.Error(t, err)

	_, err = New(WithCacheDir("", 0))
	assert.Error(t, err)

	p, err := New(WithCacheDir(t.TempDir(), 1<<20), WithWorkers(2))
	require.NoError(t, err)
	assert.NotNil(t, p.cache)
}

func TestOptimizeGenerateKTX(t *testing.T) {
	t.Parallel()

	in, blobs, vertices := optimizeFixture(t)
	var calls atomic.Int32
	ktxEnc := reencode.EncoderFunc(func(_ context.Context, job *reencode.Job) ([]byte, error) {
		calls.Add(1)
		if job.MimeType != reencode.MimePNG || job.Target.Kind != reencode.KindKTX {
			return nil, reencode.ErrUnsupportedFormat
		}
		return testutil.KTX2(job.Data[:8]), nil
	})
	params := reencode.Params{Format: reencode.FormatPNG, GenerateKTX: true}

	out, err := newPacker(t, WithParams(params), WithKTXEncoder(ktxEnc)).Optimize(context.Background(), in, blobs)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	images, err := gltf.GetList[gltf.Image](out.Doc, gltf.ListImages)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, reencode.MimePNG, *images[0].MimeType)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](0), images[0].BufferView)
	assert.Equal(t, reencode.MimeKTX2, *images[1].MimeType)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](2), images[1].BufferView, "generated image gets a new view")

	ktx := viewBytes(t, out, 2)
	assert.True(t, reencode.IsKTX2(ktx))
	assert.Equal(t, vertices, viewBytes(t, out, 1))

	textures, err := gltf.GetList[gltf.Texture](out.Doc, gltf.ListTextures)
	require.NoError(t, err)
	assert.Equal(t, gltf.IndexOf[gltf.Image](0), textures[0].Source)
	assert.Equal(t, gltf.IndexOf[gltf.Image](1), reencode.KTXSource(&textures[0]))
	assert.JSONEq(t, `["KHR_texture_basisu"]`, string(out.Doc[gltf.MemberExtensionsUsed]))
}

func TestOptimizeGenerateKTXNeedsEncoder(t *testing.T) {
	t.Parallel()

	in, blobs, _ := optimizeFixture(t)
	params := reencode.DefaultParams()
	params.GenerateKTX = true
	_, err := newPacker(t, WithParams(params)).Optimize(context.Background(), in, blobs)
	require.ErrorIs(t, err, ErrUnsupportedFormat, "the default KTX encoder only passes KTX2 through")
}

func TestOptimizeDropsUnusedViews(t *testing.T) {
	t.Parallel()

	unused := testutil.PNG(t, 3, 3, color.NRGBA{R: 255, A: 255})
	vertices := testutil.Pattern(12, 60)
	used := testutil.PNG(t, 2, 2, color.NRGBA{B: 255, A: 255})

	var bin []byte
	var ranges [][2]int
	for _, part := range [][]byte{unused, vertices, used} {
		ranges = append(ranges, [2]int{len(bin), len(part)})
		bin = append(bin, part...)
		bin = append(bin, make([]byte, gltf.Padding(len(bin)))...)
	}

	in := doc(t, testutil.Object{
		gltf.ListBuffers:     []testutil.Object{{"byteLength": len(bin)}},
		gltf.ListBufferViews: testutil.Views(ranges...),
		gltf.ListImages: []testutil.Object{
			{"bufferView": 0, "mimeType": "image/png"},
			{"bufferView": 2, "mimeType": "image/png"},
			{"bufferView": 1, "mimeType": "image/png"},
		},
		gltf.ListTextures: []testutil.Object{{"source": 1}},
		"accessors":       []testutil.Object{{"bufferView": 1, "count": 3, "type": "VEC3", "componentType": 5126}},
		"meshes": []testutil.Object{{"primitives": []testutil.Object{{
			"attributes": testutil.Object{"POSITION": 0},
			"extensions": testutil.Object{"KHR_draco_mesh_compression": testutil.Object{"bufferView": 1}},
		}}}},
	})

	out, err := newPacker(t, WithParams(reencode.Params{Format: reencode.FormatPNG})).
		Optimize(context.Background(), in, gltf.Blobs{gltf.EmbeddedKey(): bin})
	require.NoError(t, err)

	views, err := gltf.GetList[gltf.BufferView](out.Doc, gltf.ListBufferViews)
	require.NoError(t, err)
	require.Len(t, views, 2, "view of the dropped image is removed, the accessor's view stays")
	assert.Equal(t, vertices, viewBytes(t, out, 0))
	assert.NotContains(t, string(out.Binary), string(unused))

	images, err := gltf.GetList[gltf.Image](out.Doc, gltf.ListImages)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, gltf.IndexOf[gltf.BufferView](1), images[0].BufferView)
	_, format, err := image.DecodeConfig(bytes.NewReader(viewBytes(t, out, 1)))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	assert.JSONEq(t, `[{"bufferView":0,"count":3,"type":"VEC3","componentType":5126}]`, string(out.Doc["accessors"]))
	assert.Contains(t, string(out.Doc["meshes"]), `"bufferView":0`)
	assert.Contains(t, string(in["accessors"]), `"bufferView":1`, "input document is not modified")
}
