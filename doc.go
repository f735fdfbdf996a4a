// Package gltfpack packs the binary data of a glTF 2.0 asset into a single
// buffer and optionally re-encodes its texture images.
//
// A document names its binary sources by index: buffer views slice
// buffers, images come from a uri or a buffer view, and textures point at
// images. The [gltf] subpackage resolves those indices against an in-memory
// map of blobs; this package orchestrates whole operations on top of it.
//
// # Quick Start
//
// Load an asset, pack every buffer view into one buffer, and save a GLB:
//
//	asset, err := gltfio.Load("scene.gltf")
//	if err != nil {
//	    return err
//	}
//	p, err := gltfpack.New(gltfpack.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	out, err := p.Pack(ctx, asset.Doc, asset.Blobs)
//	if err != nil {
//	    return err
//	}
//	err = gltfio.Save("scene.glb", out.Doc, out.Binary)
//
// # Re-encoding
//
// [Packer.Optimize] also re-encodes every image a texture uses. Plain
// images become JPEG or PNG; images referenced through KHR_texture_basisu
// are handed to the KTX2 encoder. Encoded outputs can be cached on disk:
//
//	p, err := gltfpack.New(
//	    gltfpack.WithParams(reencode.Params{Format: reencode.FormatPNG}),
//	    gltfpack.WithCacheDir("/var/cache/gltfpack", 512<<20),
//	)
package gltfpack
