package gltfio

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/meigma/gltfpack/gltf"
)

// Asset is a loaded document with its binary sources.
type Asset struct {
	Doc   gltf.Document
	Blobs gltf.Blobs
}

type reader struct {
	jsonc           bool
	maxDecompressed uint64
	logger          *slog.Logger
}

func newReader(opts []ReadOption) *reader {
	r := &reader{maxDecompressed: DefaultMaxDecompressedBytes}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxDecompressed == 0 {
		r.maxDecompressed = DefaultMaxDecompressedBytes
	}
	return r
}

// log returns the logger, falling back to a discard logger if nil.
func (r *reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Decode parses an in-memory asset: JSON or GLB, optionally
// zstd-compressed. The GLB BIN chunk, when present, is the only blob
// returned; external uris are left for the caller.
func Decode(data []byte, opts ...ReadOption) (*Asset, error) {
	return newReader(opts).decode(data)
}

func (r *reader) decode(data []byte) (*Asset, error) {
	if IsZstd(data) {
		var err error
		if data, err = decompress(data, r.maxDecompressed); err != nil {
			return nil, err
		}
		r.log().Debug("decompressed input", "bytes", len(data))
	}

	blobs := make(gltf.Blobs)
	jsonData := data
	if IsGLB(data) {
		glb, err := DecodeGLB(data)
		if err != nil {
			return nil, err
		}
		jsonData = glb.JSON
		if glb.BIN != nil {
			blobs[gltf.EmbeddedKey()] = glb.BIN
		}
	}
	if r.jsonc {
		jsonData = jsonc.ToJSON(jsonData)
	}

	doc, err := gltf.ParseDocument(jsonData)
	if err != nil {
		return nil, err
	}
	return &Asset{Doc: doc, Blobs: blobs}, nil
}

// Load reads the asset at path and every external buffer and image uri it
// names. External files are opened relative to the asset's directory and
// may not escape it. Data uris and uris with a scheme are not read.
func Load(path string, opts ...ReadOption) (*Asset, error) {
	r := newReader(opts)
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return nil, err
	}
	asset, err := r.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	uris, err := externalURIs(asset.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(uris) > 0 {
		if err := r.loadExternal(asset, filepath.Dir(path), uris); err != nil {
			return nil, err
		}
	}
	r.log().Info("asset loaded", "path", path, "blobs", len(asset.Blobs))
	return asset, nil
}

func (r *reader) loadExternal(asset *Asset, dir string, uris []string) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	for _, uri := range uris {
		name, err := url.PathUnescape(uri)
		if err != nil {
			return fmt.Errorf("gltfio: uri %q: %w", uri, err)
		}
		content, err := root.ReadFile(filepath.FromSlash(name))
		if err != nil {
			return fmt.Errorf("gltfio: uri %q: %w", uri, err)
		}
		asset.Blobs[gltf.ExternalKey(uri)] = content
		r.log().Debug("loaded external uri", "uri", uri, "bytes", len(content))
	}
	return nil
}

// externalURIs returns the distinct file uris of the buffers and images of
// doc, in document order.
func externalURIs(doc gltf.Document) ([]string, error) {
	buffers, err := gltf.GetList[gltf.Buffer](doc, gltf.ListBuffers)
	if err != nil {
		return nil, err
	}
	images, err := gltf.GetList[gltf.Image](doc, gltf.ListImages)
	if err != nil {
		return nil, err
	}

	var all []*string
	for i := range buffers {
		all = append(all, buffers[i].URI)
	}
	for i := range images {
		all = append(all, images[i].URI)
	}

	seen := make(map[string]bool)
	var uris []string
	for _, uri := range all {
		if uri == nil || seen[*uri] || !isFileURI(*uri) {
			continue
		}
		seen[*uri] = true
		uris = append(uris, *uri)
	}
	return uris, nil
}

// isFileURI reports whether uri is a relative reference to a file.
func isFileURI(uri string) bool {
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return false
	}
	u, err := url.Parse(uri)
	return err != nil || u.Scheme == ""
}
