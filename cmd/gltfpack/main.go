// gltfpack packs the buffers of a glTF asset into a single binary chunk
// and writes the result as GLB. By default it also re-encodes images and
// moves them into the packed buffer; --pack-only keeps images as they are.
//
// Input may be .gltf (with external or data URI resources), .glb, or either
// compressed with zstd. An output path ending in .zst is compressed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"

	"github.com/meigma/gltfpack"
	"github.com/meigma/gltfpack/gltfio"
	"github.com/meigma/gltfpack/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type flags struct {
	input         string
	output        string
	configPath    string
	packOnly      bool
	format        string
	quality       int
	ktxQuality    int
	noTranscode   bool
	workers       int
	cacheDir      string
	cacheMaxBytes int64
	jsonc         bool
	zstdLevel     int
	logLevel      string
}

func newFlagSet(f *flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("gltfpack", pflag.ContinueOnError)
	fs.StringVarP(&f.input, "input", "i", "", "input .gltf or .glb file, optionally zstd compressed")
	fs.StringVarP(&f.output, "output", "o", "", "output .glb file; a .zst suffix compresses it")
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fs.BoolVar(&f.packOnly, "pack-only", false, "pack buffers without re-encoding images")
	fs.StringVar(&f.format, "format", "", "plain image output format: jpeg or png")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality, 1 to 100")
	fs.IntVar(&f.ktxQuality, "ktx-quality", 0, "KTX2 basis quality, 0 to 255")
	fs.BoolVar(&f.noTranscode, "no-transcode", false, "do not transcode KTX2 images")
	fs.IntVar(&f.workers, "workers", 0, "images encoded concurrently; 0 uses one per CPU")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "directory for cached encoded images")
	fs.Int64Var(&f.cacheMaxBytes, "cache-max-bytes", 0, "cache size limit in bytes; 0 means no limit")
	fs.BoolVar(&f.jsonc, "jsonc", false, "accept comments and trailing commas in .gltf input")
	fs.IntVar(&f.zstdLevel, "zstd-level", 0, "zstd level 1 to 22 for .zst output; 0 uses the default")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolP("help", "h", false, "show help")
	return fs
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, fs)
			return nil
		}
		return err
	}
	if help, _ := fs.GetBool("help"); help {
		printHelp(stderr, fs)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if f.input == "" || f.output == "" {
		return errors.New("--input and --output are required")
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	asset, err := gltfio.Load(f.input,
		gltfio.WithJSONC(cfg.JSONC),
		gltfio.WithReadLogger(logger),
	)
	if err != nil {
		return err
	}

	packer, err := newPacker(cfg, logger)
	if err != nil {
		return err
	}

	var out *gltfpack.Output
	if cfg.PackOnly {
		out, err = packer.Pack(ctx, asset.Doc, asset.Blobs)
	} else {
		out, err = packer.Optimize(ctx, asset.Doc, asset.Blobs)
	}
	if err != nil {
		return err
	}

	var writeOpts []gltfio.WriteOption
	if cfg.ZstdLevel > 0 {
		writeOpts = append(writeOpts, gltfio.WithZstdLevel(zstd.EncoderLevelFromZstd(cfg.ZstdLevel)))
	}
	if err := gltfio.Save(f.output, out.Doc, out.Binary, writeOpts...); err != nil {
		return err
	}
	logger.Info("wrote asset", "path", f.output, "digest", out.Digest, "size", len(out.Binary))
	return nil
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set on the command line.
func loadConfig(fs *pflag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	if fs.Changed("pack-only") {
		cfg.PackOnly = f.packOnly
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("quality") {
		cfg.Quality = f.quality
	}
	if fs.Changed("ktx-quality") {
		cfg.KTXQuality = f.ktxQuality
	}
	if fs.Changed("no-transcode") {
		cfg.KTXTranscode = !f.noTranscode
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("cache-dir") {
		cfg.Cache.Dir = f.cacheDir
	}
	if fs.Changed("cache-max-bytes") {
		cfg.Cache.MaxBytes = f.cacheMaxBytes
	}
	if fs.Changed("jsonc") {
		cfg.JSONC = f.jsonc
	}
	if fs.Changed("zstd-level") {
		cfg.ZstdLevel = f.zstdLevel
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newPacker(cfg *config.Config, logger *slog.Logger) (*gltfpack.Packer, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	opts := []gltfpack.Option{
		gltfpack.WithLogger(logger),
		gltfpack.WithParams(params),
		gltfpack.WithWorkers(cfg.Workers),
	}
	if cfg.Cache.Dir != "" {
		opts = append(opts, gltfpack.WithCacheDir(cfg.Cache.Dir, cfg.Cache.MaxBytes))
	}
	return gltfpack.New(opts...)
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `gltfpack packs a glTF asset into a single-buffer GLB file.

Buffers are concatenated into one binary chunk with every buffer view
aligned to 4 bytes. Unless --pack-only is given, textures are re-encoded
and their images moved into the packed buffer.

Usage:
  gltfpack --input scene.gltf --output scene.glb [flags]

Flags:
%s`, fs.FlagUsages())
}
