// Package images resolves image references found in markup into element
// images: data URIs, local files relative to a base directory or base URL
// and (optionally) remote resources.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"hdoc/element"
	"hdoc/jpegquality"
	imgutil "hdoc/utils/images"
)

var (
	ErrNoSource       = errors.New("image has no source")
	ErrRemoteDisabled = errors.New("remote images are disabled")
	ErrUnsupported    = errors.New("unsupported image format")
)

const (
	mimeSVG = "image/svg+xml"
	// maxRemoteSize limits size of downloaded image.
	maxRemoteSize = 32 << 20
)

// Options control image resolution.
type Options struct {
	BaseDir      string        // directory for relative local paths
	BaseURL      string        // prefix for relative references
	AllowRemote  bool          // fetch http(s) images
	Timeout      time.Duration // remote fetch timeout
	Token        string        // bearer token sent with remote requests
	UseBroken    bool          // substitute unresolvable images with placeholder
	ScaleFactor  float64       // scale raster images, 0 or 1 keeps size
	MaxWidth     int           // downscale raster images wider than this, 0 disables
	RasterizeSVG bool          // convert SVG to PNG
	JPEGQuality  int
}

// Resolver loads images. Successfully resolved images are cached by
// reference so repeated references share data.
type Resolver struct {
	log    *zap.Logger
	opts   Options
	client *http.Client
	cache  map[string]*element.Image
}

func NewResolver(log *zap.Logger, opts Options) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 85
	}
	return &Resolver{
		log:    log.Named("images"),
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		cache:  make(map[string]*element.Image),
	}
}

// Resolve loads image referenced by src. Relative local paths are looked up
// in dir when it is not empty, otherwise in BaseDir. On failure with
// UseBroken set placeholder image is returned together with the error.
// Returned image is a copy and may be modified by caller.
func (r *Resolver) Resolve(ctx context.Context, src, dir string) (*element.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return r.broken(src, ErrNoSource)
	}
	key := dir + "\x00" + src
	if img, ok := r.cache[key]; ok {
		cp := *img
		return &cp, nil
	}

	data, err := r.load(ctx, src, dir)
	if err != nil {
		return r.broken(src, err)
	}
	img, err := r.Decode(src, data)
	if err != nil {
		return r.broken(src, err)
	}
	r.cache[key] = img
	cp := *img
	return &cp, nil
}

func (r *Resolver) broken(src string, err error) (*element.Image, error) {
	err = fmt.Errorf("unable to resolve image %q: %w", src, err)
	if !r.opts.UseBroken {
		return nil, err
	}
	r.log.Debug("Substituting image with placeholder", zap.String("src", src))
	img, perr := Broken(src)
	if perr != nil {
		return nil, errors.Join(err, perr)
	}
	return img, err
}

func (r *Resolver) load(ctx context.Context, src, dir string) ([]byte, error) {
	if strings.HasPrefix(strings.ToLower(src), "data:") {
		return DecodeDataURI(src)
	}

	loc, err := r.locate(src, dir)
	if err != nil {
		return nil, err
	}
	switch loc.Scheme {
	case "http", "https":
		return r.fetch(ctx, loc.String())
	case "file":
		return os.ReadFile(filepath.FromSlash(loc.Path))
	case "":
		return os.ReadFile(loc.Path)
	}
	return nil, fmt.Errorf("unsupported scheme %q", loc.Scheme)
}

// locate composes full location of src. Result without scheme is a local
// file path.
func (r *Resolver) locate(src, dir string) (*url.URL, error) {
	ref, refErr := url.Parse(src)
	if refErr == nil && ref.Scheme != "" && len(ref.Scheme) > 1 {
		return ref, nil
	}
	if r.opts.BaseURL != "" {
		base, err := url.Parse(r.opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("bad base url: %w", err)
		}
		if base.Scheme != "" && len(base.Scheme) > 1 {
			if ref == nil {
				return nil, fmt.Errorf("bad image reference: %w", refErr)
			}
			return base.ResolveReference(ref), nil
		}
		// plain path prefix
		return &url.URL{Path: r.opts.BaseURL + src}, nil
	}

	p := src
	if ref != nil && ref.Path != "" {
		// undo percent encoding of relative references
		p = ref.Path
	}
	if filepath.IsAbs(p) {
		return &url.URL{Path: p}, nil
	}
	if dir == "" {
		dir = r.opts.BaseDir
	}
	return &url.URL{Path: filepath.Join(dir, p)}, nil
}

func (r *Resolver) fetch(ctx context.Context, loc string) ([]byte, error) {
	if !r.opts.AllowRemote {
		return nil, ErrRemoteDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	if r.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.opts.Token)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	r.log.Debug("Image downloaded", zap.String("url", loc), zap.Int64("length", resp.ContentLength))
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
}

// Decode sniffs image data, obtains dimensions and applies configured
// transformations. Width and height are set to pixel size at 72 dpi.
func (r *Resolver) Decode(src string, data []byte) (*element.Image, error) {
	img := &element.Image{Src: src, Data: data}

	if imgutil.IsSVG(data) {
		return r.decodeSVG(img)
	}

	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ErrUnsupported
	}
	img.MimeType = kind.MIME.Value

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", img.MimeType, err)
	}
	img.PixelWidth, img.PixelHeight = cfg.Width, cfg.Height

	if err := r.transform(img, format); err != nil {
		return nil, err
	}
	img.Width, img.Height = float64(img.PixelWidth), float64(img.PixelHeight)
	return img, nil
}

func (r *Resolver) decodeSVG(img *element.Image) (*element.Image, error) {
	img.MimeType = mimeSVG
	if !r.opts.RasterizeSVG {
		w, h, err := imgutil.SVGSize(img.Data)
		if err != nil {
			return nil, err
		}
		img.PixelWidth, img.PixelHeight = w, h
		img.Width, img.Height = float64(w), float64(h)
		return img, nil
	}

	targetW := 0
	if w, _, err := imgutil.SVGSize(img.Data); err == nil && r.opts.MaxWidth > 0 && w > r.opts.MaxWidth {
		targetW = r.opts.MaxWidth
	}
	raster, err := imgutil.RasterizeSVG(img.Data, targetW, 0)
	if err != nil {
		return nil, err
	}
	data, err := imgutil.EncodePNG(raster)
	if err != nil {
		return nil, fmt.Errorf("unable to encode rasterized svg: %w", err)
	}
	r.log.Debug("SVG rasterized", zap.String("src", img.Src), zap.Stringer("bounds", raster.Bounds()))
	img.Data, img.MimeType = data, "image/png"
	img.PixelWidth, img.PixelHeight = raster.Bounds().Dx(), raster.Bounds().Dy()
	img.Width, img.Height = float64(img.PixelWidth), float64(img.PixelHeight)
	return img, nil
}

// transform scales raster image when configured. Only PNG and JPEG are
// re-encoded, other formats are kept as is.
func (r *Resolver) transform(img *element.Image, format string) error {
	if format != "png" && format != "jpeg" {
		return nil
	}
	targetW := img.PixelWidth
	if f := r.opts.ScaleFactor; f > 0 && f != 1 {
		targetW = int(float64(targetW) * f)
	}
	if r.opts.MaxWidth > 0 && targetW > r.opts.MaxWidth {
		targetW = r.opts.MaxWidth
	}
	if targetW == img.PixelWidth || targetW <= 0 {
		return nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("unable to decode %s: %w", format, err)
	}
	resized := imaging.Resize(decoded, targetW, 0, imaging.Lanczos)

	var data []byte
	if format == "jpeg" {
		data, err = imgutil.EncodeJPEG(resized, r.jpegQuality(img), 72)
	} else {
		data, err = imgutil.EncodePNG(resized)
	}
	if err != nil {
		return fmt.Errorf("unable to encode resized %s: %w", format, err)
	}
	r.log.Debug("Image resized", zap.String("src", img.Src),
		zap.Int("from", img.PixelWidth), zap.Int("to", resized.Bounds().Dx()))
	img.Data = data
	img.PixelWidth, img.PixelHeight = resized.Bounds().Dx(), resized.Bounds().Dy()
	return nil
}

// jpegQuality returns quality for re-encoding, never above the quality
// source image was saved with.
func (r *Resolver) jpegQuality(img *element.Image) int {
	q := r.opts.JPEGQuality
	qr, err := jpegquality.NewWithBytes(img.Data)
	if err != nil {
		r.log.Debug("Unable to estimate JPEG quality", zap.String("src", img.Src), zap.Error(err))
		return q
	}
	return min(q, qr.Quality())
}

// DecodeDataURI decodes "data:[<mediatype>][;base64],<data>".
func DecodeDataURI(uri string) ([]byte, error) {
	_, rest, ok := strings.Cut(uri, ":")
	if !ok {
		return nil, errors.New("malformed data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("malformed data uri")
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data uri payload: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data uri payload: %w", err)
	}
	return []byte(data), nil
}
