// Package imagesrc resolves image filenames found in content to asset URLs and loads them.
package imagesrc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/riverfjs/richhtml-go/internal/types"
)

const userAgent = "richhtml-go/1 (+https://github.com/riverfjs/richhtml-go)"

// Factory 创建绑定到单次渲染请求的 Getter
type Factory struct {
	config types.ImageConfig
	client *http.Client
	log    *zap.Logger
}

// NewFactory returns a factory using config. A nil client gets a default one, a nil log
// discards everything.
func NewFactory(config types.ImageConfig, client *http.Client, log *zap.Logger) *Factory {
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{config: config, client: client, log: log}
}

// Create implements types.ImageGetterFactory.
func (f *Factory) Create(surface types.Surface, resourceNamespace, entityType, entityID string, centerAlign bool) types.ImageGetter {
	maxWidth := f.config.MaxWidth
	if surface != nil && surface.Width() > 0 {
		maxWidth = surface.Width()
	}
	return &Getter{
		factory:     f,
		namespace:   resourceNamespace,
		entityType:  entityType,
		entityID:    entityID,
		centerAlign: centerAlign,
		maxWidth:    maxWidth,
	}
}

// Getter hands out placeholders immediately and loads them on demand.
type Getter struct {
	factory     *Factory
	namespace   string
	entityType  string
	entityID    string
	centerAlign bool
	maxWidth    int

	mu           sync.Mutex
	placeholders []*Placeholder
}

// GetDrawable implements types.ImageGetter. Nothing is fetched here.
func (g *Getter) GetDrawable(source string) types.Drawable {
	p := &Placeholder{
		source:      source,
		url:         g.URL(source),
		centerAlign: g.centerAlign,
		maxWidth:    g.maxWidth,
	}
	g.mu.Lock()
	g.placeholders = append(g.placeholders, p)
	g.mu.Unlock()
	return p
}

// URL returns where the asset named filename lives. Absolute URLs are returned unchanged.
func (g *Getter) URL(filename string) string {
	if isAbsolute(filename) {
		return filename
	}
	base := strings.TrimRight(g.factory.config.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s/%s/assets/image/%s",
		base, g.namespace, g.entityType, g.entityID, url.PathEscape(filename))
}

// Placeholders returns every placeholder handed out so far, in request order.
func (g *Getter) Placeholders() []*Placeholder {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Placeholder, len(g.placeholders))
	copy(out, g.placeholders)
	return out
}

// LoadAll loads every placeholder concurrently and returns all failures combined.
func (g *Getter) LoadAll(ctx context.Context) error {
	placeholders := g.Placeholders()
	errs := make([]error, len(placeholders))

	var wg sync.WaitGroup
	for i, p := range placeholders {
		wg.Add(1)
		go func(i int, p *Placeholder) {
			defer wg.Done()
			errs[i] = g.factory.load(ctx, p)
		}(i, p)
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

// Load fetches and decodes a single placeholder.
func (g *Getter) Load(ctx context.Context, p *Placeholder) error {
	return g.factory.load(ctx, p)
}

func (f *Factory) load(ctx context.Context, p *Placeholder) error {
	if f.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()
	}

	data, err := Download(ctx, p.url, f.client)
	if err != nil {
		f.log.Warn("Unable to download image", zap.String("url", p.url), zap.Error(err))
		return fmt.Errorf("image %q: %w", p.source, err)
	}
	if !IsImage(data) {
		return fmt.Errorf("image %q: downloaded data is not a supported image", p.source)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("image %q: unable to decode: %w", p.source, err)
	}
	f.log.Debug("Image loaded",
		zap.String("url", p.url),
		zap.String("format", format),
		zap.Stringer("size", img.Bounds().Size()))

	p.set(img, format)
	return nil
}

// Download fetches rawURL and returns the response body.
func Download(ctx context.Context, rawURL string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// IsImage 检查数据是否为可解码的图片格式
func IsImage(data []byte) bool {
	for _, ext := range []string{"png", "jpg", "gif", "webp", "bmp", "tif"} {
		if filetype.Is(data, ext) {
			return true
		}
	}
	return false
}

func isAbsolute(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Placeholder is the drawable handed back while parsing. Bounds stay empty until loaded.
type Placeholder struct {
	source      string
	url         string
	centerAlign bool
	maxWidth    int

	mu     sync.RWMutex
	img    image.Image
	format string
	bounds image.Rectangle
}

// Source returns the filename the placeholder was requested for.
func (p *Placeholder) Source() string { return p.source }

// URL returns the resolved asset URL.
func (p *Placeholder) URL() string { return p.url }

// CenterAlign reports whether the image is centered horizontally within the surface.
func (p *Placeholder) CenterAlign() bool { return p.centerAlign }

// Bounds returns where the image is drawn, relative to the start of its line.
func (p *Placeholder) Bounds() image.Rectangle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bounds
}

// Image returns the decoded image scaled to fit, or nil when not loaded.
func (p *Placeholder) Image() image.Image {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.img
}

// Format returns the decoder name ("png", "webp", ...) once loaded.
func (p *Placeholder) Format() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.format
}

// Loaded reports whether the image has been fetched and decoded.
func (p *Placeholder) Loaded() bool {
	return p.Image() != nil
}

func (p *Placeholder) set(img image.Image, format string) {
	size := img.Bounds().Size()
	w, h := size.X, size.Y
	if p.maxWidth > 0 && w > p.maxWidth {
		h = h * p.maxWidth / w
		w = p.maxWidth
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}

	left := 0
	if p.centerAlign && p.maxWidth > w {
		left = (p.maxWidth - w) / 2
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.img = img
	p.format = format
	p.bounds = image.Rect(left, 0, left+w, h)
}
