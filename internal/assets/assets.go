// Package assets resolves the raster images a quote references: the
// company logo from an asset store and the signature from an inline
// base64 payload. Failures here are never fatal to a render; the
// resolver reports them and the document proceeds without the image.
package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	// Raster formats accepted from stores and inline payloads. PNG,
	// JPEG and GIF pass straight through to the canvas; the x/image
	// formats are re-encoded to PNG first.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"quotegen/internal/canvas"
)

// ErrNotFound is returned by stores when a reference has no asset.
var ErrNotFound = errors.New("asset not found")

// defaultTimeout bounds a single store lookup. On expiry the asset is
// treated as unavailable, not as a render failure.
const defaultTimeout = 5 * time.Second

// AssetError wraps a lookup or decode failure for a single asset.
type AssetError struct {
	Ref string
	Err error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %q: %v", e.Ref, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// Store is the external asset lookup consumed by the resolver.
type Store interface {
	Resolve(ctx context.Context, ref string) ([]byte, error)
}

// DirStore serves assets from a directory, keyed by relative path.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Resolve reads the asset file for ref. References are cleaned so a
// lookup can never escape the store root.
func (s *DirStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Join(s.root, filepath.Clean("/"+ref))
	data, err := os.ReadFile(clean)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Resolver turns asset references into canvas images.
type Resolver struct {
	store   Store
	log     *zap.Logger
	timeout time.Duration
}

func NewResolver(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, log: log, timeout: defaultTimeout}
}

// Logo looks up a company logo reference. A missing, unreadable or
// undecodable asset logs a warning and reports ok=false; the caller
// renders without the logo.
func (r *Resolver) Logo(ctx context.Context, ref string) (canvas.Image, bool) {
	if ref == "" || r.store == nil {
		return canvas.Image{}, false
	}
	data, err := r.fetch(ctx, ref)
	if err != nil {
		r.log.Warn("logo unavailable, rendering without it",
			zap.String("ref", ref),
			zap.Error(&AssetError{Ref: ref, Err: err}),
		)
		return canvas.Image{}, false
	}
	img, err := normalize(data)
	if err != nil {
		r.log.Warn("logo not decodable, rendering without it",
			zap.String("ref", ref),
			zap.Error(err),
		)
		return canvas.Image{}, false
	}
	return img, true
}

// Signature decodes an inline base64 payload, stripping any data-URI
// prefix. The returned error is an *AssetError; callers skip the image
// but keep the surrounding signature block.
func (r *Resolver) Signature(data string) (canvas.Image, error) {
	raw, err := decodeInline(data)
	if err != nil {
		return canvas.Image{}, &AssetError{Ref: "signature", Err: err}
	}
	img, err := normalize(raw)
	if err != nil {
		return canvas.Image{}, &AssetError{Ref: "signature", Err: err}
	}
	return img, nil
}

// fetch runs the store lookup under the resolver timeout. The store
// call is the only potential blocking point in a render.
func (r *Resolver) fetch(ctx context.Context, ref string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := r.store.Resolve(ctx, ref)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.data, res.err
	}
}

// decodeInline strips a "data:image/...;base64," prefix when present
// and base64-decodes the remainder.
func decodeInline(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, errors.New("malformed data URI")
		}
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients emit unpadded base64.
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return raw, nil
}

// normalize validates the raster and converts it to a format the
// canvas accepts. PNG, JPEG and GIF bytes pass through untouched;
// anything else decodable is re-encoded as PNG. Image names are
// content hashes so identical rasters register once per document.
func normalize(data []byte) (canvas.Image, error) {
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return canvas.Image{}, fmt.Errorf("decode image: %w", err)
	}

	name := contentName(data)
	switch format {
	case "png":
		return canvas.Image{Name: name, Format: "PNG", Data: data}, nil
	case "jpeg":
		return canvas.Image{Name: name, Format: "JPG", Data: data}, nil
	case "gif":
		return canvas.Image{Name: name, Format: "GIF", Data: data}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return canvas.Image{}, fmt.Errorf("re-encode %s image: %w", format, err)
	}
	return canvas.Image{Name: name, Format: "PNG", Data: buf.Bytes()}, nil
}

func contentName(data []byte) string {
	sum := sha256.Sum256(data)
	return "img-" + hex.EncodeToString(sum[:8])
}
