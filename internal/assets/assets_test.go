package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// A 1x1 PNG, the smallest raster the decoders accept.
const pngPixelB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func pngPixel(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pngPixelB64)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return data
}

func TestDirStoreResolve(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "logo.png"), pngPixel(t), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewDirStore(root)

	data, err := store.Resolve(context.Background(), "logo.png")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty asset data")
	}
}

func TestDirStoreMissing(t *testing.T) {
	store := NewDirStore(t.TempDir())

	if _, err := store.Resolve(context.Background(), "absent.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(absent) = %v, want ErrNotFound", err)
	}
}

func TestDirStoreCleansTraversal(t *testing.T) {
	store := NewDirStore(t.TempDir())

	// A traversal reference must stay inside the store root; since the
	// root is empty it resolves to not-found rather than escaping.
	if _, err := store.Resolve(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("traversal ref = %v, want ErrNotFound", err)
	}
}

func TestSignatureDecode(t *testing.T) {
	r := NewResolver(nil, zap.NewNop())

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"plain base64", pngPixelB64, false},
		{"data URI prefix", "data:image/png;base64," + pngPixelB64, false},
		{"empty payload", "", true},
		{"malformed data URI", "data:image/png;base64", true},
		{"not base64", "!!!not-base64!!!", true},
		{"base64 but not an image", base64.StdEncoding.EncodeToString([]byte("plain text")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Signature(tt.data)
			if tt.wantErr {
				var aerr *AssetError
				if !errors.As(err, &aerr) {
					t.Fatalf("Signature() = %v, want *AssetError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signature() error: %v", err)
			}
			if img.Format != "PNG" {
				t.Errorf("format = %q, want PNG", img.Format)
			}
			if img.Name == "" || len(img.Data) == 0 {
				t.Error("decoded image missing name or data")
			}
		})
	}
}

func TestLogoResolvesFromStore(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "logo.png"), pngPixel(t), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(NewDirStore(root), zap.NewNop())

	img, ok := r.Logo(context.Background(), "logo.png")
	if !ok {
		t.Fatal("Logo() not ok for present asset")
	}
	if img.Format != "PNG" {
		t.Errorf("format = %q, want PNG", img.Format)
	}
}

func TestLogoFallsBackWithoutFailing(t *testing.T) {
	tests := []struct {
		name string
		r    *Resolver
		ref  string
	}{
		{"empty reference", NewResolver(NewDirStore(t.TempDir()), zap.NewNop()), ""},
		{"missing asset", NewResolver(NewDirStore(t.TempDir()), zap.NewNop()), "gone.png"},
		{"nil store", NewResolver(nil, zap.NewNop()), "logo.png"},
		{"failing store", NewResolver(failStore{}, zap.NewNop()), "logo.png"},
		{"undecodable asset", NewResolver(bytesStore{data: []byte("not an image")}, zap.NewNop()), "logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.r.Logo(context.Background(), tt.ref); ok {
				t.Error("Logo() = ok, want fallback")
			}
		})
	}
}

func TestIdenticalContentSharesName(t *testing.T) {
	r := NewResolver(nil, zap.NewNop())

	a, err := r.Signature(pngPixelB64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Signature("data:image/png;base64," + pngPixelB64)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != b.Name {
		t.Errorf("same content produced names %q and %q", a.Name, b.Name)
	}
}

type failStore struct{}

func (failStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	return nil, errors.New("store offline")
}

type bytesStore struct{ data []byte }

func (s bytesStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	return s.data, nil
}
