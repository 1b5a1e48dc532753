package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newDiskStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir(), "/media", zap.NewNop())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return s
}

func TestDiskStore_PutAndOpen(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	url, err := s.Put(ctx, "banners/hero.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/media/banners/hero.txt" {
		t.Errorf("url = %q, want /media/banners/hero.txt", url)
	}

	rc, err := s.Open(ctx, "banners/hero.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}
}

func TestDiskStore_PutOverwrites(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "a.txt", strings.NewReader("first")); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if _, err := s.Put(ctx, "a.txt", strings.NewReader("second")); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	rc, err := s.Open(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "..", "../etc/passwd", "a/../../b", "a\\b"} {
		if _, err := s.Put(ctx, name, strings.NewReader("x")); err != ErrInvalidPath {
			t.Errorf("Put(%q) = %v, want ErrInvalidPath", name, err)
		}
	}
}

func TestDiskStore_DeleteMissingIsNoop(t *testing.T) {
	s := newDiskStore(t)
	if err := s.Delete(context.Background(), "absent.txt"); err != nil {
		t.Errorf("Delete missing = %v, want nil", err)
	}
}

func TestDiskStore_ReencodesLargeImage(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	// A large noisy-ish PNG comfortably over the threshold.
	img := image.NewRGBA(image.Rect(0, 0, 1200, 1200))
	for y := 0; y < 1200; y++ {
		for x := 0; x < 1200; x++ {
			img.Set(x, y, color.RGBA{uint8(x * y), uint8(x ^ y), uint8(x + y), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if buf.Len() <= reencodeThreshold {
		t.Skipf("fixture too small (%d bytes) to exercise re-encoding", buf.Len())
	}

	if _, err := s.Put(ctx, "gallery/big.png", &buf); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := s.Open(ctx, "gallery/big.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	// Stored content must now decode as JPEG.
	if _, err := jpeg.Decode(bytes.NewReader(stored)); err != nil {
		t.Errorf("stored image is not JPEG: %v", err)
	}
}

func TestDiskStore_SmallImageStoredVerbatim(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	original := buf.Bytes()

	if _, err := s.Put(ctx, "small.png", bytes.NewReader(original)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := s.Open(ctx, "small.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	stored, _ := io.ReadAll(rc)
	if !bytes.Equal(stored, original) {
		t.Error("small image was modified on upload")
	}
}
