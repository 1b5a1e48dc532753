// Package media stores uploaded files on local disk and serves them under
// /media/. Oversized JPEG and PNG uploads are re-encoded to JPEG to keep
// page weight down.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder for re-encoding
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidPath is returned for empty, absolute, or traversal paths.
var ErrInvalidPath = errors.New("invalid media path")

// BlobStore persists uploaded files and returns their public URLs.
// Uploading to an existing path overwrites the previous content, so
// re-uploading a banner image replaces it everywhere it is referenced.
type BlobStore interface {
	// Put stores content under the given relative path and returns the
	// public URL of the stored file.
	Put(ctx context.Context, name string, r io.Reader) (string, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error

	// Open reads a stored file.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Compile-time interface guard.
var _ BlobStore = (*DiskStore)(nil)

// reencodeThreshold is the size in bytes above which image uploads are
// re-encoded to JPEG at quality 85.
const reencodeThreshold = 2 << 20

// DiskStore implements BlobStore on the local filesystem.
type DiskStore struct {
	root      string
	publicURL string
	logger    *zap.Logger
}

// NewDiskStore creates a store rooted at dir. Stored files are served under
// publicPrefix (e.g. "/media"). The directory is created if missing.
func NewDiskStore(dir, publicPrefix string, logger *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskStore{
		root:      dir,
		publicURL: strings.TrimSuffix(publicPrefix, "/"),
		logger:    logger,
	}, nil
}

// Root returns the store's on-disk root directory.
func (s *DiskStore) Root() string { return s.root }

func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	clean, err := s.cleanPath(name)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	if isImagePath(clean) && len(data) > reencodeThreshold {
		if reencoded, err := reencodeJPEG(data); err == nil {
			s.logger.Info("re-encoded oversized image",
				zap.String("path", clean),
				zap.Int("original_bytes", len(data)),
				zap.Int("encoded_bytes", len(reencoded)))
			data = reencoded
		} else {
			s.logger.Warn("image re-encode failed, storing original",
				zap.String("path", clean), zap.Error(err))
		}
	}

	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media subdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return s.publicURL + "/" + clean, nil
}

func (s *DiskStore) Delete(ctx context.Context, name string) error {
	clean, err := s.cleanPath(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	clean, err := s.cleanPath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return f, nil
}

// cleanPath validates and normalizes a client-supplied path. Anything that
// would escape the root is rejected.
func (s *DiskStore) cleanPath(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", ErrInvalidPath
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	if strings.Contains(clean, "\\") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

func isImagePath(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// reencodeJPEG decodes an image and re-encodes it as JPEG at quality 85.
func reencodeJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
