// Package backup provides tar.gz-based backup and restore for Limelight data:
// the SQLite database, the config file, and the uploaded media tree.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// mediaPrefix is the archive directory holding uploaded media files.
const mediaPrefix = "media"

// Backup creates a tar.gz archive at outputPath containing the SQLite
// database, an optional config file, and the media directory. It performs
// a WAL checkpoint before copying the database to ensure consistency.
func Backup(ctx context.Context, dbPath, configPath, mediaDir, outputPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database file not found: %w", err)
	}

	// Checkpoint WAL to flush pending writes.
	if err := checkpointWAL(ctx, dbPath); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	if err := addFile(tw, dbPath, filepath.Base(dbPath)); err != nil {
		return fmt.Errorf("adding database to archive: %w", err)
	}

	// Config file is optional; skip silently when missing.
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := addFile(tw, configPath, filepath.Base(configPath)); err != nil {
				return fmt.Errorf("adding config to archive: %w", err)
			}
		}
	}

	if mediaDir != "" {
		if err := addMediaTree(tw, mediaDir); err != nil {
			return fmt.Errorf("adding media to archive: %w", err)
		}
	}

	return nil
}

// Restore extracts a backup archive into dataDir. Existing files are only
// overwritten when force is set.
func Restore(ctx context.Context, archivePath, dataDir string, force bool) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tr := tar.NewReader(gr)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		target, err := safeJoin(dataDir, hdr.Name)
		if err != nil {
			return err
		}

		if !force {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("file %s already exists (use force to overwrite)", target)
			}
		}

		if err := extractFile(tr, target, hdr.FileInfo().Mode()); err != nil {
			return fmt.Errorf("extracting %s: %w", hdr.Name, err)
		}
	}
}

// checkpointWAL opens the database, runs a TRUNCATE checkpoint to flush the
// WAL, and closes the connection.
func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// addMediaTree walks the media directory and stores each regular file under
// the media/ prefix. A missing directory is not an error; a fresh install
// may never have uploaded anything.
func addMediaTree(tw *tar.Writer, mediaDir string) error {
	if _, err := os.Stat(mediaDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return filepath.WalkDir(mediaDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(mediaDir, p)
		if err != nil {
			return err
		}
		return addFile(tw, p, path.Join(mediaPrefix, filepath.ToSlash(rel)))
	})
}

// addFile adds a single file to the tar archive under the given name.
func addFile(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}

// safeJoin resolves an archive entry name inside dir, rejecting absolute
// paths and traversal outside the target directory.
func safeJoin(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes target directory", name)
	}
	return filepath.Join(dir, clean), nil
}

func extractFile(r io.Reader, target string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
