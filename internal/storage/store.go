package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/logger"
)

// SaveOptions describe one save.
type SaveOptions struct {
	Format  Format
	Quality int // 0-100, lossy formats only

	// Dir overrides the store's base directory when set.
	Dir string

	// Name is the target file name. Empty selects a unique generated
	// name. An extension matching the format is appended when missing.
	Name string
}

// Store persists a pixel buffer and returns the path it was written to.
// Implementations are expected to run on a non-UI execution context.
type Store interface {
	Save(ctx context.Context, img *image.RGBA, opts SaveOptions) (string, error)
}

// FileStore writes encoded frames to an afero filesystem. Pointing it
// at afero.NewMemMapFs() gives an in-memory store for tests.
type FileStore struct {
	fs      afero.Fs
	baseDir string
}

// NewFileStore creates a store rooted at baseDir.
func NewFileStore(fs afero.Fs, baseDir string) *FileStore {
	return &FileStore{fs: fs, baseDir: baseDir}
}

// Save encodes img per opts and writes it. Caller-named files are never
// silently overwritten.
func (s *FileStore) Save(ctx context.Context, img *image.RGBA, opts SaveOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil {
		return "", caperr.New(caperr.KindStorageError, "no pixel data to save")
	}

	dir := s.baseDir
	if opts.Dir != "" {
		dir = opts.Dir
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", caperr.Wrap(caperr.KindStorageError, err, "create directory %s", dir)
	}

	callerNamed := opts.Name != ""
	name := opts.Name
	if name == "" {
		name = "capture-" + uuid.NewString()
	}
	if !strings.EqualFold(filepath.Ext(name), opts.Format.Ext()) {
		name += opts.Format.Ext()
	}
	path := filepath.Join(dir, name)

	if callerNamed {
		if exists, _ := afero.Exists(s.fs, path); exists {
			return "", caperr.New(caperr.KindStorageError, "file %s already exists", path)
		}
	}

	data, err := encode(img, opts.Format, opts.Quality)
	if err != nil {
		return "", caperr.Wrap(caperr.KindStorageError, err, "encode %s", opts.Format)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", caperr.Wrap(caperr.KindStorageError, err, "write %s", path)
	}

	logger.WithComponent("storage").Debug().
		Str("path", path).
		Str("format", string(opts.Format)).
		Int("bytes", len(data)).
		Msg("Frame persisted")
	return path, nil
}

func encode(img *image.RGBA, format Format, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	buf := new(bytes.Buffer)
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case FormatWebP:
		if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, err
		}
	case FormatPNG, "":
		if err := png.Encode(buf, img); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}
