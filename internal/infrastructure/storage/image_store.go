package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"tutor-platform/internal/logger"
	appErrors "tutor-platform/pkg/errors"

	"go.uber.org/zap"
)

const (
	StudentPhotoDir = "students"
	TutorImageDir   = "tutors"
)

var (
	ErrImageTooLarge = appErrors.NewAppError("IMAGE_TOO_LARGE", "uploaded image exceeds the size limit", nil)
	ErrNotAnImage    = appErrors.NewAppError("INVALID_IMAGE", "uploaded file is not a supported image", nil)
)

// ImageStore persists profile pictures and hands back a relative path.
type ImageStore interface {
	Save(ctx context.Context, dir string, r io.Reader) (string, error)
	Open(name string) (afero.File, error)
	Delete(name string) error
}

// FileStore keeps images on an afero filesystem rooted at the media dir.
type FileStore struct {
	fs       afero.Fs
	maxBytes int64
}

func NewFileStore(root string, maxBytes int64) *FileStore {
	return NewFileStoreWithFs(afero.NewBasePathFs(afero.NewOsFs(), root), maxBytes)
}

func NewFileStoreWithFs(fs afero.Fs, maxBytes int64) *FileStore {
	return &FileStore{fs: fs, maxBytes: maxBytes}
}

func (s *FileStore) Save(ctx context.Context, dir string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotAnImage
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	name := path.Join(dir, uuid.NewString()+mtype.Extension())
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logger.Debug("Stored image",
		zap.String("path", name),
		zap.String("mime", mtype.String()),
		zap.Int("bytes", len(data)),
	)
	return name, nil
}

// Open resolves name inside the store; ".." segments cannot escape it.
func (s *FileStore) Open(name string) (afero.File, error) {
	return s.fs.Open(strings.TrimPrefix(path.Clean("/"+name), "/"))
}

func (s *FileStore) Delete(name string) error {
	if name == "" {
		return nil
	}
	return s.fs.Remove(name)
}
