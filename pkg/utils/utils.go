package utils

import (
	"crypto/rand"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile        = errors.New("no file uploaded")
	ErrFileTooLarge  = errors.New("file size exceeds limit")
	ErrInvalidFormat = errors.New("uploaded file is not an image")
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewOrderID(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 5 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewOrderID returns ESIM- followed by a ULID. The ULID keeps order ids
// sortable by creation time and short enough for MMQR tag 62.
func (u *utils) NewOrderID(t time.Time) (string, error) {
	id, err := u.NewULIDFromTimestamp(t)
	if err != nil {
		return "", err
	}
	return "ESIM-" + id, nil
}

// ValidateImageFile accepts payment screenshots up to 5MB.
func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ErrInvalidFormat
	}

	if !allowedImageExt[strings.ToLower(filepath.Ext(file.Filename))] {
		return ErrInvalidFormat
	}

	return nil
}
