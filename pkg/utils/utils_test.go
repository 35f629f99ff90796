package utils

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	id, err := New().NewULIDFromTimestamp(now)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestNewOrderID(t *testing.T) {
	id, err := New().NewOrderID(time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "ESIM-"))
	assert.Len(t, id, 31)
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateImageFile(t *testing.T) {
	u := New()

	assert.NoError(t, u.ValidateImageFile(fileHeader("proof.PNG", "image/png", 1024)))
	assert.ErrorIs(t, u.ValidateImageFile(nil), ErrNoFile)
	assert.ErrorIs(t, u.ValidateImageFile(fileHeader("proof.png", "image/png", 6*1024*1024)), ErrFileTooLarge)
	assert.ErrorIs(t, u.ValidateImageFile(fileHeader("proof.pdf", "application/pdf", 1024)), ErrInvalidFormat)
	assert.ErrorIs(t, u.ValidateImageFile(fileHeader("proof.gif", "image/gif", 1024)), ErrInvalidFormat)
}
