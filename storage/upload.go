// Package storage validates uploaded media and writes it to an object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"LabelCMS/model"

	"github.com/google/uuid"
)

// Kind is the category of an uploaded file.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

const (
	MaxImageSize int64 = 5 << 20
	MaxAudioSize int64 = 50 << 20
)

var allowedTypes = map[Kind][]string{
	KindImage: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	KindAudio: {"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp4"},
}

// Store persists an object and returns the URL it is served from.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// MaxSize returns the size limit of kind, or 0 for unknown kinds.
func MaxSize(kind Kind) int64 {
	switch kind {
	case KindImage:
		return MaxImageSize
	case KindAudio:
		return MaxAudioSize
	}
	return 0
}

// ValidateUpload checks kind, size and content type of an upload.
func ValidateUpload(kind Kind, size int64, contentType string) error {
	limit := MaxSize(kind)
	if limit == 0 {
		return &model.ValidationError{Invalid: []string{"type"}}
	}

	ve := &model.ValidationError{}
	if size <= 0 {
		ve.Missing = append(ve.Missing, "file")
	} else if size > limit {
		ve.Invalid = append(ve.Invalid, "size")
	}
	if !typeAllowed(kind, contentType) {
		ve.Invalid = append(ve.Invalid, "contentType")
	}
	if len(ve.Missing) > 0 || len(ve.Invalid) > 0 {
		return ve
	}
	return nil
}

func typeAllowed(kind Kind, contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, t := range allowedTypes[kind] {
		if t == mediaType {
			return true
		}
	}
	return false
}

// ObjectKey names a new object: <kind>s/<unix-ms>-<uuid>.<ext>. The
// extension comes from filename and defaults to "bin".
func ObjectKey(kind Kind, filename string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = "bin"
	}
	return fmt.Sprintf("%ss/%d-%s.%s", kind, now.UnixMilli(), uuid.NewString(), ext)
}
