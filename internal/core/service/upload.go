package service

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// sniffLen is how many leading bytes are inspected to detect content type.
const sniffLen = 3072

// uploadTypes lists the accepted content types and the client extensions
// that may name each of them.
var uploadTypes = map[string][]string{
	"application/pdf": {".pdf"},
	"image/png":       {".png"},
	"image/jpeg":      {".jpg", ".jpeg", ".jpe", ".jfif"},
	"image/gif":       {".gif"},
	"image/webp":      {".webp"},
}

// inspectUpload sniffs the upload's content type and returns a reader that
// still yields the complete content together with the detected type.
// A client file name whose extension names a different type is rejected.
func inspectUpload(file ports.Upload, accept func(*mimetype.MIME) bool, rejected error) (io.Reader, *mimetype.MIME, error) {
	if file.Content == nil {
		return nil, nil, domain.ErrEmptyFile
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, domain.Invalid("unreadable upload: %v", err)
	}
	if n == 0 {
		return nil, nil, domain.ErrEmptyFile
	}
	head = head[:n]

	m := mimetype.Detect(head)
	if !accept(m) || !extensionMatches(m, file.Filename) {
		return nil, nil, rejected
	}
	return io.MultiReader(bytes.NewReader(head), file.Content), m, nil
}

func isPDF(m *mimetype.MIME) bool { return m.Is("application/pdf") }

// isImage accepts raster formats only. Vector formats such as SVG can carry
// script and are refused.
func isImage(m *mimetype.MIME) bool {
	return m.Is("image/png") || m.Is("image/jpeg") || m.Is("image/gif") || m.Is("image/webp")
}

func extensionMatches(m *mimetype.MIME, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return true
	}
	for typ, exts := range uploadTypes {
		if !m.Is(typ) {
			continue
		}
		for _, e := range exts {
			if e == ext {
				return true
			}
		}
	}
	return false
}

// storedName builds a collision-free file name. The extension comes from the
// detected content type, never from the client.
func storedName(kind ports.FileKind, m *mimetype.MIME) string {
	prefix := "file"
	switch kind {
	case ports.FileKindProfilePicture:
		prefix = "profile"
	case ports.FileKindResume:
		prefix = "cv"
	case ports.FileKindCompanyLogo:
		prefix = "logo"
	}

	ext := ""
	if m != nil {
		ext = m.Extension()
	}
	return prefix + "_" + uuid.NewString() + ext
}
