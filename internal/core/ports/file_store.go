package ports

import (
	"context"
	"io"
)

// FileKind selects the content path an uploaded file is stored under.
type FileKind string

const (
	FileKindProfilePicture FileKind = "profile"
	FileKindResume         FileKind = "cv"
	FileKindCompanyLogo    FileKind = "company-logos"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileStore keeps uploaded documents and returns their public URL.
type FileStore interface {
	Save(ctx context.Context, kind FileKind, name string, content io.Reader) (url string, err error)
	// Delete removes the file behind url. Unknown or foreign URLs are ignored.
	Delete(ctx context.Context, url string) error
}
