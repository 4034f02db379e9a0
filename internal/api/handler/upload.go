package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// openUpload turns a multipart file header into a ports.Upload. The caller
// must close the returned file.
func openUpload(fh *multipart.FileHeader) (ports.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return ports.Upload{}, nil, domain.Invalid("cannot read uploaded file %q", fh.Filename)
	}
	return ports.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

// formFile returns the named file of a multipart request, or a validation
// error when it is missing.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, domain.Invalid("multipart field %q is required", field)
	}
	return fh, nil
}
