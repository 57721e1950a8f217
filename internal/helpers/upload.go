package helpers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"ceylonhomes-api-io/api/pkg/services"

	"github.com/gin-gonic/gin"
)

const (
	MAX_FILE_SIZE    = 10 << 20
	MAX_REQUEST_SIZE = services.MaxPhotosPerUpload * MAX_FILE_SIZE
)

var ErrNoImages = errors.New("no images in request, send them as the 'images' form field")

// MultipartImages collects the images form field as uploads. Files are
// opened lazily by the listing service.
func MultipartImages(c *gin.Context) ([]services.Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MAX_REQUEST_SIZE)
	if err := c.Request.ParseMultipartForm(MAX_FILE_SIZE); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	files := c.Request.MultipartForm.File["images"]
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	uploads := make([]services.Upload, 0, len(files))
	for i, fh := range files {
		if fh.Size > MAX_FILE_SIZE {
			return nil, fmt.Errorf("image %d is larger than %d bytes", i, MAX_FILE_SIZE)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return nil, fmt.Errorf("image %d has unsupported content type %s", i, ct)
		}
		uploads = append(uploads, services.Upload{Name: fh.Filename, Open: opener(fh)})
	}
	return uploads, nil
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}
