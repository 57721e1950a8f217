// Package media stores listing photos.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

// StoredFile identifies an uploaded file. Locator is what Delete needs.
type StoredFile struct {
	Locator string
	URL     string
}

type FileStore interface {
	Store(ctx context.Context, name string, r io.Reader) (StoredFile, error)
	Delete(ctx context.Context, locator string) error
}

type Cloudinary struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

var _ FileStore = (*Cloudinary)(nil)

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder, timeout: 40 * time.Second}, nil
}

func (c *Cloudinary) Store(ctx context.Context, name string, r io.Reader) (StoredFile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return StoredFile{}, fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return StoredFile{}, fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}
	return StoredFile{Locator: res.PublicID, URL: res.SecureURL}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, locator string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: locator})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", locator, err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("destroy %s: %s", locator, res.Result)
	}
	return nil
}
