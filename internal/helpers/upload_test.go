package helpers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, contentType := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("data-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestMultipartImages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = multipartRequest(t, map[string]string{"front.jpg": "image/jpeg"})

	uploads, err := MultipartImages(c)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "front.jpg", uploads[0].Name)

	rc, err := uploads[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data-front.jpg", string(data))
}

func TestMultipartImagesRejectsNonImages(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = multipartRequest(t, map[string]string{"notes.txt": "text/plain"})

	_, err := MultipartImages(c)
	assert.Error(t, err)
}

func TestMultipartImagesRequiresFiles(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = multipartRequest(t, nil)

	_, err := MultipartImages(c)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestGetPaginationArgs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=25&skip=50&sort=price_asc", nil)

	args := GetPaginationArgs(c)
	assert.Equal(t, 25, args.Limit)
	assert.Equal(t, 50, args.Skip)
	assert.Equal(t, "price_asc", SearchPage(args).Sort)
	assert.Equal(t, 50, StorePage(args).Skip)
}
